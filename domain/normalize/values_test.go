package normalize

import (
	"testing"
	"time"
)

// TestCurrency tests separator heuristics and symbol stripping
func TestCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		hasError bool
	}{
		{"$5,000.00", "5000.00", false},
		{"24000.00", "24000.00", false},
		{"1.234,56", "1234.56", false},  // European separators
		{"1,234", "1234.00", false},     // grouping only, no decimal part
		{"1.234", "1234.00", false},     // three trailing digits means grouping
		{"€ 99,5", "99.50", false},      // single trailing digit is decimal
		{"1'234.50", "1234.50", false},  // Swiss apostrophe grouping
		{"(250.00)", "-250.00", false},  // parentheses negative
		{"-42", "-42.00", false},
		{"USD 12.34", "12.34", false},
		{"12.5%", "12.50", false},
		{"", "", true},
		{"N/A", "", true},
		{"revenue", "", true},
	}

	for _, test := range tests {
		result, err := Currency(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Currency(%q): expected error, got %v", test.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("Currency(%q): unexpected error %v", test.input, err)
			continue
		}
		if result.String() != test.expected {
			t.Errorf("Currency(%q) = %s, want %s", test.input, result, test.expected)
		}
	}
}

// TestCurrencyIdempotent tests that re-parsing the canonical form is stable
func TestCurrencyIdempotent(t *testing.T) {
	for _, input := range []string{"$5,000.00", "1.234,56", "(99.50)", "42"} {
		first, err := Currency(input)
		if err != nil {
			t.Fatalf("Currency(%q) failed: %v", input, err)
		}
		second, err := Currency(first.String())
		if err != nil {
			t.Fatalf("Currency(%q) failed on canonical form: %v", first, err)
		}
		if first != second {
			t.Errorf("Currency not idempotent for %q: %s then %s", input, first, second)
		}
	}
}

// TestDate tests layout priority and normalization to midnight UTC
func TestDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		hasError bool
	}{
		{"2026-03-01", "2026-03-01", false},
		{"2026-03-01T15:04:05Z", "2026-03-01", false},
		{"Mar 5, 2026", "2026-03-05", false},
		{"March 5, 2026", "2026-03-05", false},
		{"3/4/2026", "2026-04-03", false}, // D/M ordering wins for slashed dates
		{"2026/3/4", "2026-03-04", false},
		{"", "", true},
		{"yesterday", "", true},
	}

	for _, test := range tests {
		result, err := Date(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Date(%q): expected error, got %v", test.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("Date(%q): unexpected error %v", test.input, err)
			continue
		}
		if got := result.Format("2006-01-02"); got != test.expected {
			t.Errorf("Date(%q) = %s, want %s", test.input, got, test.expected)
		}
		if result.Hour() != 0 || result.Location() != time.UTC {
			t.Errorf("Date(%q) not midnight UTC: %v", test.input, result)
		}
	}
}

// TestDateIdempotent tests the re-parse invariant on the canonical form
func TestDateIdempotent(t *testing.T) {
	for _, input := range []string{"2026-03-01", "Mar 5, 2026", "3/4/2026"} {
		first, err := Date(input)
		if err != nil {
			t.Fatalf("Date(%q) failed: %v", input, err)
		}
		second, err := Date(first.Format("2006-01-02"))
		if err != nil {
			t.Fatalf("Date failed on canonical form of %q: %v", input, err)
		}
		if !first.Equal(second) {
			t.Errorf("Date not idempotent for %q: %v then %v", input, first, second)
		}
	}
}

// TestText tests identifier canonicalization
func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Spring   Sale  ", "spring sale"},
		{"Campaign_Name", "campaign name"},
		{"north-america", "north america"},
		{"TEST024", "test024"},
		{"", ""},
	}
	for _, test := range tests {
		if got := Text(test.input); got != test.expected {
			t.Errorf("Text(%q) = %q, want %q", test.input, got, test.expected)
		}
	}

	// idempotence
	for _, input := range []string{"  Spring   Sale  ", "Campaign_Name", "x"} {
		once := Text(input)
		if Text(once) != once {
			t.Errorf("Text not idempotent for %q", input)
		}
	}
}

// TestPlatformName tests containment resolution to canonical codes
func TestPlatformName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"LinkedIn Ads", "linkedin"},
		{"linkedin", "linkedin"},
		{"Meta", "facebook"},
		{"FB Ads", "facebook"},
		{"Google AdWords", "google"},
		{"YouTube", "google"},
		{"Bing", "microsoft"},
		{"TikTok For Business", "tiktok"},
		{"X Ads", "twitter"},
		{"Quora Ads", "quora ads"}, // unrecognized passes through normalized
		{"", ""},
	}
	for _, test := range tests {
		if got := PlatformName(test.input); got != test.expected {
			t.Errorf("PlatformName(%q) = %q, want %q", test.input, got, test.expected)
		}
	}

	// canonical codes are fixed points
	for _, code := range []string{"linkedin", "facebook", "google", "tiktok"} {
		if PlatformName(code) != code {
			t.Errorf("PlatformName(%q) should be a fixed point", code)
		}
	}
}

// TestInteger tests count parsing with grouping and zero fraction
func TestInteger(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		hasError bool
	}{
		{"993", 993, false},
		{"1,234", 1234, false},
		{"42.00", 42, false},
		{"0", 0, false},
		{"-3", -3, false},
		{"42.50", 0, true},
		{"", 0, true},
		{"many", 0, true},
	}
	for _, test := range tests {
		result, err := Integer(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Integer(%q): expected error, got %d", test.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("Integer(%q): unexpected error %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("Integer(%q) = %d, want %d", test.input, result, test.expected)
		}
	}
}
