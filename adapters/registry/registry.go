// Package registry loads the canonical-field registry: the versioned
// alias/pattern configuration the matcher runs against. A default registry
// ships embedded; deployments can point FIELD_REGISTRY_FILE at their own.
package registry

import (
	"embed"
	"encoding/json"
	"os"

	"marketpulse/domain/fields"
	"marketpulse/internal/errors"
)

//go:embed fields.json
var embedded embed.FS

// Default returns the embedded field registry, compiled and ready for the
// matcher.
func Default() (fields.Registry, error) {
	data, err := embedded.ReadFile("fields.json")
	if err != nil {
		return fields.Registry{}, errors.Wrap(err, "embedded field registry unreadable")
	}
	return parse(data)
}

// FromFile loads a registry override from disk
func FromFile(path string) (fields.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fields.Registry{}, errors.Wrapf(err, "failed to read field registry %s", path)
	}
	return parse(data)
}

// Load returns the registry from the override path when set, otherwise the
// embedded default.
func Load(path string) (fields.Registry, error) {
	if path != "" {
		return FromFile(path)
	}
	return Default()
}

func parse(data []byte) (fields.Registry, error) {
	var raw fields.Registry
	if err := json.Unmarshal(data, &raw); err != nil {
		return fields.Registry{}, errors.Wrap(err, "field registry is not valid JSON")
	}
	compiled, err := raw.Compile()
	if err != nil {
		return fields.Registry{}, errors.Wrap(err, "field registry failed to compile")
	}
	return compiled, nil
}
