package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/adapters/registry"
	"marketpulse/app"
	"marketpulse/domain/schema"
	"marketpulse/internal/testkit"
	"marketpulse/models"
)

type apiFixture struct {
	handler http.Handler
	runs    *testkit.InMemoryRunRepository
	source  *testkit.StaticTableSource
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	campaigns := testkit.NewInMemoryCampaignRepository()
	integrations := testkit.NewInMemoryIntegrationRepository()
	runs := testkit.NewInMemoryRunRepository()
	source := &testkit.StaticTableSource{Table: testkit.MultiPlatformExport()}

	reg, err := registry.Default()
	require.NoError(t, err)
	pipeline, err := app.NewPipelineService(reg, schema.DefaultConfig())
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Campaigns:    app.NewCampaignService(campaigns, nil),
		Integrations: app.NewIntegrationService(integrations, nil),
		Analysis: app.NewAnalysisService(
			campaigns, integrations, runs, source, pipeline, nil),
		Metrics: NewMetricsWith(prometheus.NewRegistry()),
	})
	return &apiFixture{handler: handler, runs: runs, source: source}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) createCampaign(t *testing.T, name, platform string) models.Campaign {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/campaigns",
		map[string]string{"name": name, "platform": platform, "status": "active"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c models.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	return c
}

func (f *apiFixture) createIntegration(t *testing.T, platform, status string) models.Integration {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/integrations",
		map[string]string{"platform": platform, "status": status})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var i models.Integration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &i))
	return i
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCampaignCRUD(t *testing.T) {
	f := newAPIFixture(t)

	created := f.createCampaign(t, "Spring Sale", "linkedin")
	assert.NotEmpty(t, created.ID.String())

	rec := f.do(t, http.MethodGet, "/api/campaigns/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/campaigns", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []models.Campaign
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = f.do(t, http.MethodPut, "/api/campaigns/"+created.ID.String(),
		map[string]string{"name": "Spring Sale v2", "platform": "linkedin"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodDelete, "/api/campaigns/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/campaigns/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCampaignCreateErrors(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/campaigns", map[string]string{"platform": "linkedin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing name must 400")

	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", strings.NewReader("{broken"))
	rec2 := httptest.NewRecorder()
	f.handler.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code, "malformed JSON must 400")
}

func TestAnalyzeEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t, "Spring Sale", "linkedin")
	integration := f.createIntegration(t, "linkedin", "connected")

	external := int64(993)
	rec := f.do(t, http.MethodPost, "/api/campaigns/"+campaign.ID.String()+"/analyze",
		map[string]any{"integration_id": integration.ID.String(), "external_conversions": external})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Run    *models.AnalysisRun `json:"run"`
		Result struct {
			Aggregation struct {
				TotalRevenue    string  `json:"total_revenue"`
				ConversionValue *string `json:"conversion_value"`
			} `json:"aggregation"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Run)
	assert.Equal(t, "24000.00", resp.Result.Aggregation.TotalRevenue)
	require.NotNil(t, resp.Result.Aggregation.ConversionValue)
	assert.Equal(t, "24.17", *resp.Result.Aggregation.ConversionValue)

	rec = f.do(t, http.MethodGet, "/api/campaigns/"+campaign.ID.String()+"/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.AnalysisRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestAnalyzeDisconnectedIntegration(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t, "Spring Sale", "linkedin")
	integration := f.createIntegration(t, "linkedin", "disconnected")

	rec := f.do(t, http.MethodPost, "/api/campaigns/"+campaign.ID.String()+"/analyze",
		map[string]any{"integration_id": integration.ID.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestAnalyzeSourceFailure(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t, "Spring Sale", "linkedin")
	integration := f.createIntegration(t, "linkedin", "connected")
	f.source.Err = fmt.Errorf("export bucket unreachable")

	rec := f.do(t, http.MethodPost, "/api/campaigns/"+campaign.ID.String()+"/analyze",
		map[string]any{"integration_id": integration.ID.String()})
	assert.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
}

func TestAnalyzeTableEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t, "Spring Sale", "linkedin")

	rec := f.do(t, http.MethodPost, "/api/campaigns/"+campaign.ID.String()+"/analyze/table",
		map[string]any{
			"headers": []string{"Campaign Name", "Revenue"},
			"rows":    [][]string{{"Spring Sale", "100.00"}},
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	history, err := f.runs.ListByCampaign(context.Background(), campaign.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history, "inline analysis must not persist a run")
}

func TestUnknownCampaignRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/campaigns/00000000-0000-7000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}
