package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"marketpulse/app"
	"marketpulse/domain/core"
	"marketpulse/domain/table"
	apperrors "marketpulse/internal/errors"
	"marketpulse/models"
)

type analysisHandlers struct {
	svc     *app.AnalysisService
	metrics *Metrics
}

type analyzeRequest struct {
	IntegrationID       string `json:"integration_id"`
	ExternalConversions *int64 `json:"external_conversions,omitempty"`
}

type analyzeResponse struct {
	Run    *models.AnalysisRun `json:"run,omitempty"`
	Result app.AnalysisResult  `json:"result"`
}

// analyze pulls the integration's table and runs the pipeline for one
// campaign. Diagnostics ride back in the result; only infrastructure
// failures become HTTP errors.
func (h *analysisHandlers) analyze(w http.ResponseWriter, r *http.Request) {
	campaignID, err := core.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}
	integrationID, err := core.ParseIntegrationID(req.IntegrationID)
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	result, run, err := h.svc.AnalyzeStored(r.Context(), campaignID, integrationID, req.ExternalConversions)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.ObserveRun(len(result.Report.Errors) > 0, result.Filter.MatchedRows)
	writeJSON(w, http.StatusOK, analyzeResponse{Run: run, Result: result})
}

type analyzeTableRequest struct {
	Headers             []string   `json:"headers"`
	Rows                [][]string `json:"rows"`
	ExternalConversions *int64     `json:"external_conversions,omitempty"`
}

// analyzeTable runs the pipeline over an inline table for a campaign,
// without any integration and without persisting a run. Mapping review
// flows use this before connecting a source.
func (h *analysisHandlers) analyzeTable(w http.ResponseWriter, r *http.Request) {
	campaignID, err := core.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	var req analyzeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	raw := table.NewRawTableFromStrings(req.Headers, req.Rows)
	result, err := h.svc.AnalyzeTable(r.Context(), campaignID, raw, req.ExternalConversions)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.ObserveRun(len(result.Report.Errors) > 0, result.Filter.MatchedRows)
	writeJSON(w, http.StatusOK, analyzeResponse{Result: result})
}

func (h *analysisHandlers) history(w http.ResponseWriter, r *http.Request) {
	campaignID, err := core.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		limit, _ = strconv.Atoi(q)
	}
	runs, err := h.svc.History(r.Context(), campaignID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
