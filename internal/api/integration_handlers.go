package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketpulse/app"
	"marketpulse/domain/core"
	apperrors "marketpulse/internal/errors"
	"marketpulse/models"
)

type integrationHandlers struct {
	svc *app.IntegrationService
}

func (h *integrationHandlers) create(w http.ResponseWriter, r *http.Request) {
	var i models.Integration
	if err := json.NewDecoder(r.Body).Decode(&i); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}
	if err := h.svc.Create(r.Context(), &i); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

func (h *integrationHandlers) list(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, integrations)
}

func (h *integrationHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseIntegrationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	i, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *integrationHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseIntegrationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	var i models.Integration
	if err := json.NewDecoder(r.Body).Decode(&i); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}
	if err := h.svc.Update(r.Context(), id, &i); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *integrationHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseIntegrationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
