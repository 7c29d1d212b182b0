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

type campaignHandlers struct {
	svc *app.CampaignService
}

func (h *campaignHandlers) create(w http.ResponseWriter, r *http.Request) {
	var c models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}
	if err := h.svc.Create(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *campaignHandlers) list(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *campaignHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *campaignHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCampaignID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	var c models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}
	if err := h.svc.Update(r.Context(), id, &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *campaignHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseCampaignID(chi.URLParam(r, "id"))
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
