package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type AdsStore interface {
	FilteredAds() []entity.Ad
	Ads() []entity.Ad
	Get(id string) (entity.Ad, bool)
	Filters() entity.Filter
	IsOffline() bool
	Len() int
	GenerateAds(ctx context.Context, count int) []entity.Ad
	LoadAds(ctx context.Context)
	UpdateStatus(ctx context.Context, id string, status entity.AdStatus) (bool, error)
	AddComment(ctx context.Context, id, text, author string) (entity.Comment, bool)
	SetFilters(ctx context.Context, patch entity.FilterPatch) (entity.Filter, error)
}

// OfflineReporter is the connectivity observer's display flag.
type OfflineReporter interface {
	IsOffline() bool
}

type AdsHandler struct {
	store    AdsStore
	observer OfflineReporter
	logger   logger.Logger
}

func NewAdsHandler(store AdsStore, observer OfflineReporter, log logger.Logger) *AdsHandler {
	return &AdsHandler{store: store, observer: observer, logger: log}
}

type errorResponse struct {
	Error string `json:"error"`
}

type generateRequest struct {
	Count int `json:"count"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type commentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

type statusResponse struct {
	Offline      bool `json:"offline"`
	StoreOffline bool `json:"storeOffline"`
	Ads          int  `json:"ads"`
}

func (h *AdsHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (h *AdsHandler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func (h *AdsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdsHandler) HandleListFiltered(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.FilteredAds())
}

func (h *AdsHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Ads())
}

func (h *AdsHandler) HandleGetAd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ad, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "ad not found")
		return
	}
	h.writeJSON(w, http.StatusOK, ad)
}

func (h *AdsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count < 0 {
		h.writeError(w, http.StatusBadRequest, "count must not be negative")
		return
	}

	ads := h.store.GenerateAds(r.Context(), req.Count)
	h.writeJSON(w, http.StatusCreated, ads)
}

func (h *AdsHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	h.store.LoadAds(r.Context())
	h.writeJSON(w, http.StatusOK, statusResponse{
		Offline:      h.observer.IsOffline(),
		StoreOffline: h.store.IsOffline(),
		Ads:          h.store.Len(),
	})
}

func (h *AdsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := h.store.UpdateStatus(r.Context(), id, entity.AdStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("UpdateStatus failed for ad %s: %v", id, err)
		h.writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "ad not found")
		return
	}

	ad, _ := h.store.Get(id)
	h.writeJSON(w, http.StatusOK, ad)
}

func (h *AdsHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		h.writeError(w, http.StatusBadRequest, "comment text is required")
		return
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = middleware.Identity(r.Context())
	}

	c, ok := h.store.AddComment(r.Context(), id, text, author)
	if !ok {
		h.writeError(w, http.StatusNotFound, "ad not found")
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *AdsHandler) HandleGetFilters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Filters())
}

func (h *AdsHandler) HandlePatchFilters(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch, err := parseFilterPatch(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.store.SetFilters(r.Context(), patch)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidFilter) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("SetFilters failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update filters")
		return
	}
	h.writeJSON(w, http.StatusOK, f)
}

func (h *AdsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, statusResponse{
		Offline:      h.observer.IsOffline(),
		StoreOffline: h.store.IsOffline(),
		Ads:          h.store.Len(),
	})
}
