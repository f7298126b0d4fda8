package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"domus/internal/notifications/feed"
	httputil "domus/pkg/http"
	"domus/pkg/logger"
	"domus/pkg/model"
)

// DecisionFunc forwards a seller's decision to whoever owns the booking.
// The handler never talks to the bookings service directly; the wiring
// injects a function value so the feed side stays a pure projection.
type DecisionFunc func(ctx context.Context, bookingID string, decision model.Decision) error

type NotificationHandler struct {
	registry *feed.Registry
	decide   DecisionFunc
	log      *logger.Logger
}

func NewNotificationHandler(registry *feed.Registry, decide DecisionFunc, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		registry: registry,
		decide:   decide,
		log:      log,
	}
}

func (h *NotificationHandler) GetFeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sellerID := strings.TrimSpace(r.URL.Query().Get("seller_id"))
	if sellerID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'seller_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetFeed", "error", writeErr)
		}
		return
	}

	f, err := h.registry.Get(r.Context(), sellerID)
	if err != nil {
		h.log.Error("Failed to load notification feed", "seller_id", sellerID, "error", err)
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetFeed", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, f.Snapshot()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetFeed", "error", err)
	}
}

func (h *NotificationHandler) Reload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sellerID := strings.TrimSpace(r.URL.Query().Get("seller_id"))
	if sellerID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'seller_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reload", "error", writeErr)
		}
		return
	}

	f, err := h.registry.Get(r.Context(), sellerID)
	if err == nil {
		err = f.Reload(r.Context())
	}
	if err != nil {
		h.log.Error("Failed to reload notification feed", "seller_id", sellerID, "error", err)
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reload", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type decisionRequest struct {
	Decision model.Decision `json:"decision"`
}

// Decide forwards the decision to the bookings service. The feed itself is
// patched by the booking-events consumer once the decision round-trips, so
// the projection only ever reflects what the owner accepted.
func (h *NotificationHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingId")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Decide", "error", writeErr)
		}
		return
	}

	if err := h.decide(r.Context(), bookingID, req.Decision); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Decide", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.GetFeed)
	router.POST("/api/v1/notifications/reload", h.Reload)
	router.POST("/api/v1/notifications/id/:bookingId/decision", h.Decide)
}
