package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"domus/internal/apartments/service"
	httputil "domus/pkg/http"
	"domus/pkg/logger"
	"domus/pkg/model"
)

type ApartmentHandler struct {
	service service.ApartmentService
	log     *logger.Logger
}

func NewApartmentHandler(service service.ApartmentService, log *logger.Logger) *ApartmentHandler {
	return &ApartmentHandler{
		service: service,
		log:     log,
	}
}

func (h *ApartmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var a model.Apartment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &a); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, a); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ApartmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, a); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ApartmentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	apartments, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, apartments, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ApartmentHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sellerID := strings.TrimSpace(r.URL.Query().Get("seller_id"))
	if sellerID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'seller_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Search", "error", writeErr)
		}
		return
	}

	apartments, err := h.service.GetBySeller(r.Context(), sellerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, apartments); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func (h *ApartmentHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ApartmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ApartmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type windowRequest struct {
	Days int `json:"days"`
}

func (h *ApartmentHandler) GenerateWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req windowRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "GenerateWindow", "error", writeErr)
			}
			return
		}
	}

	if err := h.service.GenerateWindow(r.Context(), id, req.Days); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GenerateWindow", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type templateRequest struct {
	Times []string `json:"times"`
}

func (h *ApartmentHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ApplyTemplate", "error", writeErr)
		}
		return
	}

	if err := h.service.ApplyTemplate(r.Context(), id, req.Times); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ApplyTemplate", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ApartmentHandler) AdvanceDay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.AdvanceDay(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdvanceDay", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ApartmentHandler) RemoveSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	query := r.URL.Query()
	dateKey := query.Get("date")
	timeKey := query.Get("time")

	if dateKey == "" || timeKey == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'date' and 'time' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "RemoveSlot", "error", writeErr)
		}
		return
	}

	if err := h.service.RemoveSlot(r.Context(), id, dateKey, timeKey); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveSlot", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type toggleRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Active bool   `json:"active"`
}

func (h *ApartmentHandler) ToggleSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "ToggleSlot", "error", writeErr)
		}
		return
	}

	if err := h.service.SetSlotActive(r.Context(), id, req.Date, req.Time, req.Active); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ToggleSlot", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ApartmentHandler) BookableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'date' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "BookableSlots", "error", writeErr)
		}
		return
	}

	slots, err := h.service.BookableSlots(r.Context(), id, dateKey)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "BookableSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "BookableSlots", "error", err)
	}
}

func (h *ApartmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/apartments", h.Create)
	router.GET("/api/v1/apartments", h.GetAll)
	router.GET("/api/v1/apartments/search", h.Search)
	router.GET("/api/v1/apartments/id/:id", h.GetByID)
	router.PATCH("/api/v1/apartments/id/:id", h.Update)
	router.DELETE("/api/v1/apartments/id/:id", h.Delete)

	router.POST("/api/v1/apartments/id/:id/slots/window", h.GenerateWindow)
	router.POST("/api/v1/apartments/id/:id/slots/template", h.ApplyTemplate)
	router.POST("/api/v1/apartments/id/:id/slots/advance", h.AdvanceDay)
	router.POST("/api/v1/apartments/id/:id/slots/toggle", h.ToggleSlot)
	router.DELETE("/api/v1/apartments/id/:id/slots", h.RemoveSlot)
	router.GET("/api/v1/apartments/id/:id/slots/bookable", h.BookableSlots)
}
