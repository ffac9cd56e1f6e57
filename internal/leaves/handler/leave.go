package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/zermoser/mos-e-form/internal/leaves/service"
	httputil "github.com/zermoser/mos-e-form/pkg/http"
	"github.com/zermoser/mos-e-form/pkg/logger"
	"github.com/zermoser/mos-e-form/pkg/model"
)

type LeaveHandler struct {
	service service.LeaveService
	log     *logger.Logger
}

func NewLeaveHandler(service service.LeaveService, log *logger.Logger) *LeaveHandler {
	return &LeaveHandler{
		service: service,
		log:     log,
	}
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request model.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &request); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, request); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *LeaveHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	request, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	filter := model.LeaveFilter{
		Status:   query.Get("status"),
		Date:     query.Get("date"),
		FromDate: query.Get("from"),
		ToDate:   query.Get("to"),
	}

	requests, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, requests, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *LeaveHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.LeaveStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	request, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, request); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *LeaveHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/leaves", h.Create)
	router.GET("/api/v1/leaves", h.List)
	router.GET("/api/v1/leaves/id/:id", h.GetByID)
	router.PATCH("/api/v1/leaves/id/:id/status", h.UpdateStatus)
}
