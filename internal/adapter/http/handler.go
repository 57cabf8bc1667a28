package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"currency-calculator/internal/domain/model"
	"currency-calculator/internal/domain/ports"
	"currency-calculator/internal/service"
	"currency-calculator/pkg/logger"
)

const maxRequestBody = 1 << 16

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type currencyRequest struct {
	Currency *string `json:"currency"`
}

type amountRequest struct {
	Amount *string `json:"amount"`
}

type Handler struct {
	service ports.CalculatorService
	log     *logger.Logger
}

func NewHandler(service ports.CalculatorService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) MountHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Mount(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendResponse(w, http.StatusCreated, view)
}

func (h *Handler) ViewHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendSuccessResponse(w, view)
}

func (h *Handler) UnmountHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unmount(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetBaseCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := decodeBody(r, &req); err != nil || req.Currency == nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required field: currency")
		return
	}

	view, err := h.service.SetBaseCurrency(r.Context(), r.PathValue("id"), model.Currency(*req.Currency))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendSuccessResponse(w, view)
}

// SetBaseAmountHandler accepts any text, including the empty string. The
// amount is stored as typed and parsed on read.
func (h *Handler) SetBaseAmountHandler(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil || req.Amount == nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required field: amount")
		return
	}

	view, err := h.service.SetBaseAmount(r.Context(), r.PathValue("id"), *req.Amount)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendSuccessResponse(w, view)
}

func (h *Handler) SelectForAddHandler(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := decodeBody(r, &req); err != nil || req.Currency == nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required field: currency")
		return
	}

	view, err := h.service.SelectForAdd(r.Context(), r.PathValue("id"), model.Currency(*req.Currency))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendSuccessResponse(w, view)
}

func (h *Handler) RemoveTrackedHandler(w http.ResponseWriter, r *http.Request) {
	code := model.Currency(r.PathValue("code"))

	view, err := h.service.RemoveTracked(r.Context(), r.PathValue("id"), code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.sendSuccessResponse(w, view)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	h.sendResponse(w, http.StatusOK, data)
}

func (h *Handler) sendResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		statusCode = http.StatusNotFound
		errorMessage = "session not found"
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode)
	h.sendErrorResponse(w, statusCode, errorMessage)
}
