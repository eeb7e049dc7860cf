package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExceptionHandler interface {
	Rescan(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ExceptionHandlerImpl struct {
	exceptionService exception.ExceptionService
}

func NewExceptionHandler(exceptionService exception.ExceptionService) ExceptionHandler {
	return &ExceptionHandlerImpl{
		exceptionService: exceptionService,
	}
}

// Rescan implements ExceptionHandler.
func (h *ExceptionHandlerImpl) Rescan(w http.ResponseWriter, r *http.Request) {
	var req exception.RescanRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Rescan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rescanResp, err := h.exceptionService.Rescan(r.Context(), req)
	if err != nil {
		slog.Error("Rescan service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rescan complete", rescanResp)
}

// List implements ExceptionHandler.
func (h *ExceptionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter exception.ExceptionFilter

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if reviewStatus := r.URL.Query().Get("review_status"); reviewStatus != "" {
		filter.ReviewStatus = &reviewStatus
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		filter.Severity = &severity
	}
	if exceptionType := r.URL.Query().Get("exception_type"); exceptionType != "" {
		filter.Type = &exceptionType
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	listResp, err := h.exceptionService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List exceptions service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, listResp)
}

// Review implements ExceptionHandler.
func (h *ExceptionHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req exception.ReviewRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	reviewResp, err := h.exceptionService.Review(r.Context(), req)
	if err != nil {
		slog.Error("Review service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Exception reviewed", reviewResp)
}

// Delete implements ExceptionHandler.
func (h *ExceptionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.exceptionService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete exception service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Exception deleted", nil)
}
