package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	GetMySummary(w http.ResponseWriter, r *http.Request)
	ListSummaries(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	processService attendance.ProcessService
}

func NewAttendanceHandler(processService attendance.ProcessService) AttendanceHandler {
	return &AttendanceHandlerImpl{
		processService: processService,
	}
}

// Preview implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req attendance.ProcessPreviewRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Preview decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	previewResp, err := h.processService.Preview(r.Context(), req)
	if err != nil {
		slog.Error("Preview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, previewResp)
}

// Commit implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Commit(w http.ResponseWriter, r *http.Request) {
	var req attendance.CommitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Commit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	commitResp, err := h.processService.Commit(r.Context(), req)
	if err != nil {
		slog.Error("Commit service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if len(commitResp.Failures) > 0 {
		response.SuccessWithMessage(w, "Batch committed with failures", commitResp)
		return
	}
	response.Created(w, "Batch committed", commitResp)
}

// GetMySummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	summary, err := h.processService.GetMySummary(r.Context(), date)
	if err != nil {
		slog.Error("GetMySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ListSummaries implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	var filter attendance.SummaryFilter

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
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

	listResp, err := h.processService.ListSummaries(r.Context(), filter)
	if err != nil {
		slog.Error("ListSummaries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, listResp)
}
