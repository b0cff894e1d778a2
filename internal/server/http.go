package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/export"
)

// JobService is what the transports need from the job manager.
type JobService interface {
	Submit(ctx context.Context, input entity.JobInput) (string, error)
	Status(ctx context.Context, id string) (entity.JobStatusView, error)
	Recent(ctx context.Context, limit int) ([]entity.JobStatusView, error)
}

// Exporter renders a completed job; *export.Service satisfies it.
type Exporter interface {
	ExportJobXLSX(ctx context.Context, jobID string) ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type HTTPHandler struct {
	jobs   JobService
	export Exporter
	logger *slog.Logger
}

type startJobRequest struct {
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
	Budget   string `json:"budget"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPServer wires middleware and routes onto a fresh echo instance.
func NewHTTPServer(jobs JobService, exp Exporter, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HTTPHandler{jobs: jobs, export: exp, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("http.request",
				"req_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"elapsed_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))

	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/start-job", h.StartJob)
	api.GET("/job-status", h.JobStatus)
	api.GET("/jobs", h.ListJobs)
	api.GET("/jobs/:id/export", h.ExportJob)

	api.POST("/analyze", gone("This endpoint is deprecated. Use POST /api/start-job and GET /api/job-status instead."))
	api.POST("/analyze/start", gone("Deprecated. Use POST /api/start-job"))
	api.GET("/analyze/status", gone("Deprecated. Use GET /api/job-status"))

	return e
}

// requestContext copies the echo request id into the request context.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(common.WithRequestID(req.Context(), rid)))
		}
		return next(c)
	}
}

func (h *HTTPHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StartJob accepts {keyword, location?, budget?} and answers 202 {jobId}.
func (h *HTTPHandler) StartJob(c echo.Context) error {
	var req startJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
	}
	if strings.TrimSpace(req.Keyword) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing keyword parameter"})
	}

	id, err := h.jobs.Submit(c.Request().Context(), entity.JobInput{
		Keyword:  req.Keyword,
		Location: req.Location,
		Budget:   req.Budget,
	})
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) && errors.Is(err, common.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: appErr.Message})
		}
		h.logger.Error("http.start_job.failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to start job"})
	}
	return c.JSON(http.StatusAccepted, map[string]string{"jobId": id})
}

func (h *HTTPHandler) JobStatus(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("jobId"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing jobId parameter"})
	}
	view, err := h.jobs.Status(c.Request().Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Job not found"})
	}
	if err != nil {
		h.logger.Error("http.job_status.failed", "job_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to get job status"})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *HTTPHandler) ListJobs(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = min(parsed, 200)
		}
	}
	list, err := h.jobs.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("http.list_jobs.failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to list jobs"})
	}
	return c.JSON(http.StatusOK, map[string]any{"jobs": list})
}

func (h *HTTPHandler) ExportJob(c echo.Context) error {
	id := c.Param("id")
	b, err := h.export.ExportJobXLSX(c.Request().Context(), id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "Job not found"})
	case errors.Is(err, export.ErrNotCompleted):
		return c.JSON(http.StatusConflict, errorResponse{Error: "Job is not completed"})
	case err != nil:
		h.logger.Error("http.export.failed", "job_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to export job"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+id+`.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, b)
}

func gone(msg string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusGone, errorResponse{Error: msg})
	}
}
