package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/entity"
	"github.com/ca-srg/tzbridge/infrastructure/config"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// errCodeInvalidRequest marks transport-level rejections (malformed JSON,
// missing fields) that never reach the conversion core.
const errCodeInvalidRequest = "INVALID_REQUEST"

// HTTPController serves the JSON conversion API
type HTTPController struct {
	config           *config.ServerConfig
	converterService usecase.ConverterService
	metricsService   usecase.MetricsService
	statusService    usecase.StatusService
	logger           domain.Logger

	server *http.Server
}

// NewHTTPController creates a new HTTP controller
func NewHTTPController(
	cfg *config.ServerConfig,
	converterService usecase.ConverterService,
	metricsService usecase.MetricsService,
	statusService usecase.StatusService,
	logger domain.Logger,
) *HTTPController {
	return &HTTPController{
		config:           cfg,
		converterService: converterService,
		metricsService:   metricsService,
		statusService:    statusService,
		logger:           logger,
	}
}

// convertRequest is the POST /api/convert body
type convertRequest struct {
	Time       string `json:"time"`
	SourceZone string `json:"sourceZone"`
	TargetZone string `json:"targetZone"`
}

// zonePayload serializes one side of a conversion
type zonePayload struct {
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
	Offset   string `json:"offset"`
	IsDST    bool   `json:"isDST"`
}

// convertResponse is the POST /api/convert success body
type convertResponse struct {
	ConvertedTime string      `json:"convertedTime"`
	Source        zonePayload `json:"source"`
	Target        zonePayload `json:"target"`
}

// currentTimeResponse is the GET /api/current-time success body
type currentTimeResponse struct {
	Timezone        string `json:"timezone"`
	DateTime        string `json:"dateTime"`
	Time            string `json:"time"`
	Date            string `json:"date"`
	Offset          string `json:"offset"`
	IsDST           bool   `json:"isDST"`
	DetectionMethod string `json:"detectionMethod"`
}

// healthResponse is the GET /health body
type healthResponse struct {
	Status            string  `json:"status"`
	Uptime            int64   `json:"uptime"`
	Conversions       int64   `json:"conversions"`
	Failures          int64   `json:"failures"`
	LastMetricsSentAt *string `json:"lastMetricsSentAt"`
}

// errorPayload is the error object inside an error response
type errorPayload struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// errorResponse is the body returned for every failed request
type errorResponse struct {
	Error errorPayload `json:"error"`
}

// Handler returns the full handler tree including middleware. Exposed so tests
// can drive the API through httptest without binding a port.
func (c *HTTPController) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", c.handleConvert)
	mux.HandleFunc("/api/current-time", c.handleCurrentTime)
	mux.HandleFunc("/health", c.handleHealth)
	return c.withCORS(mux)
}

// Start binds the listener and begins serving in the background. Bind failures
// are returned synchronously; later serve errors are logged and recorded on
// the status service.
func (c *HTTPController) Start() error {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return domain.ErrNetwork("http listen", err)
	}

	c.server = &http.Server{
		Handler:      c.Handler(),
		ReadTimeout:  time.Duration(c.config.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(c.config.WriteTimeoutSec) * time.Second,
	}

	go func() {
		if err := c.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error(context.Background(), "HTTP server stopped unexpectedly",
				domain.NewField("error", err.Error()))
			_ = c.statusService.RecordError(err)
		}
	}()

	c.logger.Info(context.Background(), "HTTP server listening",
		domain.NewField("address", listener.Addr().String()))
	return nil
}

// Stop drains in-flight requests and shuts the server down. Requests still
// running after the configured grace period are abandoned.
func (c *HTTPController) Stop() error {
	if c.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(c.config.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := c.server.Shutdown(shutdownCtx); err != nil {
		return domain.ErrNetwork("http shutdown", err)
	}
	return nil
}

// handleConvert converts a civil time between two named timezones
func (c *HTTPController) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body convertRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		c.writeInvalidRequest(w, "request body is not valid JSON")
		return
	}
	if body.Time == "" || body.SourceZone == "" || body.TargetZone == "" {
		c.writeInvalidRequest(w, "time, sourceZone and targetZone are required")
		return
	}

	request, err := entity.NewConversionRequest(body.Time, body.SourceZone, body.TargetZone)
	if err != nil {
		c.writeInvalidRequest(w, err.Error())
		return
	}

	result, err := c.converterService.Convert(request)
	if err != nil {
		c.metricsService.RecordFailure(failureCode(err))
		c.writeCoreError(w, err)
		return
	}

	c.metricsService.RecordConversion()
	c.writeJSON(w, http.StatusOK, convertResponse{
		ConvertedTime: result.ConvertedTime,
		Source:        zonePayloadFrom(result.Source),
		Target:        zonePayloadFrom(result.Target),
	})
}

// handleCurrentTime reports the current civil time in a timezone
func (c *HTTPController) handleCurrentTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := c.converterService.CurrentTime(r.URL.Query().Get("timezone"))
	if err != nil {
		c.metricsService.RecordFailure(failureCode(err))
		c.writeCoreError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, currentTimeResponse{
		Timezone:        result.Timezone,
		DateTime:        result.DateTime,
		Time:            result.Time,
		Date:            result.Date,
		Offset:          result.Offset,
		IsDST:           result.IsDST,
		DetectionMethod: result.DetectionMethod,
	})
}

// handleHealth reports liveness plus the conversion counters
func (c *HTTPController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := c.statusService.GetStatus()
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, errorPayload{
			Code:    string(domain.ErrCodeSystemError),
			Message: "failed to read application status",
		})
		return
	}

	counts := c.metricsService.Snapshot()
	payload := healthResponse{
		Status:      "ok",
		Conversions: counts.Succeeded(),
		Failures:    counts.TotalFailures(),
	}
	if status.LastError != nil {
		payload.Status = "degraded"
	}
	if status.StartedAt != nil {
		payload.Uptime = int64(time.Since(*status.StartedAt).Seconds())
	}
	if status.LastMetricsSentAt != nil {
		sentAt := status.LastMetricsSentAt.Format(time.RFC3339)
		payload.LastMetricsSentAt = &sentAt
	}

	c.writeJSON(w, http.StatusOK, payload)
}

// withCORS applies the CORS policy and answers preflight requests
func (c *HTTPController) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := c.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOrigin resolves the Access-Control-Allow-Origin value for a request
// origin. A configured "*" admits every origin; otherwise the request origin
// must match a configured entry exactly.
func (c *HTTPController) allowedOrigin(origin string) string {
	origins := c.config.CORSOrigins
	if len(origins) == 0 {
		return "*"
	}
	for _, allowed := range origins {
		if allowed == "*" {
			return "*"
		}
		if origin != "" && allowed == origin {
			return origin
		}
	}
	return ""
}

// writeCoreError maps a conversion core failure onto an HTTP status. System
// errors and non-domain faults are server-side; every other code is a problem
// with the request.
func (c *HTTPController) writeCoreError(w http.ResponseWriter, err error) {
	code := failureCode(err)

	status := http.StatusBadRequest
	if code == string(domain.ErrCodeSystemError) {
		status = http.StatusInternalServerError
	}

	payload := errorPayload{Code: code, Message: err.Error()}
	if domainErr, ok := err.(*domain.DomainError); ok {
		payload.Message = domainErr.Message
		if len(domainErr.Details) > 0 {
			payload.Details = domainErr.Details
		}
	}

	c.writeError(w, status, payload)
}

func (c *HTTPController) writeInvalidRequest(w http.ResponseWriter, message string) {
	c.writeError(w, http.StatusBadRequest, errorPayload{
		Code:    errCodeInvalidRequest,
		Message: message,
	})
}

func (c *HTTPController) writeError(w http.ResponseWriter, status int, payload errorPayload) {
	c.writeJSON(w, status, errorResponse{Error: payload})
}

func (c *HTTPController) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.logger.Error(context.Background(), "failed to encode response",
			domain.NewField("error", err.Error()))
	}
}

// failureCode extracts the domain error code for metrics labels and error
// bodies. Non-domain faults count as system errors.
func failureCode(err error) string {
	code := string(domain.GetErrorCode(err))
	if code == "" {
		code = string(domain.ErrCodeSystemError)
	}
	return code
}

// zonePayloadFrom converts a use case zone view into its wire form
func zonePayloadFrom(v usecase.ZoneView) zonePayload {
	return zonePayload{
		Time:     v.Time,
		Timezone: v.Timezone,
		Offset:   v.Offset,
		IsDST:    v.IsDST,
	}
}
