package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/entity"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

const (
	mcpServerName    = "tzbridge"
	mcpServerVersion = "1.0.0"
)

// MCPController exposes the conversion core as Model Context Protocol tools
// over stdio
type MCPController struct {
	converterService usecase.ConverterService
	metricsService   usecase.MetricsService
	logger           domain.Logger
}

// NewMCPController creates a new MCP controller
func NewMCPController(
	converterService usecase.ConverterService,
	metricsService usecase.MetricsService,
	logger domain.Logger,
) *MCPController {
	return &MCPController{
		converterService: converterService,
		metricsService:   metricsService,
		logger:           logger,
	}
}

// ConvertTimeInput is the convert_time tool input
type ConvertTimeInput struct {
	Time           string `json:"time" jsonschema:"civil time to convert in HH:MM 24-hour notation"`
	SourceTimezone string `json:"source_timezone" jsonschema:"IANA timezone the time is given in"`
	TargetTimezone string `json:"target_timezone" jsonschema:"IANA timezone to convert into"`
}

// TimezoneView describes one side of a conversion in a tool result
type TimezoneView struct {
	Time     string `json:"time" jsonschema:"civil time in HH:MM 24-hour notation"`
	Timezone string `json:"timezone" jsonschema:"IANA timezone identifier"`
	Offset   string `json:"offset" jsonschema:"UTC offset such as +09:00"`
	IsDST    bool   `json:"is_dst" jsonschema:"whether daylight saving time is active"`
}

// ConvertTimeResult is the convert_time tool output
type ConvertTimeResult struct {
	ConvertedTime string       `json:"converted_time" jsonschema:"civil time in the target timezone"`
	Source        TimezoneView `json:"source" jsonschema:"request time as resolved in the source timezone"`
	Target        TimezoneView `json:"target" jsonschema:"same instant as observed in the target timezone"`
}

// GetCurrentTimeInput is the get_current_time tool input
type GetCurrentTimeInput struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"IANA timezone to report, system timezone when omitted"`
}

// GetCurrentTimeResult is the get_current_time tool output
type GetCurrentTimeResult struct {
	Timezone        string `json:"timezone" jsonschema:"IANA timezone the time is reported in"`
	DateTime        string `json:"date_time" jsonschema:"full instant in RFC 3339 format"`
	Time            string `json:"time" jsonschema:"civil time in HH:MM 24-hour notation"`
	Date            string `json:"date" jsonschema:"civil date in YYYY-MM-DD format"`
	Offset          string `json:"offset" jsonschema:"UTC offset such as +09:00"`
	IsDST           bool   `json:"is_dst" jsonschema:"whether daylight saving time is active"`
	DetectionMethod string `json:"detection_method" jsonschema:"how the timezone was determined"`
}

// Run serves the MCP tools over stdio and blocks until the context is
// cancelled. Signal-driven cancellation counts as a clean shutdown.
func (c *MCPController) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{Name: mcpServerName, Version: mcpServerVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_time",
		Description: "Converts a civil time between two IANA timezones",
	}, c.convertTimeHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_current_time",
		Description: "Reports the current civil time in an IANA timezone",
	}, c.getCurrentTimeHandler())

	c.logger.Info(ctx, "MCP server listening on stdio")

	err := server.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// convertTimeHandler executes a conversion for the convert_time tool
func (c *MCPController) convertTimeHandler() mcp.ToolHandlerFor[ConvertTimeInput, ConvertTimeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConvertTimeInput) (*mcp.CallToolResult, ConvertTimeResult, error) {
		request, err := entity.NewConversionRequest(input.Time, input.SourceTimezone, input.TargetTimezone)
		if err != nil {
			return nil, ConvertTimeResult{}, fmt.Errorf("[%s] %v", errCodeInvalidRequest, err)
		}

		result, err := c.converterService.Convert(request)
		if err != nil {
			c.metricsService.RecordFailure(failureCode(err))
			return nil, ConvertTimeResult{}, toolError(err)
		}

		c.metricsService.RecordConversion()
		return nil, ConvertTimeResult{
			ConvertedTime: result.ConvertedTime,
			Source:        timezoneViewFrom(result.Source),
			Target:        timezoneViewFrom(result.Target),
		}, nil
	}
}

// getCurrentTimeHandler reports the current time for the get_current_time tool
func (c *MCPController) getCurrentTimeHandler() mcp.ToolHandlerFor[GetCurrentTimeInput, GetCurrentTimeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCurrentTimeInput) (*mcp.CallToolResult, GetCurrentTimeResult, error) {
		result, err := c.converterService.CurrentTime(input.Timezone)
		if err != nil {
			c.metricsService.RecordFailure(failureCode(err))
			return nil, GetCurrentTimeResult{}, toolError(err)
		}

		return nil, GetCurrentTimeResult{
			Timezone:        result.Timezone,
			DateTime:        result.DateTime,
			Time:            result.Time,
			Date:            result.Date,
			Offset:          result.Offset,
			IsDST:           result.IsDST,
			DetectionMethod: result.DetectionMethod,
		}, nil
	}
}

// toolError formats a core failure as a tool-call error carrying the error
// code. DomainError already renders as "[CODE] message"; anything else counts
// as a system error.
func toolError(err error) error {
	if _, ok := err.(*domain.DomainError); ok {
		return err
	}
	return fmt.Errorf("[%s] %v", domain.ErrCodeSystemError, err)
}

// timezoneViewFrom converts a use case zone view into its tool result form
func timezoneViewFrom(v usecase.ZoneView) TimezoneView {
	return TimezoneView{
		Time:     v.Time,
		Timezone: v.Timezone,
		Offset:   v.Offset,
		IsDST:    v.IsDST,
	}
}
