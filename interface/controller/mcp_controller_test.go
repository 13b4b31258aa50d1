package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ca-srg/tzbridge/domain"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

func TestMCPController_ConvertTime(t *testing.T) {
	converter := &stubConverterService{
		convertResult: &usecase.ConvertResult{
			ConvertedTime: "04:30",
			Source: usecase.ZoneView{
				Time:     "14:30",
				Timezone: "America/New_York",
				Offset:   "-05:00",
			},
			Target: usecase.ZoneView{
				Time:     "04:30",
				Timezone: "Asia/Tokyo",
				Offset:   "+09:00",
			},
		},
	}
	metrics := &stubMetricsService{}
	ctrl := NewMCPController(converter, metrics, &testLogger{})

	handler := ctrl.convertTimeHandler()
	toolResult, result, err := handler(context.Background(), nil, ConvertTimeInput{
		Time:           "14:30",
		SourceTimezone: "America/New_York",
		TargetTimezone: "Asia/Tokyo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toolResult != nil {
		t.Fatal("expected nil tool result so the SDK serializes the typed output")
	}
	if result.ConvertedTime != "04:30" {
		t.Errorf("expected converted time 04:30, got %q", result.ConvertedTime)
	}
	if result.Source.Timezone != "America/New_York" {
		t.Errorf("expected source timezone America/New_York, got %q", result.Source.Timezone)
	}
	if result.Target.Offset != "+09:00" {
		t.Errorf("expected target offset +09:00, got %q", result.Target.Offset)
	}

	if converter.lastRequest == nil {
		t.Fatal("expected converter to be called")
	}
	if converter.lastRequest.SourceZone() != "America/New_York" {
		t.Errorf("expected source zone passthrough, got %q", converter.lastRequest.SourceZone())
	}
	if metrics.conversions != 1 {
		t.Errorf("expected 1 recorded conversion, got %d", metrics.conversions)
	}
}

func TestMCPController_ConvertTime_MissingInput(t *testing.T) {
	tests := []struct {
		name  string
		input ConvertTimeInput
	}{
		{
			name:  "missing time",
			input: ConvertTimeInput{SourceTimezone: "America/New_York", TargetTimezone: "Asia/Tokyo"},
		},
		{
			name:  "missing source timezone",
			input: ConvertTimeInput{Time: "14:30", TargetTimezone: "Asia/Tokyo"},
		},
		{
			name:  "missing target timezone",
			input: ConvertTimeInput{Time: "14:30", SourceTimezone: "America/New_York"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := &stubConverterService{}
			metrics := &stubMetricsService{}
			ctrl := NewMCPController(converter, metrics, &testLogger{})

			handler := ctrl.convertTimeHandler()
			_, _, err := handler(context.Background(), nil, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "[INVALID_REQUEST]") {
				t.Errorf("expected [INVALID_REQUEST] prefix, got %q", err.Error())
			}

			// Input rejections never reach the core or the counters
			if converter.convertCalls != 0 {
				t.Errorf("expected converter untouched, got %d calls", converter.convertCalls)
			}
			if len(metrics.failureCodes) != 0 {
				t.Errorf("expected no recorded failures, got %v", metrics.failureCodes)
			}
		})
	}
}

func TestMCPController_ConvertTime_CoreError(t *testing.T) {
	converter := &stubConverterService{
		convertErr: domain.ErrAmbiguousTime("01:30", "America/New_York", "01:30-04:00", "01:30-05:00"),
	}
	metrics := &stubMetricsService{}
	ctrl := NewMCPController(converter, metrics, &testLogger{})

	handler := ctrl.convertTimeHandler()
	_, _, err := handler(context.Background(), nil, ConvertTimeInput{
		Time:           "01:30",
		SourceTimezone: "America/New_York",
		TargetTimezone: "Asia/Tokyo",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "[AMBIGUOUS_TIME]") {
		t.Errorf("expected [AMBIGUOUS_TIME] prefix, got %q", err.Error())
	}
	if len(metrics.failureCodes) != 1 || metrics.failureCodes[0] != "AMBIGUOUS_TIME" {
		t.Errorf("expected AMBIGUOUS_TIME failure recorded, got %v", metrics.failureCodes)
	}
}

func TestMCPController_ConvertTime_NonDomainError(t *testing.T) {
	converter := &stubConverterService{convertErr: errors.New("boom")}
	metrics := &stubMetricsService{}
	ctrl := NewMCPController(converter, metrics, &testLogger{})

	handler := ctrl.convertTimeHandler()
	_, _, err := handler(context.Background(), nil, ConvertTimeInput{
		Time:           "14:30",
		SourceTimezone: "America/New_York",
		TargetTimezone: "Asia/Tokyo",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "[SYSTEM_ERROR] boom" {
		t.Errorf("expected [SYSTEM_ERROR] boom, got %q", err.Error())
	}
	if len(metrics.failureCodes) != 1 || metrics.failureCodes[0] != "SYSTEM_ERROR" {
		t.Errorf("expected SYSTEM_ERROR failure recorded, got %v", metrics.failureCodes)
	}
}

func TestMCPController_GetCurrentTime(t *testing.T) {
	converter := &stubConverterService{
		currentResult: &usecase.CurrentTimeResult{
			Timezone:        "Europe/Berlin",
			DateTime:        "2024-07-15T16:30:00+02:00",
			Time:            "16:30",
			Date:            "2024-07-15",
			Offset:          "+02:00",
			IsDST:           true,
			DetectionMethod: "request",
		},
	}
	ctrl := NewMCPController(converter, &stubMetricsService{}, &testLogger{})

	handler := ctrl.getCurrentTimeHandler()
	_, result, err := handler(context.Background(), nil, GetCurrentTimeInput{Timezone: "Europe/Berlin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if converter.lastTimezone != "Europe/Berlin" {
		t.Errorf("expected timezone passthrough, got %q", converter.lastTimezone)
	}
	if result.Time != "16:30" {
		t.Errorf("expected time 16:30, got %q", result.Time)
	}
	if !result.IsDST {
		t.Error("expected DST to be active")
	}
	if result.DetectionMethod != "request" {
		t.Errorf("expected detection method request, got %q", result.DetectionMethod)
	}
}

func TestMCPController_GetCurrentTime_EmptyTimezone(t *testing.T) {
	converter := &stubConverterService{
		currentResult: &usecase.CurrentTimeResult{
			Timezone:        "UTC",
			DetectionMethod: "fallback",
		},
	}
	ctrl := NewMCPController(converter, &stubMetricsService{}, &testLogger{})

	handler := ctrl.getCurrentTimeHandler()
	_, result, err := handler(context.Background(), nil, GetCurrentTimeInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if converter.lastTimezone != "" {
		t.Errorf("expected empty timezone passed through, got %q", converter.lastTimezone)
	}
	if result.Timezone != "UTC" {
		t.Errorf("expected UTC, got %q", result.Timezone)
	}
}

func TestMCPController_GetCurrentTime_InvalidTimezone(t *testing.T) {
	converter := &stubConverterService{
		currentErr: domain.ErrInvalidTimezone("Nope/Nowhere", "request"),
	}
	metrics := &stubMetricsService{}
	ctrl := NewMCPController(converter, metrics, &testLogger{})

	handler := ctrl.getCurrentTimeHandler()
	_, _, err := handler(context.Background(), nil, GetCurrentTimeInput{Timezone: "Nope/Nowhere"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "[INVALID_TIMEZONE]") {
		t.Errorf("expected [INVALID_TIMEZONE] prefix, got %q", err.Error())
	}
	if len(metrics.failureCodes) != 1 || metrics.failureCodes[0] != "INVALID_TIMEZONE" {
		t.Errorf("expected INVALID_TIMEZONE failure recorded, got %v", metrics.failureCodes)
	}
}
