package cli

import (
	"errors"
	"testing"

	"github.com/ca-srg/tzbridge/domain/entity"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

type mockConverterService struct {
	convertResult *usecase.ConvertResult
	convertErr    error
	currentResult *usecase.CurrentTimeResult
	currentErr    error
	lastRequest   *entity.ConversionRequest
	lastTimezone  string
}

func (m *mockConverterService) Convert(request *entity.ConversionRequest) (*usecase.ConvertResult, error) {
	m.lastRequest = request
	return m.convertResult, m.convertErr
}

func (m *mockConverterService) CurrentTime(timezone string) (*usecase.CurrentTimeResult, error) {
	m.lastTimezone = timezone
	return m.currentResult, m.currentErr
}

type recordingConsolePresenter struct {
	conversions    int
	verbose        int
	currentTimes   int
	currentVerbose int
	errorCount     int
}

func (r *recordingConsolePresenter) PrintVersion()       {}
func (r *recordingConsolePresenter) PrintError(err error) { r.errorCount++ }
func (r *recordingConsolePresenter) PrintConversion(result *usecase.ConvertResult) error {
	r.conversions++
	return nil
}
func (r *recordingConsolePresenter) PrintConversionVerbose(result *usecase.ConvertResult) error {
	r.verbose++
	return nil
}
func (r *recordingConsolePresenter) PrintCurrentTime(result *usecase.CurrentTimeResult) error {
	r.currentTimes++
	return nil
}
func (r *recordingConsolePresenter) PrintCurrentTimeVerbose(result *usecase.CurrentTimeResult) error {
	r.currentVerbose++
	return nil
}

type recordingJSONPresenter struct {
	conversions  int
	currentTimes int
	errorCount   int
}

func (r *recordingJSONPresenter) PrintConversion(result *usecase.ConvertResult) error {
	r.conversions++
	return nil
}
func (r *recordingJSONPresenter) PrintCurrentTime(result *usecase.CurrentTimeResult) error {
	r.currentTimes++
	return nil
}
func (r *recordingJSONPresenter) PrintError(err error) error {
	r.errorCount++
	return nil
}

func TestCLIController_RunConvert(t *testing.T) {
	service := &mockConverterService{
		convertResult: &usecase.ConvertResult{ConvertedTime: "01:30"},
	}
	console := &recordingConsolePresenter{}
	jsonOut := &recordingJSONPresenter{}
	controller := NewCLIController(service, console, jsonOut)

	if err := controller.RunConvert("14:30", "Asia/Tokyo", "America/New_York"); err != nil {
		t.Fatalf("RunConvert() error: %v", err)
	}

	if service.lastRequest == nil {
		t.Fatal("converter service was not called")
	}
	if service.lastRequest.Time() != "14:30" {
		t.Errorf("request time = %q, want 14:30", service.lastRequest.Time())
	}
	if service.lastRequest.SourceZone() != "Asia/Tokyo" {
		t.Errorf("request source = %q, want Asia/Tokyo", service.lastRequest.SourceZone())
	}
	if console.conversions != 1 {
		t.Errorf("console conversions = %d, want 1", console.conversions)
	}
	if jsonOut.conversions != 0 {
		t.Errorf("json conversions = %d, want 0", jsonOut.conversions)
	}
}

func TestCLIController_RunConvert_JSONOutput(t *testing.T) {
	service := &mockConverterService{
		convertResult: &usecase.ConvertResult{ConvertedTime: "01:30"},
	}
	console := &recordingConsolePresenter{}
	jsonOut := &recordingJSONPresenter{}
	controller := NewCLIController(service, console, jsonOut)
	controller.SetJSONOutput(true)

	if err := controller.RunConvert("14:30", "Asia/Tokyo", "America/New_York"); err != nil {
		t.Fatalf("RunConvert() error: %v", err)
	}

	if jsonOut.conversions != 1 {
		t.Errorf("json conversions = %d, want 1", jsonOut.conversions)
	}
	if console.conversions != 0 {
		t.Errorf("console conversions = %d, want 0", console.conversions)
	}
}

func TestCLIController_RunConvert_Verbose(t *testing.T) {
	service := &mockConverterService{
		convertResult: &usecase.ConvertResult{ConvertedTime: "01:30"},
	}
	console := &recordingConsolePresenter{}
	controller := NewCLIController(service, console, &recordingJSONPresenter{})
	controller.SetVerbose(true)

	if err := controller.RunConvert("14:30", "Asia/Tokyo", "America/New_York"); err != nil {
		t.Fatalf("RunConvert() error: %v", err)
	}

	if console.verbose != 1 {
		t.Errorf("console verbose prints = %d, want 1", console.verbose)
	}
	if console.conversions != 0 {
		t.Errorf("console simple prints = %d, want 0", console.conversions)
	}
}

func TestCLIController_RunConvert_EmptyTime(t *testing.T) {
	service := &mockConverterService{}
	console := &recordingConsolePresenter{}
	controller := NewCLIController(service, console, &recordingJSONPresenter{})

	err := controller.RunConvert("", "Asia/Tokyo", "America/New_York")
	if err == nil {
		t.Fatal("expected error for empty time")
	}
	if service.lastRequest != nil {
		t.Error("converter service should not be called for an invalid request")
	}
	if console.errorCount != 1 {
		t.Errorf("console errors = %d, want 1", console.errorCount)
	}
}

func TestCLIController_RunConvert_ServiceError(t *testing.T) {
	service := &mockConverterService{
		convertErr: errors.New("unknown timezone: Mars/Olympus_Mons"),
	}
	console := &recordingConsolePresenter{}
	jsonOut := &recordingJSONPresenter{}
	controller := NewCLIController(service, console, jsonOut)
	controller.SetJSONOutput(true)

	err := controller.RunConvert("14:30", "Mars/Olympus_Mons", "UTC")
	if err == nil {
		t.Fatal("expected error from the converter service")
	}
	if jsonOut.errorCount != 1 {
		t.Errorf("json errors = %d, want 1", jsonOut.errorCount)
	}
	if console.errorCount != 0 {
		t.Errorf("console errors = %d, want 0 in JSON mode", console.errorCount)
	}
}

func TestCLIController_RunCurrentTime(t *testing.T) {
	service := &mockConverterService{
		currentResult: &usecase.CurrentTimeResult{Timezone: "Asia/Tokyo", Time: "23:30"},
	}
	console := &recordingConsolePresenter{}
	controller := NewCLIController(service, console, &recordingJSONPresenter{})

	if err := controller.RunCurrentTime("Asia/Tokyo"); err != nil {
		t.Fatalf("RunCurrentTime() error: %v", err)
	}

	if service.lastTimezone != "Asia/Tokyo" {
		t.Errorf("timezone passed = %q, want Asia/Tokyo", service.lastTimezone)
	}
	if console.currentTimes != 1 {
		t.Errorf("console current time prints = %d, want 1", console.currentTimes)
	}
}

func TestCLIController_RunCurrentTime_VerboseJSONPrecedence(t *testing.T) {
	// JSON output wins over verbose when both are set
	service := &mockConverterService{
		currentResult: &usecase.CurrentTimeResult{Timezone: "UTC", Time: "12:00"},
	}
	console := &recordingConsolePresenter{}
	jsonOut := &recordingJSONPresenter{}
	controller := NewCLIController(service, console, jsonOut)
	controller.SetJSONOutput(true)
	controller.SetVerbose(true)

	if err := controller.RunCurrentTime(""); err != nil {
		t.Fatalf("RunCurrentTime() error: %v", err)
	}

	if jsonOut.currentTimes != 1 {
		t.Errorf("json current time prints = %d, want 1", jsonOut.currentTimes)
	}
	if console.currentVerbose != 0 {
		t.Errorf("console verbose prints = %d, want 0", console.currentVerbose)
	}
}
