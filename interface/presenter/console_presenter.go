package presenter

import (
	"fmt"
	"io"
	"os"

	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// ConsolePresenterImpl implements ConsolePresenter for terminal output
type ConsolePresenterImpl struct {
	writer io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter() *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer: os.Stdout,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion() {
	_, _ = fmt.Fprintln(p.writer, "tzbridge version 1.0.0")
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintConversion prints the converted time (simple format)
func (p *ConsolePresenterImpl) PrintConversion(result *usecase.ConvertResult) error {
	_, _ = fmt.Fprintln(p.writer, result.ConvertedTime)
	return nil
}

// PrintConversionVerbose prints both sides of a conversion
func (p *ConsolePresenterImpl) PrintConversionVerbose(result *usecase.ConvertResult) error {
	_, _ = fmt.Fprintf(p.writer, "Source: %s\n", p.formatZone(result.Source))
	_, _ = fmt.Fprintf(p.writer, "Target: %s\n", p.formatZone(result.Target))
	return nil
}

// PrintCurrentTime prints the current civil time (simple format)
func (p *ConsolePresenterImpl) PrintCurrentTime(result *usecase.CurrentTimeResult) error {
	_, _ = fmt.Fprintln(p.writer, result.Time)
	return nil
}

// PrintCurrentTimeVerbose prints the current time with zone details
func (p *ConsolePresenterImpl) PrintCurrentTimeVerbose(result *usecase.CurrentTimeResult) error {
	_, _ = fmt.Fprintf(p.writer, "Timezone: %s (%s)\n", result.Timezone, result.DetectionMethod)
	_, _ = fmt.Fprintf(p.writer, "Date:     %s\n", result.Date)
	_, _ = fmt.Fprintf(p.writer, "Time:     %s\n", result.Time)
	_, _ = fmt.Fprintf(p.writer, "Offset:   UTC%s\n", result.Offset)
	if result.IsDST {
		_, _ = fmt.Fprintln(p.writer, "DST:      active")
	}
	return nil
}

// formatZone renders one side of a conversion on a single line
func (p *ConsolePresenterImpl) formatZone(v usecase.ZoneView) string {
	s := fmt.Sprintf("%s %s (UTC%s)", v.Time, v.Timezone, v.Offset)
	if v.IsDST {
		s += " DST"
	}
	return s
}
