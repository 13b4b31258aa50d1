package presenter

import (
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// ConsolePresenter handles console output formatting
type ConsolePresenter interface {
	// Version and basic output
	PrintVersion()
	PrintError(err error)

	// Conversion output
	PrintConversion(result *usecase.ConvertResult) error
	PrintConversionVerbose(result *usecase.ConvertResult) error

	// Current time output
	PrintCurrentTime(result *usecase.CurrentTimeResult) error
	PrintCurrentTimeVerbose(result *usecase.CurrentTimeResult) error
}

// JSONPresenter handles JSON output formatting
type JSONPresenter interface {
	PrintConversion(result *usecase.ConvertResult) error
	PrintCurrentTime(result *usecase.CurrentTimeResult) error
	PrintError(err error) error
}
