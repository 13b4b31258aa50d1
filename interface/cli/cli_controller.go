package cli

import (
	"github.com/ca-srg/tzbridge/domain/entity"
	"github.com/ca-srg/tzbridge/interface/presenter"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// CLIController handles command-line interface operations
type CLIController struct {
	converterService usecase.ConverterService
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter
	jsonOutput       bool
	verbose          bool
}

// NewCLIController creates a new CLI controller
func NewCLIController(
	converterService usecase.ConverterService,
	consolePresenter presenter.ConsolePresenter,
	jsonPresenter presenter.JSONPresenter,
) *CLIController {
	return &CLIController{
		converterService: converterService,
		consolePresenter: consolePresenter,
		jsonPresenter:    jsonPresenter,
	}
}

// SetJSONOutput selects JSON output instead of plain text
func (c *CLIController) SetJSONOutput(enabled bool) {
	c.jsonOutput = enabled
}

// SetVerbose enables the detailed console format
func (c *CLIController) SetVerbose(enabled bool) {
	c.verbose = enabled
}

// RunConvert converts a single civil time and prints the result
func (c *CLIController) RunConvert(timeStr, sourceZone, targetZone string) error {
	request, err := entity.NewConversionRequest(timeStr, sourceZone, targetZone)
	if err != nil {
		c.printError(err)
		return err
	}

	result, err := c.converterService.Convert(request)
	if err != nil {
		c.printError(err)
		return err
	}

	if c.jsonOutput {
		return c.jsonPresenter.PrintConversion(result)
	}
	if c.verbose {
		return c.consolePresenter.PrintConversionVerbose(result)
	}
	return c.consolePresenter.PrintConversion(result)
}

// RunCurrentTime prints the current time in the given timezone. An empty
// timezone falls back to the detected system timezone.
func (c *CLIController) RunCurrentTime(timezone string) error {
	result, err := c.converterService.CurrentTime(timezone)
	if err != nil {
		c.printError(err)
		return err
	}

	if c.jsonOutput {
		return c.jsonPresenter.PrintCurrentTime(result)
	}
	if c.verbose {
		return c.consolePresenter.PrintCurrentTimeVerbose(result)
	}
	return c.consolePresenter.PrintCurrentTime(result)
}

func (c *CLIController) printError(err error) {
	if c.jsonOutput {
		_ = c.jsonPresenter.PrintError(err)
		return
	}
	c.consolePresenter.PrintError(err)
}
