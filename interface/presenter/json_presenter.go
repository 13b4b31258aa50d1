package presenter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ca-srg/tzbridge/domain"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// JSONPresenterImpl implements JSONPresenter for JSON output
type JSONPresenterImpl struct {
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter() *JSONPresenterImpl {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return &JSONPresenterImpl{
		writer:  os.Stdout,
		encoder: encoder,
	}
}

// PrintConversion prints a conversion result as JSON
func (p *JSONPresenterImpl) PrintConversion(result *usecase.ConvertResult) error {
	data := map[string]interface{}{
		"convertedTime": result.ConvertedTime,
		"source":        zoneViewMap(result.Source),
		"target":        zoneViewMap(result.Target),
	}

	return p.encoder.Encode(data)
}

// PrintCurrentTime prints the current time as JSON
func (p *JSONPresenterImpl) PrintCurrentTime(result *usecase.CurrentTimeResult) error {
	data := map[string]interface{}{
		"timezone":        result.Timezone,
		"dateTime":        result.DateTime,
		"time":            result.Time,
		"date":            result.Date,
		"offset":          result.Offset,
		"isDST":           result.IsDST,
		"detectionMethod": result.DetectionMethod,
	}

	return p.encoder.Encode(data)
}

// PrintError prints an error as JSON
func (p *JSONPresenterImpl) PrintError(err error) error {
	code := domain.GetErrorCode(err)
	if code == "" {
		code = domain.ErrCodeSystemError
	}

	data := map[string]interface{}{
		"error": map[string]string{
			"code":    string(code),
			"message": err.Error(),
		},
	}

	// Use stderr for errors
	encoder := json.NewEncoder(os.Stderr)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// SetWriter sets the output writer (mainly for testing)
func (p *JSONPresenterImpl) SetWriter(w io.Writer) {
	p.writer = w
	p.encoder = json.NewEncoder(w)
	p.encoder.SetIndent("", "  ")
}

func zoneViewMap(v usecase.ZoneView) map[string]interface{} {
	return map[string]interface{}{
		"time":     v.Time,
		"timezone": v.Timezone,
		"offset":   v.Offset,
		"isDST":    v.IsDST,
	}
}
