package output

import (
	"encoding/json"

	"github.com/rgehrsitz/itax/internal/domain"
)

// JSONFormatter serializes the regime comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
