package data

import (
	"encoding/json"
	"os"

	"caltrack-baseline/internal/model"
)

// SeriesDocument is the JSON shape for a combined meter + temperature input
// file, mirroring the API request payload.
type SeriesDocument struct {
	Meter       []model.MeterPeriod     `json:"meter"`
	Temperature model.TemperatureSeries `json:"temperature"`
}

// LoadSeriesJSON reads a combined input file and aligns it.
func LoadSeriesJSON(path string) (*model.AlignedSeries, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc SeriesDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return Align(doc.Meter, doc.Temperature)
}
