package payload

import (
	"encoding/json"
	"math"
)

// Verbose is the long-key JSON shape of a sample.
type Verbose struct {
	SerialNumber string  `json:"serialNumber"`
	Temperature  float64 `json:"temperature"`
	Power        float64 `json:"power"`
	DimLevel     int16   `json:"dimLevel"`
	On           bool    `json:"on"`
}

// Compact is the short-key JSON shape of a sample.
type Compact struct {
	SerialNumber string  `json:"sn"`
	Temperature  float64 `json:"temp"`
	Power        float64 `json:"w"`
	DimLevel     int16   `json:"dim"`
	On           bool    `json:"on"`
}

// Round2 rounds v to two decimals, halves away from zero.
func Round2(v float32) float64 {
	return math.Round(float64(v)*100) / 100
}

// Verbose returns the long-key JSON shape.
func (s LightSample) Verbose() Verbose {
	return Verbose{
		SerialNumber: s.serialNumber,
		Temperature:  Round2(s.temperature),
		Power:        Round2(s.power),
		DimLevel:     s.dimLevel,
		On:           s.on,
	}
}

// Compact returns the short-key JSON shape.
func (s LightSample) Compact() Compact {
	return Compact{
		SerialNumber: s.serialNumber,
		Temperature:  Round2(s.temperature),
		Power:        Round2(s.power),
		DimLevel:     s.dimLevel,
		On:           s.on,
	}
}

// VerboseJSON encodes a single sample as a verbose object.
func VerboseJSON(s LightSample) ([]byte, error) {
	return json.Marshal(s.Verbose())
}

// CompactJSON encodes a single sample as a compact object.
func CompactJSON(s LightSample) ([]byte, error) {
	return json.Marshal(s.Compact())
}

// VerboseArrayJSON encodes samples as an array of verbose objects in order.
func VerboseArrayJSON(samples []LightSample) ([]byte, error) {
	out := make([]Verbose, len(samples))
	for i, s := range samples {
		out[i] = s.Verbose()
	}
	return json.Marshal(out)
}

// CompactArrayJSON encodes samples as an array of compact objects in order.
func CompactArrayJSON(samples []LightSample) ([]byte, error) {
	out := make([]Compact, len(samples))
	for i, s := range samples {
		out[i] = s.Compact()
	}
	return json.Marshal(out)
}
