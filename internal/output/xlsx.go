package output

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dokzlo13/lightsample/internal/payload"
)

const lightsSheet = "lights"

// BuildXLSX renders samples as a single-sheet workbook using the verbose
// JSON field names as headers and the same rounding.
func BuildXLSX(samples []payload.LightSample) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", lightsSheet); err != nil {
		return nil, err
	}

	header := []any{"serialNumber", "temperature", "power", "dimLevel", "on"}
	if err := f.SetSheetRow(lightsSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, s := range samples {
		v := s.Verbose()
		row := []any{v.SerialNumber, v.Temperature, v.Power, v.DimLevel, v.On}
		if err := f.SetSheetRow(lightsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
