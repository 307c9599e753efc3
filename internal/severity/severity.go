// Package severity maps classification percentages to labels and builds the
// spoken summary of the severity gauge.
package severity

import (
	"fmt"

	"github.com/smykla-skalski/codemate/internal/service"
)

// Band is a named severity range.
type Band struct {
	Label string
	// Max is the inclusive upper bound of the band, in percent.
	Max int
}

// Bands lists the severity ranges in ascending order.
//
//nolint:gochecknoglobals // fixed band table
var Bands = []Band{
	{Label: "No Error", Max: 0},
	{Label: "Low", Max: 30},
	{Label: "Medium", Max: 60},
	{Label: "High", Max: 85},
	{Label: "Critical", Max: 100},
}

// Clamp bounds percent to [0, 100].
func Clamp(percent int) int {
	return min(max(percent, 0), 100)
}

// BandFor returns the band containing percent.
func BandFor(percent int) Band {
	p := Clamp(percent)

	for _, b := range Bands {
		if p <= b.Max {
			return b
		}
	}

	return Bands[len(Bands)-1]
}

// Label returns the service-provided label, or the band label for the percentage.
func Label(cls service.Classification) string {
	if cls.SeverityLabel != "" {
		return cls.SeverityLabel
	}

	return BandFor(cls.SeverityPercent).Label
}

// GaugeSpeech is the text read aloud when the severity meter appears.
func GaugeSpeech(cls service.Classification) string {
	return fmt.Sprintf(
		"Error severity meter shows %d percent. %d errors and %d warnings found. Error type: %s.",
		cls.SeverityPercent,
		cls.ErrorCount,
		cls.WarningCount,
		cls.DisplayType(),
	)
}

// NeedleAngle maps percent onto a half-circle gauge, in degrees from -90 to 90.
func NeedleAngle(percent int) int {
	return Clamp(percent)*180/100 - 90
}
