package format

import (
	"fmt"
	"math"
	"strings"
)

// Percent renders a fraction as a percentage with one decimal place (e.g., 0.5286 -> "52.9%").
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// SignedPoints renders a whole-point margin with an explicit sign (e.g., "+5", "-12", "+0").
func SignedPoints(points float64) string {
	rounded := math.Round(points)
	if rounded == 0 {
		// Avoid "-0".
		return "+0"
	}
	return fmt.Sprintf("%+d", int64(rounded))
}

// PartisanMargin renders a signed fractional margin as a lead for one side,
// using D for positive and R for zero or negative (e.g., 0.052 -> "+5.2% D").
func PartisanMargin(margin float64) string {
	points := margin * 100
	if points > 0 {
		return fmt.Sprintf("+%.1f%% D", points)
	}
	return fmt.Sprintf("+%.1f%% R", math.Abs(points))
}

// Label converts a canonical column name such as "WhiteNonCollegeShare" into a
// human label ("White Non College").
func Label(name string) string {
	trimmed := strings.TrimSuffix(name, "Share")
	var builder strings.Builder
	for i, r := range trimmed {
		if i > 0 && r >= 'A' && r <= 'Z' {
			builder.WriteByte(' ')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
