package charts

import (
	"errors"
	"fmt"
)

// ErrZeroTotal is returned when a percentage of an empty (zero) total is requested
var ErrZeroTotal = errors.New("cannot compute a percentage of a zero total")

// PercentageLabel formats a value followed by its share of total, ie: "25.00 (25.00%)"
func PercentageLabel(value float64, total float64) (string, error) {
	if total == 0 {
		return "", ErrZeroTotal
	}
	return fmt.Sprintf("%.2f (%.2f%%)", value, value/total*100), nil
}

func tooltipLabels(values []float64) []string {
	var total float64
	for _, value := range values {
		total += value
	}

	labels := make([]string, 0, len(values))
	for _, value := range values {
		label, err := PercentageLabel(value, total)
		if err != nil {
			// zero total series show plain values
			label = fmt.Sprintf("%.2f", value)
		}
		labels = append(labels, label)
	}
	return labels
}
