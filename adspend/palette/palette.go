// Package palette provides the color tables used to paint chart series and slices.
//
// Tables are immutable once built and are injected into the chart builder, so the static
// table shipped with the dashboard and a table embedded in a dataset are interchangeable.
package palette

import (
	"github.com/splitio/go-toolkit/v5/datastructures/set"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ColorSource resolves the display color of a category label
type ColorSource interface {
	Color(label string) (string, bool)
}

// Static is an immutable label -> color table
type Static struct {
	colors map[string]string
}

// NewStatic builds a table from a map. The map is copied
func NewStatic(colors map[string]string) *Static {
	copied := make(map[string]string, len(colors))
	for label, color := range colors {
		copied[label] = color
	}
	return &Static{colors: copied}
}

// Color returns the color registered for label
func (s *Static) Color(label string) (string, bool) {
	if s == nil {
		return "", false
	}
	color, ok := s.colors[label]
	return color, ok
}

// Labels returns the registered labels, sorted
func (s *Static) Labels() []string {
	labels := maps.Keys(s.colors)
	slices.Sort(labels)
	return labels
}

// Len returns how many labels have a color
func (s *Static) Len() int {
	return len(s.colors)
}

// Chained looks labels up in each source in turn
type Chained struct {
	sources []ColorSource
}

// Chain returns a source where the first source that knows a label wins. nil sources are skipped
func Chain(sources ...ColorSource) *Chained {
	filtered := make([]ColorSource, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			filtered = append(filtered, source)
		}
	}
	return &Chained{sources: filtered}
}

// Color returns the color from the first source that has one for label
func (c *Chained) Color(label string) (string, bool) {
	for _, source := range c.sources {
		if color, ok := source.Color(label); ok {
			return color, true
		}
	}
	return "", false
}

// Missing returns the labels (deduplicated, sorted) for which source has no color
func Missing(source ColorSource, labels []string) []string {
	missing := set.NewSet()
	for _, label := range labels {
		if _, ok := source.Color(label); !ok {
			missing.Add(label)
		}
	}

	toReturn := make([]string, 0, missing.Size())
	for _, item := range missing.List() {
		toReturn = append(toReturn, item.(string))
	}
	slices.Sort(toReturn)
	return toReturn
}

var _ ColorSource = (*Static)(nil)
var _ ColorSource = (*Chained)(nil)
