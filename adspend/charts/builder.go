// Package charts builds the widget configurations for the line, bar and doughnut charts of the dashboard.
package charts

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/splitio/go-toolkit/v5/common"

	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/palette"
)

// Errors returned when building a chart
var (
	ErrEntityNotFound = dataset.ErrEntityNotFound
	ErrMetricNotFound = dataset.ErrMetricNotFound
	ErrMissingColor   = errors.New("no color defined for label")
	ErrUnknownKind    = errors.New("unknown chart kind")
)

// DefaultStartDate is the first day plotted on line charts
var DefaultStartDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultFallbackColor paints labels missing from the palette when not running in strict mode
const DefaultFallbackColor = "#999999"

// Kind is a chart family that can be requested through the api
type Kind string

// Supported chart kinds
const (
	KindLine     Kind = "line"
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
)

// ParseKind validates a chart kind name
func ParseKind(name string) (Kind, error) {
	switch kind := Kind(name); kind {
	case KindLine, KindBar, KindDoughnut:
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Request carries the parameters of a single chart
type Request struct {
	Title     string
	MetricKey string
	Entity    string // optional, restricts the chart to one party
	Currency  string // optional, ie: "€" for spending charts
}

// Options tune a Builder. Zero values fall back to the defaults above
type Options struct {
	StartDate     time.Time
	Now           func() time.Time
	FallbackColor string
	Strict        bool
}

// Builder produces chart configurations from a dataset. It holds no mutable state
type Builder struct {
	colors        palette.ColorSource
	start         time.Time
	now           func() time.Time
	fallbackColor string
	strict        bool
}

// NewBuilder constructs a builder painting series with colors
func NewBuilder(colors palette.ColorSource, opts Options) *Builder {
	if opts.StartDate.IsZero() {
		opts.StartDate = DefaultStartDate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FallbackColor == "" {
		opts.FallbackColor = DefaultFallbackColor
	}
	return &Builder{
		colors:        colors,
		start:         opts.StartDate,
		now:           opts.Now,
		fallbackColor: opts.FallbackColor,
		strict:        opts.Strict,
	}
}

// Build dispatches to the builder of the requested kind
func (b *Builder) Build(kind Kind, ds *dataset.Dataset, req Request) (*Config, error) {
	switch kind {
	case KindLine:
		return b.Line(ds, req)
	case KindBar:
		return b.Bar(ds, req)
	case KindDoughnut:
		return b.Doughnut(ds, req)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
}

// Line builds a time series chart. Without an entity it plots one line per party, with an entity it
// plots one filled area per category of that party's metric.
func (b *Builder) Line(ds *dataset.Dataset, req Request) (*Config, error) {
	var series []Series
	var err error
	if req.Entity != "" {
		series, err = b.categoryLines(ds, req)
	} else {
		series, err = b.entityLines(ds, req)
	}
	if err != nil {
		return nil, err
	}

	return &Config{
		Type: TypeLine,
		Data: Data{
			Labels:   slices.Collect(DateSequence(b.start, b.now)),
			Datasets: series,
		},
		Options: Display{
			Responsive: true,
			Title:      b.title(req.Title),
			Legend:     Legend{Position: "bottom", Labels: &LegendLabels{Padding: 7}},
			Scales:     &Scales{XAxes: []Axis{{Type: "time"}}},
			Tooltips:   Tooltips{Mode: "x", Intersect: false},
			Plugins: &Plugins{Zoom: ZoomPlugin{
				Pan:  PanOptions{Enabled: true, Mode: "x"},
				Zoom: ZoomOptions{Enabled: true, Drag: false, Mode: "x"},
			}},
			Currency: req.Currency,
		},
	}, nil
}

func (b *Builder) entityLines(ds *dataset.Dataset, req Request) ([]Series, error) {
	entities := ds.Entities()
	series := make([]Series, 0, len(entities))
	for _, entity := range entities {
		values, err := ds.TimeSeries(entity, req.MetricKey)
		if errors.Is(err, dataset.ErrMetricNotFound) {
			continue // party without data for this metric
		}
		if err != nil {
			return nil, err
		}

		line, err := b.line(entity, values, false)
		if err != nil {
			return nil, err
		}
		series = append(series, line)
	}

	if len(entities) > 0 && len(series) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMetricNotFound, req.MetricKey)
	}
	return series, nil
}

func (b *Builder) categoryLines(ds *dataset.Dataset, req Request) ([]Series, error) {
	categories, err := ds.CategorySeries(req.Entity, req.MetricKey)
	if err != nil {
		return nil, err
	}

	series := make([]Series, 0, len(categories))
	for _, category := range categories {
		line, err := b.line(category.Label, category.Values, true)
		if err != nil {
			return nil, err
		}
		series = append(series, line)
	}
	return series, nil
}

func (b *Builder) line(label string, values []float64, fill bool) (Series, error) {
	color, err := b.color(label)
	if err != nil {
		return Series{}, err
	}
	border := Solid(color)
	return Series{
		Label:           label,
		Data:            values,
		Fill:            boolRef(fill),
		BackgroundColor: Solid(color),
		BorderColor:     &border,
		PointRadius:     common.IntRef(0),
		BorderWidth:     2,
	}, nil
}

// Bar builds a horizontal bar chart with one bar per label of the metric's order list, in that order.
// The entity's breakdown is used when one is requested, the top level one otherwise.
func (b *Builder) Bar(ds *dataset.Dataset, req Request) (*Config, error) {
	breakdown, err := b.breakdown(ds, req)
	if err != nil {
		return nil, err
	}

	labels, values, colors, err := b.points(breakdown.Order, breakdown.Value)
	if err != nil {
		return nil, err
	}

	return &Config{
		Type: TypeHorizontalBar,
		Data: Data{
			Labels: labels,
			Datasets: []Series{{
				Data:            values,
				BackgroundColor: PerPoint(colors),
				MaxBarThickness: 30,
				TooltipLabels:   tooltipLabels(values),
			}},
		},
		Options: Display{
			Responsive:          true,
			MaintainAspectRatio: boolRef(false),
			Title:               b.title(req.Title),
			Legend:              Legend{Display: boolRef(false)},
			Tooltips:            Tooltips{Intersect: false},
			Currency:            req.Currency,
		},
	}, nil
}

// Doughnut builds a doughnut chart. Without an entity there is exactly one slice per party, valued from
// the top level metric. With an entity there is one slice per label of the entity's breakdown.
func (b *Builder) Doughnut(ds *dataset.Dataset, req Request) (*Config, error) {
	breakdown, err := b.breakdown(ds, req)
	if err != nil {
		return nil, err
	}

	order := breakdown.Order
	if req.Entity == "" {
		order = ds.Entities()
	}

	labels, values, colors, err := b.points(order, breakdown.Value)
	if err != nil {
		return nil, err
	}

	return &Config{
		Type: TypeDoughnut,
		Data: Data{
			Labels: labels,
			Datasets: []Series{{
				Data:            values,
				BackgroundColor: PerPoint(colors),
				TooltipLabels:   tooltipLabels(values),
			}},
		},
		Options: Display{
			Responsive: true,
			Title:      b.title(req.Title),
			Legend:     Legend{Position: "bottom"},
			Tooltips:   Tooltips{Intersect: false},
			Currency:   req.Currency,
		},
	}, nil
}

func (b *Builder) breakdown(ds *dataset.Dataset, req Request) (*dataset.Breakdown, error) {
	if req.Entity != "" {
		return ds.EntityBreakdown(req.Entity, req.MetricKey)
	}
	return ds.Breakdown(req.MetricKey)
}

func (b *Builder) points(order []string, value func(string) float64) ([]string, []float64, []string, error) {
	labels := make([]string, 0, len(order))
	values := make([]float64, 0, len(order))
	colors := make([]string, 0, len(order))
	for _, label := range order {
		color, err := b.color(label)
		if err != nil {
			return nil, nil, nil, err
		}
		labels = append(labels, label)
		values = append(values, value(label))
		colors = append(colors, color)
	}
	return labels, values, colors, nil
}

func (b *Builder) color(label string) (string, error) {
	if b.colors != nil {
		if color, ok := b.colors.Color(label); ok {
			return color, nil
		}
	}
	if b.strict {
		return "", fmt.Errorf("%w: %q", ErrMissingColor, label)
	}
	return b.fallbackColor, nil
}

func (b *Builder) title(text string) Title {
	return Title{Display: true, Text: text, FontSize: 18}
}
