package charts

import (
	"encoding/json"
)

// Chart types understood by the widget
const (
	TypeLine          = "line"
	TypeHorizontalBar = "horizontalBar"
	TypeDoughnut      = "doughnut"
)

// Config is a complete chart widget configuration
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Display `json:"options"`
}

// Data holds the x axis labels and the series to plot
type Data struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// Series is a single dataset of a chart
type Series struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	Fill            *bool     `json:"fill,omitempty"`
	BackgroundColor Paint     `json:"backgroundColor"`
	BorderColor     *Paint    `json:"borderColor,omitempty"`
	PointRadius     *int      `json:"pointRadius,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	MaxBarThickness int       `json:"maxBarThickness,omitempty"`

	// TooltipLabels carries one precomputed tooltip text per data point
	TooltipLabels []string `json:"tooltipLabels,omitempty"`
}

// Paint is either one color for the whole series or one color per data point
type Paint struct {
	Colors   []string
	PerPoint bool
}

// Solid paints a whole series with one color
func Solid(color string) Paint {
	return Paint{Colors: []string{color}}
}

// PerPoint paints each data point with its own color
func PerPoint(colors []string) Paint {
	return Paint{Colors: colors, PerPoint: true}
}

// MarshalJSON encodes the paint as a css color string or as a list of them
func (p Paint) MarshalJSON() ([]byte, error) {
	if p.PerPoint {
		if p.Colors == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(p.Colors)
	}
	if len(p.Colors) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(p.Colors[0])
}

// UnmarshalJSON accepts either form produced by MarshalJSON
func (p *Paint) UnmarshalJSON(raw []byte) error {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		*p = Solid(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return err
	}
	*p = PerPoint(list)
	return nil
}

// Display holds the display options of a chart
type Display struct {
	Animation                   Animation `json:"animation"`
	Hover                       Hover     `json:"hover"`
	ResponsiveAnimationDuration int       `json:"responsiveAnimationDuration"`
	Responsive                  bool      `json:"responsive"`
	MaintainAspectRatio         *bool     `json:"maintainAspectRatio,omitempty"`
	Title                       Title     `json:"title"`
	Legend                      Legend    `json:"legend"`
	Scales                      *Scales   `json:"scales,omitempty"`
	Tooltips                    Tooltips  `json:"tooltips"`
	Plugins                     *Plugins  `json:"plugins,omitempty"`

	// Currency is prepended to y ticks and tooltip values by the page script
	Currency string `json:"currency,omitempty"`
}

// Animation options
type Animation struct {
	Duration int `json:"duration"`
}

// Hover options
type Hover struct {
	AnimationDuration int `json:"animationDuration"`
}

// Title options
type Title struct {
	Display  bool   `json:"display"`
	Text     string `json:"text"`
	FontSize int    `json:"fontSize"`
}

// Legend options
type Legend struct {
	Display  *bool         `json:"display,omitempty"`
	Position string        `json:"position,omitempty"`
	Labels   *LegendLabels `json:"labels,omitempty"`
}

// LegendLabels options
type LegendLabels struct {
	Padding int `json:"padding"`
}

// Scales options
type Scales struct {
	XAxes []Axis `json:"xAxes,omitempty"`
}

// Axis options
type Axis struct {
	Type string `json:"type"`
}

// Tooltips options
type Tooltips struct {
	Mode      string `json:"mode,omitempty"`
	Intersect bool   `json:"intersect"`
}

// Plugins options
type Plugins struct {
	Zoom ZoomPlugin `json:"zoom"`
}

// ZoomPlugin configures panning and zooming
type ZoomPlugin struct {
	Pan  PanOptions  `json:"pan"`
	Zoom ZoomOptions `json:"zoom"`
}

// PanOptions of the zoom plugin
type PanOptions struct {
	Enabled bool   `json:"enabled"`
	Mode    string `json:"mode"`
}

// ZoomOptions of the zoom plugin
type ZoomOptions struct {
	Enabled bool   `json:"enabled"`
	Drag    bool   `json:"drag"`
	Mode    string `json:"mode"`
}

func boolRef(b bool) *bool {
	return &b
}
