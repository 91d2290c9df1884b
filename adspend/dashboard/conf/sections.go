package conf

import (
	"fmt"
	"time"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/common/conf"
)

// EnvPrefix is prepended to every `s-env` tag when reading overrides from the environment
const EnvPrefix = "ADSPEND_"

// Main configuration options
type Main struct {
	Server       Server            `json:"server" s-nested:"true"`
	Dataset      Dataset           `json:"dataset" s-nested:"true"`
	Palette      Palette           `json:"palette" s-nested:"true"`
	Charts       Charts            `json:"charts" s-nested:"true"`
	Admin        conf.Admin        `json:"admin" s-nested:"true"`
	Integrations conf.Integrations `json:"integrations" s-nested:"true"`
	Logging      conf.Logging      `json:"logging" s-nested:"true"`
}

// Server configuration options
type Server struct {
	Host      string `json:"host" s-cli:"server-host" s-def:"0.0.0.0" s-env:"SERVER_HOST" s-desc:"Host/IP to start the dashboard server on"`
	Port      int64  `json:"port" s-cli:"server-port" s-def:"3000" s-env:"SERVER_PORT" s-desc:"Port to listen for incoming browser requests"`
	CacheSize int64  `json:"httpCacheSize" s-cli:"http-cache-size" s-def:"1000" s-desc:"How many rendered pages and chart responses to cache (0 disables caching)"`
	Debug     bool   `json:"debug" s-cli:"server-debug" s-def:"false" s-desc:"Run the http framework in debug mode"`
}

// Dataset configuration options
type Dataset struct {
	Source          string `json:"source" s-cli:"dataset" s-def:"data.json" s-env:"DATASET" s-desc:"Path or http(s) url of the dataset document"`
	RefreshRateSecs int64  `json:"refreshRateSecs" s-cli:"dataset-refresh-rate" s-def:"300" s-desc:"How often to check the dataset source for changes (0 disables periodic refresh)"`
	Watch           bool   `json:"watch" s-cli:"dataset-watch" s-def:"true" s-desc:"Reload the dataset as soon as the file changes (file sources only)"`
	StartDate       string `json:"startDate" s-cli:"start-date" s-def:"2020-01-01" s-desc:"First date plotted on line charts (YYYY-MM-DD)"`
	PersistentFile  string `json:"persistentFile" s-cli:"persistent-file" s-def:":memory:" s-desc:"Where to keep the last dataset that loaded correctly"`
	HTTPTimeoutMs   int64  `json:"httpTimeoutMs" s-cli:"dataset-http-timeout-ms" s-def:"30000" s-desc:"Timeout when fetching the dataset over http"`
}

// Palette configuration options
type Palette struct {
	File          string `json:"file" s-cli:"palette" s-def:"" s-env:"PALETTE" s-desc:"YAML file with the colors of parties and categories, the built-in palette is used when empty"`
	Strict        bool   `json:"strict" s-cli:"palette-strict" s-def:"false" s-desc:"Fail building a chart when a label has no color instead of using the fallback color"`
	FallbackColor string `json:"fallbackColor" s-cli:"palette-fallback-color" s-def:"#999999" s-desc:"Color used for labels without one"`
}

// Charts configuration options
type Charts struct {
	Currency string   `json:"currency" s-cli:"currency" s-def:"€" s-desc:"Currency symbol shown on spending charts"`
	Title    string   `json:"title" s-cli:"title" s-def:"Political Ad Spending" s-desc:"Title shown in the navbar"`
	Parties  []string `json:"parties" s-cli:"parties" s-def:"" s-desc:"Parties listed in the navbar, the palette's or dataset's when empty"`
}

// ChartOptions translates the config into chart builder options
func (m *Main) ChartOptions() (charts.Options, error) {
	start, err := time.ParseInLocation(charts.DateLayout, m.Dataset.StartDate, time.UTC)
	if err != nil {
		return charts.Options{}, fmt.Errorf("invalid start date %q: %w", m.Dataset.StartDate, err)
	}
	return charts.Options{
		StartDate:     start,
		FallbackColor: m.Palette.FallbackColor,
		Strict:        m.Palette.Strict,
	}, nil
}

// RefreshPeriod returns how often the dataset is polled, 0 when periodic refresh is disabled
func (m *Main) RefreshPeriod() time.Duration {
	if m.Dataset.RefreshRateSecs <= 0 {
		return 0
	}
	return time.Duration(m.Dataset.RefreshRateSecs) * time.Second
}

// HTTPTimeout returns the timeout of dataset fetches
func (m *Main) HTTPTimeout() time.Duration {
	return time.Duration(m.Dataset.HTTPTimeoutMs) * time.Millisecond
}
