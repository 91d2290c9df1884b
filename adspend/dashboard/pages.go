// Package dashboard lays out the dashboard pages: which charts appear, in which order, with which titles.
package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
)

// Placeholder messages shown instead of the party charts
const (
	MessageNoParty       = "No Party Provided."
	MessagePartyNotFound = "Party Not Found."
)

// DataTypes are the measures plotted on the party page
var DataTypes = []string{"Spending", "Impressions"}

// Breakdowns are the demographic dimensions plotted on the party page
var Breakdowns = []string{"Region", "Gender", "Age"}

// NavLink is an entry of the parties dropdown
type NavLink struct {
	Name string
	Href string
}

// Panel is a single chart on a page. Notice replaces the chart when it could not be built
type Panel struct {
	CanvasID string
	Config   *charts.Config
	Notice   string
}

// BreakdownSection pairs the line and doughnut charts of one data type and breakdown
type BreakdownSection struct {
	Heading     string
	Description string
	Line        Panel
	Doughnut    Panel
}

// DataTypeSection groups the breakdowns of one data type
type DataTypeSection struct {
	ID         string
	ChartsID   string
	Heading    string
	Breakdowns []BreakdownSection
}

// PartyHeader summarizes a party's activity
type PartyHeader struct {
	Title    string
	Ads      string
	Spending string
}

// Summary returns the header sentence as plain text
func (h *PartyHeader) Summary(party string) string {
	return fmt.Sprintf("%s ran %s ads and spent an estimated %s.", party, h.Ads, h.Spending)
}

// PartyPage is the model of the per party page
type PartyPage struct {
	Party    string
	Message  string // set when there is nothing to plot
	Header   *PartyHeader
	Sections []DataTypeSection
}

// OverviewPage is the model of the landing page
type OverviewPage struct {
	Panels []Panel
}

// Composer builds page models with a chart builder
type Composer struct {
	builder  *charts.Builder
	currency string
	recorder telemetry.Recorder
}

// NewComposer constructs a composer. currency is used for spending charts and totals
func NewComposer(builder *charts.Builder, currency string, recorder telemetry.Recorder) *Composer {
	if recorder == nil {
		recorder = telemetry.NoOp{}
	}
	return &Composer{builder: builder, currency: currency, recorder: recorder}
}

// Navbar returns the dropdown entries for parties
func Navbar(parties []string) []NavLink {
	links := make([]NavLink, 0, len(parties))
	for _, party := range parties {
		links = append(links, NavLink{Name: party, Href: "party?party=" + party})
	}
	return links
}

// PartyPage builds the page of a party. present tells whether the party parameter was supplied at all
func (c *Composer) PartyPage(ds *dataset.Dataset, party string, present bool) *PartyPage {
	if !present {
		return &PartyPage{Message: MessageNoParty}
	}
	if ds == nil || !ds.HasEntity(party) {
		return &PartyPage{Party: party, Message: MessagePartyNotFound}
	}

	ads, _ := ds.AdsPerParty(party)
	spent, _ := ds.SpendingPerParty(party)
	page := &PartyPage{
		Party: party,
		Header: &PartyHeader{
			Title:    party + " Graphs",
			Ads:      strconv.FormatFloat(ads, 'f', -1, 64),
			Spending: fmt.Sprintf("%s%.2f", c.currency, spent),
		},
	}

	for _, dataType := range DataTypes {
		lowerType := strings.ToLower(dataType)
		section := DataTypeSection{
			ID:       party + "-" + lowerType,
			ChartsID: party + "-" + lowerType + "-charts",
			Heading:  dataType,
		}

		currency := ""
		if dataType == "Spending" {
			currency = c.currency
		}

		for _, breakdown := range Breakdowns {
			lowerBreakdown := strings.ToLower(breakdown)
			canvasPrefix := strings.ToLower(party) + "-" + lowerBreakdown + "-" + lowerType

			line := c.panel(charts.KindLine, canvasPrefix+"-line-chart", ds, charts.Request{
				Title:     fmt.Sprintf("Average (Estimated) %s per %s over time (%s)", dataType, breakdown, party),
				MetricKey: lowerType + "-per-" + lowerBreakdown + "-per-date",
				Entity:    party,
				Currency:  currency,
			})
			doughnut := c.panel(charts.KindDoughnut, canvasPrefix+"-doughnut-chart", ds, charts.Request{
				Title:     fmt.Sprintf("Total (Estimated) %s per %s (%s)", dataType, breakdown, party),
				MetricKey: lowerType + "-per-" + lowerBreakdown,
				Entity:    party,
				Currency:  currency,
			})

			section.Breakdowns = append(section.Breakdowns, BreakdownSection{
				Heading: fmt.Sprintf("(Estimated) %s per %s (%s)", dataType, breakdown, party),
				Description: fmt.Sprintf(
					"This graph shows %s per %s over time. Facebook provides a range (e.g. %s1000 - %s1999 has been spent on an ad) "+
						"for each ad, this graph is based on the average of the range of each ad.",
					lowerType, lowerBreakdown, c.currency, c.currency),
				Line:     line,
				Doughnut: doughnut,
			})
		}
		page.Sections = append(page.Sections, section)
	}
	return page
}

// OverviewPage builds the landing page: activity of every party side by side
func (c *Composer) OverviewPage(ds *dataset.Dataset) *OverviewPage {
	return &OverviewPage{Panels: []Panel{
		c.panel(charts.KindLine, "spending-per-party-line-chart", ds, charts.Request{
			Title:     "Average (Estimated) Spending per Party over time",
			MetricKey: "spending-per-date",
			Currency:  c.currency,
		}),
		c.panel(charts.KindLine, "impressions-per-party-line-chart", ds, charts.Request{
			Title:     "Average (Estimated) Impressions per Party over time",
			MetricKey: "impressions-per-date",
		}),
		c.panel(charts.KindDoughnut, "spending-per-party-doughnut-chart", ds, charts.Request{
			Title:     "Total (Estimated) Spending per Party",
			MetricKey: dataset.KeySpendingPerParty,
			Currency:  c.currency,
		}),
		c.panel(charts.KindBar, "ads-per-party-bar-chart", ds, charts.Request{
			Title:     "Ads per Party",
			MetricKey: dataset.KeyAdsPerParty,
		}),
	}}
}

func (c *Composer) panel(kind charts.Kind, canvasID string, ds *dataset.Dataset, req charts.Request) Panel {
	config, err := c.builder.Build(kind, ds, req)
	c.recorder.RecordChartBuild(string(kind), err)
	if err != nil {
		return Panel{CanvasID: canvasID, Notice: fmt.Sprintf("%s: no data available (%s)", req.Title, err.Error())}
	}
	return Panel{CanvasID: canvasID, Config: config}
}
