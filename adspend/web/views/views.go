// Package views holds the html templates of the dashboard pages.
package views

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dashboard"
)

var funcs = map[string]interface{}{
	"serializeIncomingData": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}

// PageVars is the data every page template is executed with
type PageVars struct {
	Title          string
	Version        string
	DatasetVersion int64
	Parties        []dashboard.NavLink
	Party          *dashboard.PartyPage
	Overview       *dashboard.OverviewPage
	Message        string // shown instead of the page content, ie: when no dataset is loaded
}

// ChartsOnPage returns every chart of the page keyed by canvas id, ready to be serialized into the page script
func (p *PageVars) ChartsOnPage() map[string]*charts.Config {
	toReturn := make(map[string]*charts.Config)
	if p.Overview != nil {
		for _, panel := range p.Overview.Panels {
			if panel.Config != nil {
				toReturn[panel.CanvasID] = panel.Config
			}
		}
	}
	if p.Party != nil {
		for _, section := range p.Party.Sections {
			for _, breakdown := range section.Breakdowns {
				for _, panel := range []dashboard.Panel{breakdown.Line, breakdown.Doughnut} {
					if panel.Config != nil {
						toReturn[panel.CanvasID] = panel.Config
					}
				}
			}
		}
	}
	return toReturn
}

// AssemblePartyTemplate builds the template of the party page
func AssemblePartyTemplate() (*template.Template, error) {
	return assemble("PartyPage", partyContent)
}

// AssembleOverviewTemplate builds the template of the landing page
func AssembleOverviewTemplate() (*template.Template, error) {
	return assemble("OverviewPage", overviewContent)
}

// assemble concatenates the pieces in correct order. Embedded definitions MUST appear before the main layout
func assemble(name string, content string) (*template.Template, error) {
	return template.New(name).Funcs(funcs).Parse(strings.Join([]string{
		headScripts,
		navbar,
		panel,
		chartScript,
		content,
		layout,
	}, ""))
}
