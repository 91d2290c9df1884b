package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dashboard"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
	"github.com/partyads/adspend-dashboard/adspend/web/views"
)

// PagesOptions bundles the dependencies of the html pages
type PagesOptions struct {
	Title        string
	Version      string
	Parties      []string // navbar entries, the dataset's parties when empty
	Currency     string
	ChartOptions charts.Options
	Holder       *storage.Holder
	Recorder     telemetry.Recorder
	Logger       logging.LoggerInterface
}

// PagesController renders the html pages
type PagesController struct {
	opts     PagesOptions
	party    *template.Template
	overview *template.Template
}

// NewPagesController parses the page templates and builds the controller
func NewPagesController(opts PagesOptions) (*PagesController, error) {
	party, err := views.AssemblePartyTemplate()
	if err != nil {
		return nil, fmt.Errorf("unable to instantiate party page template: %w", err)
	}

	overview, err := views.AssembleOverviewTemplate()
	if err != nil {
		return nil, fmt.Errorf("unable to instantiate overview page template: %w", err)
	}

	if opts.Recorder == nil {
		opts.Recorder = telemetry.NoOp{}
	}
	return &PagesController{opts: opts, party: party, overview: overview}, nil
}

// Register mounts the page endpoints, cache is optional
func (c *PagesController) Register(router gin.IRouter, cache gin.HandlerFunc) {
	handlers := func(name string, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{telemetry.Endpoint(name)}
		if cache != nil {
			chain = append(chain, cache)
		}
		return append(chain, handler)
	}

	router.GET("/", handlers("overview", c.overviewPage)...)
	router.GET("/party", handlers("party", c.partyPage)...)
	router.GET("/party.html", handlers("party", c.partyPage)...)
}

func (c *PagesController) overviewPage(ctx *gin.Context) {
	snapshot := c.opts.Holder.Current()
	vars := c.pageVars(snapshot)
	if snapshot == nil {
		c.render(ctx, c.overview, http.StatusServiceUnavailable, vars)
		return
	}

	composer := dashboard.NewComposer(builderFor(snapshot, c.opts.ChartOptions), c.opts.Currency, c.opts.Recorder)
	vars.Overview = composer.OverviewPage(snapshot.Dataset)
	caching.TagDataset(ctx)
	c.render(ctx, c.overview, http.StatusOK, vars)
}

func (c *PagesController) partyPage(ctx *gin.Context) {
	snapshot := c.opts.Holder.Current()
	vars := c.pageVars(snapshot)
	if snapshot == nil {
		c.render(ctx, c.party, http.StatusServiceUnavailable, vars)
		return
	}

	party, present := ctx.GetQuery("party")
	composer := dashboard.NewComposer(builderFor(snapshot, c.opts.ChartOptions), c.opts.Currency, c.opts.Recorder)
	vars.Party = composer.PartyPage(snapshot.Dataset, party, present)
	caching.TagDataset(ctx)
	c.render(ctx, c.party, http.StatusOK, vars)
}

func (c *PagesController) pageVars(snapshot *storage.Snapshot) *views.PageVars {
	vars := &views.PageVars{Title: c.opts.Title, Version: c.opts.Version}
	parties := c.opts.Parties
	if snapshot == nil {
		vars.Message = MessageNoDataset
	} else {
		vars.DatasetVersion = snapshot.Version
		if len(parties) == 0 {
			parties = snapshot.Dataset.Entities()
		}
	}
	vars.Parties = dashboard.Navbar(parties)
	return vars
}

func (c *PagesController) render(ctx *gin.Context, tmpl *template.Template, status int, vars *views.PageVars) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		c.opts.Logger.Error("error rendering page: ", err)
		ctx.String(http.StatusInternalServerError, "%s", err.Error())
		return
	}
	ctx.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
