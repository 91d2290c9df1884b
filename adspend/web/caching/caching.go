// Package caching configures the response cache placed in front of the pages and the chart api.
package caching

import (
	"github.com/gin-gonic/gin"
	"github.com/splitio/gincache"
)

const (
	// SurrogateContextKey is the gin context key used to store surrogates generated on each response
	SurrogateContextKey = "surrogates"

	// DatasetSurrogate tags every response rendered from the dataset. It is evicted whenever a new dataset is loaded
	DatasetSurrogate = "ds"
)

// MakeDashboardCache creates a cache keyed by path and query string, holding up to size entries
func MakeDashboardCache(size int) *gincache.Middleware {
	return gincache.New(&gincache.Options{
		SuccessfulOnly: true, // unknown parties and missing metrics are cheap to answer again
		Size:           size,
		KeyFactory: func(ctx *gin.Context) string {
			return ctx.Request.URL.Path + "?" + ctx.Request.URL.RawQuery
		},
		SurrogateFactory: func(ctx *gin.Context) []string { return ctx.GetStringSlice(SurrogateContextKey) },
	})
}

// TagDataset marks the response being built as derived from the current dataset
func TagDataset(ctx *gin.Context) {
	ctx.Set(SurrogateContextKey, []string{DatasetSurrogate})
}
