// Package controllers implements the dashboard's pages and chart api handlers
package controllers

import (
	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
)

// MessageNoDataset is shown while the first dataset is being loaded
const MessageNoDataset = "The dataset has not been loaded yet, please try again in a few moments."

// builderFor creates a chart builder painting with the colors resolved for the snapshot
func builderFor(snapshot *storage.Snapshot, opts charts.Options) *charts.Builder {
	return charts.NewBuilder(snapshot.Colors, opts)
}
