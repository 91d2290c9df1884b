package sync

import (
	"context"
	"time"

	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

// NewRefreshTask periodically synchronizes the dataset. Errors are logged and the previous dataset keeps being served
func NewRefreshTask(synchronizer *Synchronizer, period time.Duration, timeout time.Duration, logger logging.LoggerInterface) *asynctask.AsyncTask {
	periodSecs := int(period.Seconds())
	if periodSecs < 1 {
		periodSecs = 1
	}

	return asynctask.NewAsyncTask(
		"dataset-refresh",
		func(l logging.LoggerInterface) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if _, err := synchronizer.SyncAll(ctx); err != nil {
				l.Error("error refreshing dataset: ", err.Error())
			}
			return nil
		},
		periodSecs,
		nil,
		nil,
		logger,
	)
}
