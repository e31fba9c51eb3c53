package ports

import "context"

// MetricsExporter publishes the daily ledger to an external metrics
// backend. Implementations pull from the store on their own schedule;
// callers only need to shut them down.
type MetricsExporter interface {
	Close(ctx context.Context) error
}
