package core

import (
	"context"
	"time"
)

// DataSource is the read-only contract against the dashboard backend. All
// implementations normalize transport and HTTP failures into returned
// errors; none panic past this boundary. An empty series is a valid result,
// not an error.
type DataSource interface {
	Health(ctx context.Context) (Health, error)

	FetchConfig(ctx context.Context) (Config, error)

	// RawSeries returns native-resolution interval data for the window.
	RawSeries(ctx context.Context, meteringPoint, obisCode string, w Window) ([]SeriesPoint, error)

	// AggregatedSeries returns one value per bucket at w.Level.
	AggregatedSeries(ctx context.Context, meteringPoint, obisCode string, w Window) ([]SeriesPoint, error)

	// Invoice returns the server-computed billing breakdown for an explicit
	// calendar-date range.
	Invoice(ctx context.Context, meteringPoint string, start, end time.Time) (Invoice, error)
}

// StatusError is implemented by source errors that carry an HTTP status,
// letting callers distinguish "the backend said no" from transport faults.
type StatusError interface {
	error
	HTTPStatus() int
}
