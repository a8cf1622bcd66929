package leneda

import "github.com/lenedash/lenedash/internal/core"

type seriesResponse struct {
	Items []core.SeriesPoint `json:"items"`
}

type aggregatedResponse struct {
	AggregatedTimeSeries []core.SeriesPoint `json:"aggregatedTimeSeries"`
}
