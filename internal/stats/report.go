package stats

import (
	"context"

	"github.com/verte-zerg/typetrack/internal/model"
	"github.com/verte-zerg/typetrack/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Results         []model.ResultAggregate
	WindowResultIDs []int64
	CharAggsAll     []model.CharAggregate
	CharAggsWindow  []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	results, err := st.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}

	charAggsAll, err := st.ListCharAggregates(ctx, lastResultIDs(results, 0))
	if err != nil {
		return Report{}, err
	}
	windowIDs := lastResultIDs(results, cfg.CurveWindow)
	charAggs, err := st.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Results:         results,
		WindowResultIDs: windowIDs,
		CharAggsAll:     charAggsAll,
		CharAggsWindow:  charAggs,
	}, nil
}

// ResultIDs returns the IDs of results in order.
func ResultIDs(results []model.ResultAggregate) []int64 {
	return lastResultIDs(results, 0)
}

func lastResultIDs(results []model.ResultAggregate, window int) []int64 {
	if window > 0 && len(results) > window {
		results = results[len(results)-window:]
	}
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.ResultID
	}
	return ids
}
