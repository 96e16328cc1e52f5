package worker

import (
	"context"
	"fmt"
)

// StatsRefresher recomputes the cached statistics of one user.
type StatsRefresher interface {
	RefreshStats(ctx context.Context, userID int64) error
}

// RefreshStatsJob rewrites the stats snapshot of a single user.
type RefreshStatsJob struct {
	Stats  StatsRefresher
	UserID int64
}

func (j *RefreshStatsJob) Name() string { return fmt.Sprintf("refresh_stats:%d", j.UserID) }

func (j *RefreshStatsJob) Run(ctx context.Context) error {
	return j.Stats.RefreshStats(ctx, j.UserID)
}
