// Package janitor runs background maintenance: clearing stale handoff
// values and re-applying the history cap after external writers.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/insta-profile-viewer/internal/deeplink"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories/recency"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC      fx.Lifecycle
	Inbox   deeplink.Inbox
	Recency recency.Repository
	Logger  logger.Logger
}

// Register schedules the maintenance jobs and ties the scheduler to the app
// lifecycle.
func Register(opts Opts) error {
	log := opts.Logger.WithComponent("Janitor")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create janitor scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			_, at, ok := opts.Inbox.Peek(ctx)
			if !ok || time.Since(at) < deeplink.Freshness {
				return
			}
			if err := opts.Inbox.Clear(ctx); err != nil {
				log.Warn("Failed to clear stale handoff", "error", err)
				return
			}
			log.Info("Cleared stale handoff value")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule handoff cleanup: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := opts.Recency.CompactHistory(ctx); err != nil {
				log.Error("Failed to compact history", "error", err)
				return
			}
			log.Info("History compaction completed")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule history compaction: %w", err)
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return scheduler.Shutdown()
		},
	})

	return nil
}
