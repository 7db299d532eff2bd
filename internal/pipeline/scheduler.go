package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/ppps/weatherdesk/internal/dateutil"
	"github.com/ppps/weatherdesk/internal/indesign"
)

// Scheduler runs the pipeline once a day in daemon mode. It checks on
// an hourly tick and publishes during the configured local hour, at
// most once per calendar day.
type Scheduler struct {
	pipeline *Pipeline
	sink     indesign.Sink
	loc      *time.Location
	hour     int
	interval time.Duration
	lastRun  time.Time
}

func NewScheduler(p *Pipeline, sink indesign.Sink, loc *time.Location, hour int) *Scheduler {
	return &Scheduler{
		pipeline: p,
		sink:     sink,
		loc:      loc,
		hour:     hour,
		interval: time.Hour,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.runIfDue(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case now := <-ticker.C:
			s.runIfDue(ctx, now)
		}
	}
}

func (s *Scheduler) runIfDue(ctx context.Context, now time.Time) {
	local := now.In(s.loc)
	if local.Hour() != s.hour {
		return
	}
	day := dateutil.Midnight(local)
	if s.lastRun.Equal(day) {
		return
	}
	s.lastRun = day

	log.Printf("scheduler: publishing panel for %s", day.Format("2006-01-02"))
	dates := TargetDates(local)
	res, err := s.pipeline.Run(ctx, dates)
	if err != nil {
		// Contract breaks; report and publish what we have.
		log.Printf("pipeline: %v", err)
	}
	s.pipeline.Publish(res, dates, s.sink)
}
