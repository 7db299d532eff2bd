// Package pipeline fans the fetch-format work out over a bounded
// worker pool and collects the results for publishing. Each task owns
// a private result slot; the merge happens only after the join, so no
// locking is needed anywhere.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/ppps/weatherdesk/internal/darksky"
	"github.com/ppps/weatherdesk/internal/dateutil"
	"github.com/ppps/weatherdesk/internal/forecast"
	"github.com/ppps/weatherdesk/internal/metoffice"
	"github.com/ppps/weatherdesk/internal/metrics"
	"github.com/ppps/weatherdesk/internal/models"
)

// SummaryProvider yields daily forecasts by coordinates (Dark Sky).
type SummaryProvider interface {
	Daily(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error)
}

// CityProvider yields one day's forecast for a forecast site
// (Met Office).
type CityProvider interface {
	Daily(ctx context.Context, siteID string, date time.Time) (*models.ForecastDay, error)
}

// OutlookProvider yields the regional text forecast.
type OutlookProvider interface {
	Outlook(ctx context.Context) (*models.Outlook, error)
}

// Key identifies one report slot.
type Key struct {
	Location string
	Date     time.Time
}

// Result is everything one round produced. Slots whose task resolved
// to an absence are simply missing from the maps.
type Result struct {
	Outlook   *models.Outlook
	Summaries map[Key]models.Report // Dark Sky one-liners
	Details   map[Key]models.Report // Met Office city panels
}

type Pipeline struct {
	summaries SummaryProvider
	cities    CityProvider
	outlook   OutlookProvider
	locations []models.Location
	workers   int
}

func New(summaries SummaryProvider, cities CityProvider, outlook OutlookProvider, locations []models.Location) *Pipeline {
	return &Pipeline{
		summaries: summaries,
		cities:    cities,
		outlook:   outlook,
		locations: locations,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// TargetDates returns the calendar days to publish for a run at now:
// tomorrow, plus the day after when now is a Friday so the weekend
// edition covers both days. Dates are UTC midnights.
func TargetDates(now time.Time) []time.Time {
	tomorrow := dateutil.Midnight(now.UTC()).AddDate(0, 0, 1)
	dates := []time.Time{tomorrow}
	if now.Weekday() == time.Friday {
		dates = append(dates, tomorrow.AddDate(0, 0, 1))
	}
	return dates
}

type taskKind int

const (
	taskOutlook taskKind = iota
	taskSummary
	taskDetail
)

type task struct {
	kind taskKind
	loc  models.Location
	date time.Time
}

func (t task) name() string {
	switch t.kind {
	case taskOutlook:
		return "outlook"
	case taskSummary:
		return fmt.Sprintf("summary %s %s", t.loc.Name, t.date.Format("2006-01-02"))
	default:
		return fmt.Sprintf("detail %s %s", t.loc.Name, t.date.Format("2006-01-02"))
	}
}

type outcome struct {
	report  *models.Report
	outlook *models.Outlook
	err     error
}

// Run executes one fetch-format round for the given dates. Absence
// results are logged and leave their slot missing; schema breaks are
// joined into the returned error after every sibling has finished.
// Nothing cancels anything.
func (p *Pipeline) Run(ctx context.Context, dates []time.Time) (*Result, error) {
	tasks := []task{{kind: taskOutlook}}
	for _, date := range dates {
		for _, loc := range p.locations {
			tasks = append(tasks,
				task{kind: taskSummary, loc: loc, date: date},
				task{kind: taskDetail, loc: loc, date: date},
			)
		}
	}

	// One slot per task, written only by the task that owns it.
	outcomes := make([]outcome, len(tasks))
	jobs := make(chan int)

	workers := p.workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = p.execute(ctx, tasks[i])
			}
		}()
	}
	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	res := &Result{
		Summaries: make(map[Key]models.Report),
		Details:   make(map[Key]models.Report),
	}
	var failures []error
	for i, out := range outcomes {
		t := tasks[i]
		switch {
		case out.err != nil && isUnavailable(out.err):
			log.Printf("%s: %v", t.name(), out.err)
		case out.err != nil:
			failures = append(failures, fmt.Errorf("%s: %w", t.name(), out.err))
		case t.kind == taskOutlook:
			res.Outlook = out.outlook
		case t.kind == taskSummary:
			res.Summaries[Key{t.loc.Name, t.date}] = *out.report
		case t.kind == taskDetail:
			res.Details[Key{t.loc.Name, t.date}] = *out.report
		}
	}
	return res, errors.Join(failures...)
}

func (p *Pipeline) execute(ctx context.Context, t task) outcome {
	switch t.kind {
	case taskOutlook:
		o, err := p.outlook.Outlook(ctx)
		return outcome{outlook: o, err: err}

	case taskSummary:
		days, err := p.summaries.Daily(ctx, t.loc.Latitude, t.loc.Longitude)
		if err != nil {
			return outcome{err: err}
		}
		window := forecast.SelectWindow(days, t.date, 1)
		if len(window) == 0 {
			// Beyond the provider's horizon; same as no data.
			return outcome{err: fmt.Errorf("no forecast for %s: %w", t.date.Format("2006-01-02"), darksky.ErrUnavailable)}
		}
		metrics.ReportsFormatted.WithLabelValues("darksky").Inc()
		return outcome{report: &models.Report{
			Location: t.loc.Name,
			Date:     t.date,
			Text:     forecast.Summary(window[0]),
		}}

	default:
		day, err := p.cities.Daily(ctx, t.loc.SiteID, t.date)
		if err != nil {
			return outcome{err: err}
		}
		metrics.ReportsFormatted.WithLabelValues("metoffice").Inc()
		return outcome{report: &models.Report{
			Location: t.loc.Name,
			Date:     t.date,
			Text:     forecast.Detailed(*day),
		}}
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, darksky.ErrUnavailable) || errors.Is(err, metoffice.ErrUnavailable)
}
