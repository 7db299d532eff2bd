package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppps/weatherdesk/internal/darksky"
	"github.com/ppps/weatherdesk/internal/indesign"
	"github.com/ppps/weatherdesk/internal/metoffice"
	"github.com/ppps/weatherdesk/internal/models"
)

type fakeSummaries func(lat, lon float64) ([]models.ForecastDay, error)

func (f fakeSummaries) Daily(_ context.Context, lat, lon float64) ([]models.ForecastDay, error) {
	return f(lat, lon)
}

type fakeCities func(siteID string, date time.Time) (*models.ForecastDay, error)

func (f fakeCities) Daily(_ context.Context, siteID string, date time.Time) (*models.ForecastDay, error) {
	return f(siteID, date)
}

type fakeOutlook func() (*models.Outlook, error)

func (f fakeOutlook) Outlook(_ context.Context) (*models.Outlook, error) {
	return f()
}

var testLocations = []models.Location{
	{Name: "Portsmouth", SiteID: "353595", Latitude: 50.8198, Longitude: -1.0880},
	{Name: "Brighton", SiteID: "353070", Latitude: 50.8225, Longitude: -0.1372},
	{Name: "Winchester", SiteID: "353660", Latitude: 51.0632, Longitude: -1.3080},
}

func testDates() []time.Time {
	return []time.Time{
		time.Date(2017, 5, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 5, 31, 0, 0, 0, 0, time.UTC),
	}
}

// happySummaries serves every requested date.
func happySummaries(lat, lon float64) ([]models.ForecastDay, error) {
	var days []models.ForecastDay
	for i := 0; i < 5; i++ {
		days = append(days, models.ForecastDay{
			Date:    time.Date(2017, 5, 29+i, 0, 0, 0, 0, time.UTC),
			Summary: "Drizzle starting in the afternoon.",
			TempMax: 22.4,
		})
	}
	return days, nil
}

func happyCities(siteID string, date time.Time) (*models.ForecastDay, error) {
	return &models.ForecastDay{
		Date:      date,
		Summary:   "Sunny day",
		TempMax:   22,
		FeelsLike: 19,
		WindSpeed: 13,
		WindDir:   "NW",
	}, nil
}

func happyOutlook() (*models.Outlook, error) {
	return &models.Outlook{
		TodayText:   "A dry, warm day.",
		ThreeToFive: "Unsettled, rain at times.",
	}, nil
}

func TestRun_AllSlotsFilled(t *testing.T) {
	p := New(fakeSummaries(happySummaries), fakeCities(happyCities), fakeOutlook(happyOutlook), testLocations)
	dates := testDates()

	res, err := p.Run(context.Background(), dates)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantSlots := len(testLocations) * len(dates)
	if len(res.Summaries) != wantSlots {
		t.Errorf("Summaries has %d slots, want %d", len(res.Summaries), wantSlots)
	}
	if len(res.Details) != wantSlots {
		t.Errorf("Details has %d slots, want %d", len(res.Details), wantSlots)
	}
	if res.Outlook == nil {
		t.Error("Outlook slot empty")
	}

	key := Key{"Portsmouth", dates[0]}
	if got := res.Summaries[key].Text; got != "Drizzle starting in the afternoon. Max 22°C." {
		t.Errorf("summary = %q", got)
	}
	if got := res.Details[key].Text; got != "Sunny day. Max 22°C, feels like 19°C. Wind 13mph NW." {
		t.Errorf("detail = %q", got)
	}
}

func TestRun_AbsenceLeavesSlotMissing(t *testing.T) {
	cities := fakeCities(func(siteID string, date time.Time) (*models.ForecastDay, error) {
		if siteID == "353070" {
			return nil, fmt.Errorf("fetch: %w: status 503", metoffice.ErrUnavailable)
		}
		return happyCities(siteID, date)
	})
	p := New(fakeSummaries(happySummaries), cities, fakeOutlook(happyOutlook), testLocations)
	dates := testDates()

	res, err := p.Run(context.Background(), dates)
	if err != nil {
		t.Fatalf("absence must not fail the run: %v", err)
	}

	for _, date := range dates {
		if _, ok := res.Details[Key{"Brighton", date}]; ok {
			t.Error("Brighton detail slot should be missing")
		}
		if _, ok := res.Details[Key{"Portsmouth", date}]; !ok {
			t.Error("sibling Portsmouth slot affected by Brighton failure")
		}
	}
	if len(res.Summaries) != len(testLocations)*len(dates) {
		t.Errorf("summaries affected: %d slots", len(res.Summaries))
	}
}

func TestRun_DarkSkyAbsence(t *testing.T) {
	summaries := fakeSummaries(func(lat, lon float64) ([]models.ForecastDay, error) {
		return nil, fmt.Errorf("fetch: %w: connection refused", darksky.ErrUnavailable)
	})
	p := New(summaries, fakeCities(happyCities), fakeOutlook(happyOutlook), testLocations)
	dates := testDates()

	res, err := p.Run(context.Background(), dates)
	if err != nil {
		t.Fatalf("absence must not fail the run: %v", err)
	}
	if len(res.Summaries) != 0 {
		t.Errorf("expected no summary slots, got %d", len(res.Summaries))
	}
	if len(res.Details) != len(testLocations)*len(dates) {
		t.Errorf("details affected: %d slots", len(res.Details))
	}
}

func TestRun_SchemaBreakSurfacesAfterJoin(t *testing.T) {
	cities := fakeCities(func(siteID string, date time.Time) (*models.ForecastDay, error) {
		if siteID == "353595" {
			return nil, errors.New("site forecast missing SiteRep.DV.Location")
		}
		return happyCities(siteID, date)
	})
	p := New(fakeSummaries(happySummaries), cities, fakeOutlook(happyOutlook), testLocations)
	dates := testDates()

	res, err := p.Run(context.Background(), dates)
	if err == nil {
		t.Fatal("schema break must surface in the run error")
	}
	if !strings.Contains(err.Error(), "SiteRep.DV.Location") {
		t.Errorf("error = %v", err)
	}

	// Siblings still completed.
	if len(res.Details) != (len(testLocations)-1)*len(dates) {
		t.Errorf("details = %d slots", len(res.Details))
	}
	if len(res.Summaries) != len(testLocations)*len(dates) {
		t.Errorf("summaries = %d slots", len(res.Summaries))
	}
}

func TestRun_DateBeyondHorizon(t *testing.T) {
	p := New(fakeSummaries(happySummaries), fakeCities(happyCities), fakeOutlook(happyOutlook), testLocations)
	far := []time.Time{time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)}

	res, err := p.Run(context.Background(), far)
	if err != nil {
		t.Fatalf("out-of-horizon date must be treated as absence: %v", err)
	}
	if len(res.Summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(res.Summaries))
	}
}

func TestTargetDates(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []time.Time
	}{
		{
			name: "midweek",
			now:  time.Date(2017, 5, 29, 10, 0, 0, 0, time.UTC), // Monday
			want: []time.Time{time.Date(2017, 5, 30, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "friday covers the weekend",
			now:  time.Date(2017, 6, 2, 10, 0, 0, 0, time.UTC), // Friday
			want: []time.Time{
				time.Date(2017, 6, 3, 0, 0, 0, 0, time.UTC),
				time.Date(2017, 6, 4, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetDates(tt.now)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d dates, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("dates[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPublish(t *testing.T) {
	cities := fakeCities(func(siteID string, date time.Time) (*models.ForecastDay, error) {
		if siteID == "353070" || siteID == "353660" {
			return nil, fmt.Errorf("fetch: %w: status 503", metoffice.ErrUnavailable)
		}
		return happyCities(siteID, date)
	})
	summaries := fakeSummaries(func(lat, lon float64) ([]models.ForecastDay, error) {
		if lat == 51.0632 { // Winchester: both providers down
			return nil, fmt.Errorf("fetch: %w: timeout", darksky.ErrUnavailable)
		}
		return happySummaries(lat, lon)
	})

	p := New(summaries, cities, fakeOutlook(happyOutlook), testLocations)
	dates := testDates()[:1]

	res, err := p.Run(context.Background(), dates)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	p.Publish(res, dates, indesign.Writer{W: &b})
	out := b.String()

	for _, want := range []string{
		"Weather-Today: A dry, warm day.\n",
		"Weather-Outlook: Unsettled, rain at times.\n",
		"Weather-Portsmouth: Sunny day. Max 22°C, feels like 19°C. Wind 13mph NW.\n",
		// Brighton detail missing, falls back to the Dark Sky line.
		"Weather-Brighton: Drizzle starting in the afternoon. Max 22°C.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Winchester lost both providers, so its frame is skipped.
	if strings.Contains(out, "Weather-Winchester") {
		t.Errorf("Winchester frame should be skipped entirely:\n%s", out)
	}
}

func TestScheduler_RunIfDue(t *testing.T) {
	var runs int
	summaries := fakeSummaries(func(lat, lon float64) ([]models.ForecastDay, error) {
		return happySummaries(lat, lon)
	})
	outlook := fakeOutlook(func() (*models.Outlook, error) {
		runs++
		return happyOutlook()
	})

	p := New(summaries, fakeCities(happyCities), outlook, testLocations[:1])
	var b strings.Builder
	s := NewScheduler(p, indesign.Writer{W: &b}, time.UTC, 5)

	ctx := context.Background()

	s.runIfDue(ctx, time.Date(2017, 5, 29, 4, 59, 0, 0, time.UTC))
	if runs != 0 {
		t.Fatal("ran outside the publish hour")
	}

	s.runIfDue(ctx, time.Date(2017, 5, 29, 5, 10, 0, 0, time.UTC))
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}

	// Same day, same hour window: no second run.
	s.runIfDue(ctx, time.Date(2017, 5, 29, 5, 50, 0, 0, time.UTC))
	if runs != 1 {
		t.Fatalf("runs = %d after repeat tick, want 1", runs)
	}

	// Next day runs again.
	s.runIfDue(ctx, time.Date(2017, 5, 30, 5, 0, 0, 0, time.UTC))
	if runs != 2 {
		t.Fatalf("runs = %d next day, want 2", runs)
	}
}
