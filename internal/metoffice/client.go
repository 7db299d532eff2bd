package metoffice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ppps/weatherdesk/internal/dateutil"
	"github.com/ppps/weatherdesk/internal/htmlutil"
	"github.com/ppps/weatherdesk/internal/httputil"
	"github.com/ppps/weatherdesk/internal/metrics"
	"github.com/ppps/weatherdesk/internal/models"
)

const (
	// DefaultBaseURL is the production DataPoint host.
	DefaultBaseURL = "http://datapoint.metoffice.gov.uk"

	// RegionID identifies the regional text forecast we publish.
	RegionID = "515"
)

// ErrUnavailable marks the expected failure modes (network trouble,
// non-2xx status, undecodable body). Schema breaks are ordinary errors.
var ErrUnavailable = errors.New("metoffice: forecast unavailable")

// Client fetches the regional text outlook and per-site daily
// forecasts from the Met Office DataPoint API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a client against the given API host. Tests point this at
// an httptest server.
func New(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httputil.NewClient(),
	}
}

// NewClient creates a client against the production host.
func NewClient(apiKey string) *Client {
	return New(apiKey, DefaultBaseURL)
}

// get performs one instrumented GET and returns the body and the
// Last-Modified header. All expected failures come back wrapping
// ErrUnavailable.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", httputil.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderLatency.WithLabelValues("metoffice").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("metoffice", "transport_error").Inc()
		return nil, "", fmt.Errorf("fetch: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderCallsTotal.WithLabelValues("metoffice", fmt.Sprintf("http_%d", resp.StatusCode)).Inc()
		return nil, "", fmt.Errorf("fetch: %w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("metoffice", "read_error").Inc()
		return nil, "", fmt.Errorf("read body: %w: %w", ErrUnavailable, err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("metoffice", "ok").Inc()

	return body, resp.Header.Get("Last-Modified"), nil
}

// paragraph is one item of a period's text. DataPoint encodes a
// single paragraph as an object and several as an array, so the list
// type tolerates both.
type paragraph struct {
	Title string `json:"title"`
	Text  string `json:"$"`
}

type paragraphList []paragraph

func (p *paragraphList) UnmarshalJSON(b []byte) error {
	var many []paragraph
	if err := json.Unmarshal(b, &many); err == nil {
		*p = many
		return nil
	}
	var one paragraph
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*p = paragraphList{one}
	return nil
}

type outlookResponse struct {
	RegionalFcst *struct {
		IssuedAt    string `json:"issuedAt"`
		FcstPeriods *struct {
			Period []outlookPeriod `json:"Period"`
		} `json:"FcstPeriods"`
	} `json:"RegionalFcst"`
}

type outlookPeriod struct {
	ID        string        `json:"id"`
	Paragraph paragraphList `json:"Paragraph"`
}

// Outlook fetches the regional text forecast: the "today" paragraph
// from the day1to2 period and the single day3to5 paragraph. A missing
// period or paragraph is a contract break and fails loudly.
func (c *Client) Outlook(ctx context.Context) (*models.Outlook, error) {
	url := fmt.Sprintf("%s/public/data/txt/wxfcs/regionalforecast/json/%s?key=%s",
		c.baseURL, RegionID, c.apiKey)

	body, lastModified, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var data outlookResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal outlook: %w: %w", ErrUnavailable, err)
	}

	if data.RegionalFcst == nil || data.RegionalFcst.FcstPeriods == nil {
		return nil, fmt.Errorf("outlook response missing RegionalFcst.FcstPeriods")
	}

	outlook := &models.Outlook{}
	if lastModified != "" {
		// Best effort; the panel works without an issue time.
		if issued, err := dateutil.ParseHTTPDate(lastModified); err == nil {
			outlook.IssuedAt = issued
		}
	}

	for _, period := range data.RegionalFcst.FcstPeriods.Period {
		switch period.ID {
		case "day1to2":
			// Paragraphs run headline, today, tonight, ...
			if len(period.Paragraph) < 3 {
				return nil, fmt.Errorf("day1to2 period has %d paragraphs, want at least 3", len(period.Paragraph))
			}
			outlook.TodayText = htmlutil.ToText(period.Paragraph[2].Text)
		case "day3to5":
			if len(period.Paragraph) == 0 {
				return nil, fmt.Errorf("day3to5 period has no paragraph")
			}
			outlook.ThreeToFive = htmlutil.ToText(period.Paragraph[0].Text)
		}
	}

	if outlook.TodayText == "" {
		return nil, fmt.Errorf("outlook response missing day1to2 period")
	}
	if outlook.ThreeToFive == "" {
		return nil, fmt.Errorf("outlook response missing day3to5 period")
	}
	return outlook, nil
}

// rep is one daypart record. DataPoint sends every value as a string.
type rep struct {
	Part string `json:"$"` // "Day" or "Night"
	W    string `json:"W"`
	Dm   string `json:"Dm"`
	FDm  string `json:"FDm"`
	S    string `json:"S"`
	D    string `json:"D"`
	Hn   string `json:"Hn"`
	PPd  string `json:"PPd"`
}

type repList []rep

func (r *repList) UnmarshalJSON(b []byte) error {
	var many []rep
	if err := json.Unmarshal(b, &many); err == nil {
		*r = many
		return nil
	}
	var one rep
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*r = repList{one}
	return nil
}

type sitePeriod struct {
	Type  string  `json:"type"`
	Value string  `json:"value"`
	Rep   repList `json:"Rep"`
}

type periodList []sitePeriod

func (p *periodList) UnmarshalJSON(b []byte) error {
	var many []sitePeriod
	if err := json.Unmarshal(b, &many); err == nil {
		*p = many
		return nil
	}
	var one sitePeriod
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*p = periodList{one}
	return nil
}

type siteRepResponse struct {
	SiteRep *struct {
		DV *struct {
			Location *struct {
				Period periodList `json:"Period"`
			} `json:"Location"`
		} `json:"DV"`
	} `json:"SiteRep"`
}

// Daily fetches the numeric forecast for one site and date and returns
// the daytime record. Missing nesting or a missing Day rep means the
// API contract changed and fails loudly.
func (c *Client) Daily(ctx context.Context, siteID string, date time.Time) (*models.ForecastDay, error) {
	day := dateutil.Midnight(date.UTC())
	url := fmt.Sprintf("%s/public/data/val/wxfcs/all/json/%s?res=daily&time=%sT00:00:00Z&key=%s",
		c.baseURL, siteID, day.Format("2006-01-02"), c.apiKey)

	body, _, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var data siteRepResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal site forecast: %w: %w", ErrUnavailable, err)
	}

	if data.SiteRep == nil || data.SiteRep.DV == nil || data.SiteRep.DV.Location == nil {
		return nil, fmt.Errorf("site forecast missing SiteRep.DV.Location")
	}

	for _, period := range data.SiteRep.DV.Location.Period {
		for _, r := range period.Rep {
			if r.Part != "Day" {
				continue
			}
			return buildDay(day, r)
		}
	}
	return nil, fmt.Errorf("site forecast for %s has no Day rep", siteID)
}

func buildDay(date time.Time, r rep) (*models.ForecastDay, error) {
	code, err := strconv.Atoi(r.W)
	if err != nil {
		return nil, fmt.Errorf("parse weather type %q: %w", r.W, err)
	}
	tempMax, err := strconv.ParseFloat(r.Dm, 64)
	if err != nil {
		return nil, fmt.Errorf("parse day max %q: %w", r.Dm, err)
	}
	feels, err := strconv.ParseFloat(r.FDm, 64)
	if err != nil {
		return nil, fmt.Errorf("parse feels-like %q: %w", r.FDm, err)
	}
	wind, err := strconv.ParseFloat(r.S, 64)
	if err != nil {
		return nil, fmt.Errorf("parse wind speed %q: %w", r.S, err)
	}
	humidity, err := strconv.ParseFloat(r.Hn, 64)
	if err != nil {
		return nil, fmt.Errorf("parse humidity %q: %w", r.Hn, err)
	}
	precip, err := strconv.ParseFloat(r.PPd, 64)
	if err != nil {
		return nil, fmt.Errorf("parse precip chance %q: %w", r.PPd, err)
	}

	return &models.ForecastDay{
		Date:         date,
		Summary:      WeatherText(code),
		TempMax:      tempMax,
		FeelsLike:    feels,
		WindSpeed:    wind,
		WindDir:      r.D,
		Humidity:     humidity,
		PrecipChance: precip,
		WeatherType:  code,
	}, nil
}
