package darksky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppps/weatherdesk/internal/httputil"
	"github.com/ppps/weatherdesk/internal/metrics"
	"github.com/ppps/weatherdesk/internal/models"
)

// DefaultBaseURL is the production Dark Sky API host.
const DefaultBaseURL = "https://api.darksky.net"

// ErrUnavailable marks the expected failure modes: network trouble, a
// non-2xx status, or an undecodable body. Callers treat any error
// satisfying errors.Is(err, ErrUnavailable) as "no forecast today" and
// move on. Anything else is a contract break.
var ErrUnavailable = errors.New("darksky: forecast unavailable")

// Client fetches daily forecasts by coordinate pair.
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

type forecastResponse struct {
	Daily *struct {
		Summary string      `json:"summary"`
		Data    []dailyData `json:"data"`
	} `json:"daily"`
}

type dailyData struct {
	Time                   int64   `json:"time"`
	Summary                string  `json:"summary"`
	TemperatureMax         float64 `json:"temperatureMax"`
	ApparentTemperatureMax float64 `json:"apparentTemperatureMax"`
	WindSpeed              float64 `json:"windSpeed"`
	WindBearing            float64 `json:"windBearing"`
	Humidity               float64 `json:"humidity"`
	PrecipProbability      float64 `json:"precipProbability"`
}

// Daily performs one GET for the location and returns its daily
// forecasts. Each entry's Date is the UTC midnight carried in the
// response's epoch timestamps. The units=uk2 parameter gives Celsius
// temperatures and mph wind speeds.
func (c *Client) Daily(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error) {
	url := fmt.Sprintf("%s/forecast/%s/%.4f,%.4f?exclude=currently,minutely,hourly&lang=en&units=uk2",
		c.baseURL, c.apiKey, lat, lon)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", httputil.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderLatency.WithLabelValues("darksky").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("darksky", "transport_error").Inc()
		return nil, fmt.Errorf("fetch forecast: %w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderCallsTotal.WithLabelValues("darksky", fmt.Sprintf("http_%d", resp.StatusCode)).Inc()
		return nil, fmt.Errorf("fetch forecast: %w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("darksky", "read_error").Inc()
		return nil, fmt.Errorf("read body: %w: %w", ErrUnavailable, err)
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("darksky", "decode_error").Inc()
		return nil, fmt.Errorf("unmarshal: %w: %w", ErrUnavailable, err)
	}
	metrics.ProviderCallsTotal.WithLabelValues("darksky", "ok").Inc()

	// A 2xx body without the daily block means the API contract
	// changed; that is not an absence condition.
	if data.Daily == nil {
		return nil, fmt.Errorf("darksky response missing daily block")
	}

	days := make([]models.ForecastDay, 0, len(data.Daily.Data))
	for _, d := range data.Daily.Data {
		days = append(days, models.ForecastDay{
			Date:         time.Unix(d.Time, 0).UTC(),
			Summary:      d.Summary,
			TempMax:      d.TemperatureMax,
			FeelsLike:    d.ApparentTemperatureMax,
			WindSpeed:    d.WindSpeed,
			WindDeg:      d.WindBearing,
			Humidity:     d.Humidity * 100,
			PrecipChance: d.PrecipProbability * 100,
		})
	}
	return days, nil
}
