// Package rates integrates with the forward-curve service that supplies
// floating-rate projections.
package rates

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/dunphycap/crecast/pkg/constants"
	"go.uber.org/zap"
)

// Curve maps month-start dates (2006-01) to annual rates in decimal form.
type Curve map[string]float64

// Rate returns the rate for the given month and whether the curve covers it.
func (c Curve) Rate(month string) (float64, bool) {
	rate, ok := c[month]
	return rate, ok
}

// curveDocument is the JSON payload returned by the rate service.
type curveDocument struct {
	CurveDate string `json:"CurveDate"`
	Rates     []struct {
		Date string  `json:"Date"`
		Rate float64 `json:"Rate"`
	} `json:"Rates"`
}

// Client fetches the forward curve over HTTP and memoizes it. The curve is
// fetched at most once per refresh interval; a failed fetch degrades to the
// previously cached curve, or an empty one, with a warning.
type Client struct {
	url     string
	refresh time.Duration
	client  *http.Client
	logger  *zap.Logger

	cached    Curve
	fetchedAt time.Time
	now       func() time.Time
}

// NewClient initializes a curve client. A zero refresh interval means the
// curve is fetched once per process lifetime.
func NewClient(url string, refresh time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if url == "" {
		url = constants.DefaultCurveURL
	}
	return &Client{
		url:     url,
		refresh: refresh,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}
}

// MonthlyRates returns the monthly forward curve, fetching it if the cache is
// empty or stale. Fetch and parse failures are not fatal: the cached curve
// (or an empty one) is returned so downstream calculations can proceed with
// zero-rate fallbacks.
func (c *Client) MonthlyRates() Curve {
	if c.cached != nil {
		if c.refresh == 0 || c.now().Sub(c.fetchedAt) < c.refresh {
			return c.cached
		}
	}

	curve, err := c.fetch()
	if err != nil {
		c.logger.Warn("failed to refresh forward curve, falling back",
			zap.String("op", "rates.MonthlyRates"),
			zap.String("url", c.url),
			zap.Error(err),
		)
		if c.cached == nil {
			c.cached = Curve{}
		}
		return c.cached
	}

	c.cached = curve
	c.fetchedAt = c.now()
	return c.cached
}

func (c *Client) fetch() (Curve, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var doc curveDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse curve document: %w", err)
	}

	curve, err := monthlyFromDaily(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched forward curve",
		zap.String("op", "rates.fetch"),
		zap.String("curveDate", doc.CurveDate),
		zap.Int("months", len(curve)),
	)
	return curve, nil
}

// monthlyFromDaily downsamples the service's daily projections to one rate per
// month: the last observation within each month, keyed by that month's start.
// Service rates are percentages and are converted to decimals here.
func monthlyFromDaily(doc curveDocument) (Curve, error) {
	type observation struct {
		date time.Time
		rate float64
	}

	observations := make([]observation, 0, len(doc.Rates))
	for _, entry := range doc.Rates {
		t, err := parseCurveDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse curve date %q: %w", entry.Date, err)
		}
		observations = append(observations, observation{date: t, rate: entry.Rate})
	}
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].date.Before(observations[j].date)
	})

	curve := make(Curve)
	for _, obs := range observations {
		month := obs.date.Format(constants.DateTimeLayout)
		// Later observations in the same month overwrite earlier ones.
		curve[month] = obs.rate / constants.PercentageMultiplier
	}
	return curve, nil
}

func parseCurveDate(date string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05",
		constants.FullDateLayout,
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, date)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
