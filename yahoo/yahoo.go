// Package yahoo implements a portfolio.PriceSource backed by the Yahoo
// chart API, with a local per-ticker CSV cache of daily bars.
package yahoo

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	portfolio "github.com/MisterReally/portfolios-1"
	"github.com/MisterReally/portfolios-1/date"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Origin tags where a series came from, so a cache miss that fell through
// to the network is visible to the caller instead of being silently merged.
type Origin int

const (
	FromCache Origin = iota
	FromRemote
)

func (o Origin) String() string {
	switch o {
	case FromCache:
		return "cache"
	case FromRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Series is a fetched daily series together with its origin. When the cache
// path failed before the remote fetch succeeded, CacheErr records why.
type Series struct {
	Bars     []portfolio.Bar
	Origin   Origin
	CacheErr error
}

// Client fetches daily bars from the Yahoo chart API and keeps a CSV cache
// file per ticker under CacheDir.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	CacheDir string
	Log      zerolog.Logger
}

// New returns a client caching under cacheDir.
func New(cacheDir string) *Client {
	return &Client{
		HTTP:     http.DefaultClient,
		BaseURL:  defaultBaseURL,
		CacheDir: cacheDir,
		Log:      zerolog.Nop(),
	}
}

var _ portfolio.PriceSource = (*Client)(nil)

// Daily implements portfolio.PriceSource.
func (c *Client) Daily(ticker string, from, to date.Date) ([]portfolio.Bar, error) {
	series, err := c.Series(ticker, from, to)
	if err != nil {
		return nil, err
	}
	return series.Bars, nil
}

// Series returns the daily bars for ticker within [from, to] with their
// origin: the local CSV cache is tried first, then the chart API. When both
// paths fail the two errors are joined.
func (c *Client) Series(ticker string, from, to date.Date) (Series, error) {
	bars, cacheErr := c.readCache(ticker, from, to)
	if cacheErr == nil {
		c.Log.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("series from cache")
		return Series{Bars: bars, Origin: FromCache}, nil
	}

	bars, remoteErr := c.fetch(ticker, from, to)
	if remoteErr != nil {
		return Series{}, fmt.Errorf("fetching %s: %w", ticker, errors.Join(remoteErr, cacheErr))
	}
	if err := c.writeCache(ticker, bars); err != nil {
		c.Log.Warn().Str("ticker", ticker).Err(err).Msg("cache write failed (ignored)")
	}
	c.Log.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("series from remote")
	return Series{Bars: bars, Origin: FromRemote, CacheErr: cacheErr}, nil
}

// LatestClose implements portfolio.PriceSource. It returns the close of the
// most recent daily bar of the last week.
func (c *Client) LatestClose(ticker string) (float64, error) {
	today := date.Today()
	bars, err := c.fetch(ticker, today.Add(-7), today)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no recent bars for %s: %w", ticker, portfolio.ErrSourceUnavailable)
	}
	return bars[len(bars)-1].Close, nil
}

// chartResponse is the relevant subset of the Yahoo v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetch(ticker string, from, to date.Date) ([]portfolio.Bar, error) {
	// period2 is exclusive, push it one day past 'to' to keep bounds inclusive.
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.BaseURL, ticker, from.Unix(), to.Add(1).Unix())

	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", portfolio.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", "curl/8")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", portfolio.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	c.Log.Debug().Str("ticker", ticker).Str("status", resp.Status).Msg("chart API")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", ticker, portfolio.ErrUnknownTicker)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: chart API returned %s", portfolio.ErrSourceUnavailable, resp.Status)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding chart payload: %w", portfolio.ErrSourceUnavailable, err)
	}
	if payload.Chart.Error != nil {
		// Yahoo reports unknown symbols in-band.
		return nil, fmt.Errorf("%s (%s): %w", ticker, payload.Chart.Error.Code, portfolio.ErrUnknownTicker)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: empty chart result: %w", ticker, portfolio.ErrUnknownTicker)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]portfolio.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		bars = append(bars, portfolio.Bar{
			Date:   date.FromUnix(ts),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  quote.Close[i],
			Volume: atInt(quote.Volume, i),
		})
	}
	return bars, nil
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func atInt(s []int64, i int) int64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func (c *Client) cachePath(ticker string) string {
	return filepath.Join(c.CacheDir, ticker+".csv")
}

// readCache loads the cached CSV series for ticker and keeps the bars
// falling within [from, to]. An empty result is an error, so the caller
// falls through to the remote fetch.
func (c *Client) readCache(ticker string, from, to date.Date) ([]portfolio.Bar, error) {
	f, err := os.Open(c.cachePath(ticker))
	if err != nil {
		return nil, fmt.Errorf("cache miss for %s: %w", ticker, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("corrupt cache for %s: %w", ticker, err)
	}

	window := date.NewRange(from, to)
	bars := make([]portfolio.Bar, 0, len(records))
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 6 {
			return nil, fmt.Errorf("corrupt cache for %s: %d fields on line %d", ticker, len(rec), i+1)
		}
		day, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("corrupt cache for %s: %w", ticker, err)
		}
		if !window.Contains(day) {
			continue
		}
		open, _ := strconv.ParseFloat(rec[1], 64)
		high, _ := strconv.ParseFloat(rec[2], 64)
		low, _ := strconv.ParseFloat(rec[3], 64)
		closePrice, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cache for %s: %w", ticker, err)
		}
		volume, _ := strconv.ParseInt(rec[5], 10, 64)
		bars = append(bars, portfolio.Bar{
			Date: day, Open: open, High: high, Low: low, Close: closePrice, Volume: volume,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("cache for %s has no bars in %s", ticker, window)
	}
	return bars, nil
}

// writeCache persists the fetched bars as the ticker's CSV cache file.
func (c *Client) writeCache(ticker string, bars []portfolio.Bar) error {
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(c.cachePath(ticker))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"}); err != nil {
		return err
	}
	for _, bar := range bars {
		rec := []string{
			bar.Date.String(),
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
