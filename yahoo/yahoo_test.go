package yahoo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	portfolio "github.com/MisterReally/portfolios-1"
	"github.com/MisterReally/portfolios-1/date"
)

var (
	day1 = date.New(2025, time.January, 13)
	day2 = date.New(2025, time.January, 14)
)

// chartPayload renders a minimal two-day chart API response.
func chartPayload() string {
	return fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%d,%d],
		"indicators":{"quote":[{
			"open":[99.5,101.0],
			"high":[101.0,103.0],
			"low":[99.0,100.5],
			"close":[100.0,102.5],
			"volume":[1000,2000]
		}]}
	}],"error":null}}`, day1.Unix(), day2.Unix())
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(t.TempDir())
	c.HTTP = srv.Client()
	c.BaseURL = srv.URL
	return c
}

func TestSeries_RemoteThenCache(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, chartPayload())
	})

	series, err := c.Series("ABC", day1, day2)
	require.NoError(t, err)
	require.Equal(t, FromRemote, series.Origin)
	require.Len(t, series.Bars, 2)
	require.Equal(t, day1, series.Bars[0].Date)
	require.Equal(t, 100.0, series.Bars[0].Close)
	require.Equal(t, 102.5, series.Bars[1].Close)
	require.Equal(t, int64(2000), series.Bars[1].Volume)
	require.Equal(t, 1, calls)

	// The second fetch is served from the CSV cache, byte-identical bars.
	cached, err := c.Series("ABC", day1, day2)
	require.NoError(t, err)
	require.Equal(t, FromCache, cached.Origin)
	require.Equal(t, series.Bars, cached.Bars)
	require.Equal(t, 1, calls, "the cache hit must not touch the network")
}

func TestSeries_CacheIgnoresOutOfRangeBars(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload())
	})

	_, err := c.Series("ABC", day1, day2)
	require.NoError(t, err)

	// A narrower window served from cache only keeps matching bars.
	series, err := c.Series("ABC", day2, day2)
	require.NoError(t, err)
	require.Equal(t, FromCache, series.Origin)
	require.Len(t, series.Bars, 1)
	require.Equal(t, day2, series.Bars[0].Date)
}

func TestDaily_ImplementsPriceSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload())
	})

	var src portfolio.PriceSource = c
	bars, err := src.Daily("ABC", day1, day2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
}

func TestFetch_NotFoundIsUnknownTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Series("NOPE", day1, day2)
	require.ErrorIs(t, err, portfolio.ErrUnknownTicker)
}

func TestFetch_InBandErrorIsUnknownTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := c.Series("DELISTED", day1, day2)
	require.ErrorIs(t, err, portfolio.ErrUnknownTicker)
}

func TestFetch_ServerErrorIsSourceUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.Series("ABC", day1, day2)
	require.ErrorIs(t, err, portfolio.ErrSourceUnavailable)
}

func TestLatestClose(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload())
	})

	last, err := c.LatestClose("ABC")
	require.NoError(t, err)
	require.Equal(t, 102.5, last)
}
