package portfolio

import (
	"fmt"
	"slices"

	"github.com/MisterReally/portfolios-1/date"
	"gonum.org/v1/gonum/stat"
)

// Stats is the summary-statistics snapshot of a price series. All six values
// are derived together from the full series; they are never updated
// incrementally or individually.
type Stats struct {
	Last   float64 // most recent close
	Min    float64 // series minimum close
	Max    float64 // series maximum close
	Median float64
	Mean   float64
	Std    float64 // population standard deviation
}

// Instrument is a tradable security: a ticker identity plus its daily close
// series and the statistics snapshot computed at load time.
type Instrument struct {
	ticker string
	series date.History[float64]
	stats  Stats
}

// LoadInstrument fetches the full close series for ticker within r from the
// price source and computes the statistics snapshot.
//
// It fails with ErrDataUnavailable when no series can be retrieved; the
// underlying cause (ErrUnknownTicker or ErrSourceUnavailable) stays on the
// error chain.
func LoadInstrument(src PriceSource, ticker string, r date.Range) (*Instrument, error) {
	inst := &Instrument{ticker: ticker}
	if err := inst.Reload(src, r); err != nil {
		return nil, err
	}
	return inst, nil
}

// Reload replaces the instrument's series with a fresh fetch and recomputes
// the whole statistics snapshot. On error the instrument is left unchanged:
// the series and all six statistics change together or not at all.
func (inst *Instrument) Reload(src PriceSource, r date.Range) error {
	bars, err := src.Daily(inst.ticker, r.From, r.To)
	if err != nil {
		return fmt.Errorf("loading %s: %w: %w", inst.ticker, ErrDataUnavailable, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("loading %s: %w: empty series in %s", inst.ticker, ErrDataUnavailable, r)
	}

	var series date.History[float64]
	for _, bar := range bars {
		series.Append(bar.Date, bar.Close)
	}
	inst.series = series
	inst.stats = computeStats(&series)
	return nil
}

// computeStats derives the six summary statistics from the entire series in
// one pass over its closes.
func computeStats(series *date.History[float64]) Stats {
	closes := make([]float64, 0, series.Len())
	for _, c := range series.Values() {
		closes = append(closes, c)
	}

	sorted := slices.Clone(closes)
	slices.Sort(sorted)

	_, last := series.Latest()
	return Stats{
		Last:   last,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
		Mean:   stat.Mean(closes, nil),
		Std:    stat.PopStdDev(closes, nil),
	}
}

// median returns the middle element of a sorted slice, or the mean of the two
// central elements for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Ticker returns the instrument's ticker symbol.
func (inst *Instrument) Ticker() string { return inst.ticker }

// Stats returns the statistics snapshot computed at load time.
func (inst *Instrument) Stats() Stats { return inst.stats }

// Last returns the most recent close of the loaded series.
func (inst *Instrument) Last() float64 { return inst.stats.Last }

func (inst *Instrument) Min() float64    { return inst.stats.Min }
func (inst *Instrument) Max() float64    { return inst.stats.Max }
func (inst *Instrument) Median() float64 { return inst.stats.Median }
func (inst *Instrument) Mean() float64   { return inst.stats.Mean }
func (inst *Instrument) Std() float64    { return inst.stats.Std }

// Series returns the loaded close series.
func (inst *Instrument) Series() *date.History[float64] { return &inst.series }

// PriceAt returns the close on the latest series date on or before day.
// It fails with ErrNoPriceBeforeDate when the series starts after day.
func (inst *Instrument) PriceAt(day date.Date) (float64, error) {
	price, ok := inst.series.AsOf(day)
	if !ok {
		first, _ := inst.series.First()
		return 0, fmt.Errorf("%s on %s: %w (series starts %s)", inst.ticker, day, ErrNoPriceBeforeDate, first)
	}
	return price, nil
}
