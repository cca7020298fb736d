// Package portfolio tracks ownership and cash-flow history of a collection
// of tradable securities and derives point-in-time valuation and return
// metrics.
//
// The core functionalities include:
//   - Ledger: an append-only record of cash movements, trades and dividend
//     payments. Events are never edited or removed; every derived figure is
//     recomputed from the raw logs.
//   - Aggregation: pure functions that collapse the ledger plus current
//     market prices into per-ticker rows and portfolio totals, in two modes:
//     an overview of currently held positions and a full history of every
//     position ever traded.
//   - Instruments: per-ticker daily price series with a snapshot of summary
//     statistics (last, min, max, median, mean, standard deviation) computed
//     once at load time.
//   - Orchestration: the Portfolio type wires user actions (deposit,
//     withdraw, buy, sell, dividend) to ledger appends and cash bookkeeping,
//     and owns the set of currently held instruments.
//
// Market data comes from a PriceSource implementation; the yahoo subpackage
// provides one backed by the Yahoo chart API with a local CSV cache. The
// `pfs` command-line tool operates on a JSONL-persisted ledger.
package portfolio
