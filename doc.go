// Package portfolio reconstructs dense daily time series from sparse market
// observations and derives events from them.
//
// The package is a stateless engine. Callers fetch and decode their inputs
// (transactions, closing prices, moving-average rows) and hand them over as
// plain slices; every function returns newly allocated results and never
// mutates its arguments.
//
// The main entry points are:
//   - Densify, DensifyRows and DensifyPrices: forward-fill an irregular series
//     into one entry per calendar day.
//   - NewPositionLedger: fold signed trades into per-instrument daily deltas.
//   - Valuate and ValuationCurve: the aggregate value of tracked positions on
//     every trade or price date.
//   - DetectCrossovers and RowCrossovers: bullish and bearish crossings of a
//     short and a long moving average.
//
// Memo provides caller-owned, single-flight memoization keyed by a Fingerprint
// of the inputs.
package portfolio
