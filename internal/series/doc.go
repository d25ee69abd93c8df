// Package series synthesizes a "price boom" price series and packs it into
// OHLC bars: progressive random walks, baseline shaping, regime blending,
// time mapping and fixed-width bucket aggregation.
//
// Everything here is pure and in-memory. Timestamps are milliseconds.
package series
