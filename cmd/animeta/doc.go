// Command animeta queries the aggregated anime catalog from the terminal.
//
// Every catalog command goes through the aggregation facade, so results
// are cached and fall back to the secondary catalog exactly as they would
// for any other consumer. The serve command exposes the same operations
// over HTTP.
package main
