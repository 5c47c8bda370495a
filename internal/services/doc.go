// Package services defines shared utilities consumed by the provider clients
// and the aggregation facade.
//
// Key responsibilities:
//   - Context helpers that stamp operation names, provider names, and
//     correlation identifiers for logging.
//   - An outbound HTTP client that stamps the configured user agent.
//   - Structured error markers plus the Wrap helper that classify upstream
//     failures (transport, empty result, unexpected shape, cache) so the
//     facade can decide between fallback and giving up.
//
// Use these helpers when wiring new provider calls so failure classification
// and observability stay uniform across catalogs.
package services
