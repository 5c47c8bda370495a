// Package textutil provides small text helpers shared by the catalog
// normalizer, the genre index, and the CLI.
//
// The primary use cases are:
//   - Unicode case folding for case-insensitive lookups
//   - Stripping HTML markup from provider synopses
//   - Deriving stable pseudo-numeric identifiers from titles
//   - Compact display of large counts ("18k")
package textutil
