// Package catalog defines the canonical media record and the normalizers that
// build it from each provider's raw response.
//
// FromAniList and FromJikan are total functions: any decoded provider value
// produces a record. Scores are rescaled to 0-100, relation edges are
// filtered to narratively meaningful kinds, and an episode count of 0 always
// means "unknown". Records are plain values safe to cache and compare.
package catalog
