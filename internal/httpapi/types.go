package httpapi

import "animeta/internal/catalog"

// CountResponse reports the catalog size.
type CountResponse struct {
	Total   int    `json:"total"`
	Display string `json:"display"`
}

// ListResponse wraps a page of records.
type ListResponse struct {
	Items []catalog.Media `json:"items"`
	Page  int             `json:"page"`
}

// DetailResponse wraps a single record.
type DetailResponse struct {
	Item catalog.Media `json:"item"`
}

// EpisodesResponse reports a secondary catalog episode count.
type EpisodesResponse struct {
	ID       int  `json:"id"`
	Episodes int  `json:"episodes"`
	Known    bool `json:"known"`
}

// GenresResponse lists the canonical genre names.
type GenresResponse struct {
	Genres []string `json:"genres"`
}
