package main

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"animeta/internal/aggregator"
	"animeta/internal/catalog"
	"animeta/internal/textutil"
)

type discoverResult struct {
	Total    int             `json:"total"`
	Trending []catalog.Media `json:"trending"`
	Seasonal []catalog.Media `json:"seasonal"`
	TopRated []catalog.Media `json:"topRated"`
}

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Show catalog size with trending, seasonal, and top-rated highlights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			result := loadDiscover(cmd, svc)
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s titles\n", textutil.FormatCount(result.Total))
			sections := []struct {
				title string
				media []catalog.Media
			}{
				{"Trending", result.Trending},
				{"This season", result.Seasonal},
				{"Top rated", result.TopRated},
			}
			for _, section := range sections {
				fmt.Fprintf(out, "\n%s\n", section.title)
				media := section.media
				if limit > 0 && len(media) > limit {
					media = media[:limit]
				}
				if len(media) == 0 {
					fmt.Fprintln(out, "No results")
					continue
				}
				fmt.Fprintln(out, renderTable(mediaColumns, mediaRows(media)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Rows to show per section (0 for all)")
	return cmd
}

// loadDiscover fetches the four discover sections concurrently.
func loadDiscover(cmd *cobra.Command, svc *aggregator.Service) discoverResult {
	ctx := requestContext(cmd)
	var result discoverResult

	p := pool.New().WithMaxGoroutines(4)
	p.Go(func() { result.Total = svc.TotalCount(ctx) })
	p.Go(func() { result.Trending = svc.Trending(ctx, 1, aggregator.DefaultFeedPerPage) })
	p.Go(func() { result.Seasonal = svc.Seasonal(ctx, 1, aggregator.DefaultFeedPerPage) })
	p.Go(func() { result.TopRated = svc.TopRated(ctx, 1, aggregator.DefaultTopPerPage) })
	p.Wait()

	return result
}
