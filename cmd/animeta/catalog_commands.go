package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"animeta/internal/aggregator"
	"animeta/internal/catalog"
	"animeta/internal/genres"
	"animeta/internal/textutil"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var genre string
	var sortMode string
	var page int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by text and genre",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			query := aggregator.SearchQuery{
				Text:  strings.Join(args, " "),
				Genre: genre,
				Sort:  aggregator.SortMode(strings.ToLower(strings.TrimSpace(sortMode))),
				Page:  page,
			}
			return printMediaList(cmd, ctx, svc.Search(requestContext(cmd), query))
		},
	}
	cmd.Flags().StringVarP(&genre, "genre", "g", genres.All, "Genre filter (see `animeta genres`)")
	cmd.Flags().StringVarP(&sortMode, "sort", "s", string(aggregator.SortNewest), "Sort order: title, rating, or newest")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page")
	return cmd
}

func newDetailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <title>",
		Short: "Show the full record for the best title match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			media, ok := svc.DetailByTitle(requestContext(cmd), title)
			if !ok {
				return fmt.Errorf("no catalog entry matches %q", title)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, media)
			}
			printDetail(cmd.OutOrStdout(), media)
			return nil
		},
	}
}

type feedDef struct {
	use            string
	short          string
	defaultPerPage int
	fetch          func(svc *aggregator.Service, cmd *cobra.Command, page, perPage int) []catalog.Media
}

func newFeedCommands(ctx *commandContext) []*cobra.Command {
	defs := []feedDef{
		{
			use:            "trending",
			short:          "Show trending entries",
			defaultPerPage: aggregator.DefaultFeedPerPage,
			fetch: func(svc *aggregator.Service, cmd *cobra.Command, page, perPage int) []catalog.Media {
				return svc.Trending(requestContext(cmd), page, perPage)
			},
		},
		{
			use:            "seasonal",
			short:          "Show entries releasing this season",
			defaultPerPage: aggregator.DefaultFeedPerPage,
			fetch: func(svc *aggregator.Service, cmd *cobra.Command, page, perPage int) []catalog.Media {
				return svc.Seasonal(requestContext(cmd), page, perPage)
			},
		},
		{
			use:            "top",
			short:          "Show top-rated entries",
			defaultPerPage: aggregator.DefaultTopPerPage,
			fetch: func(svc *aggregator.Service, cmd *cobra.Command, page, perPage int) []catalog.Media {
				return svc.TopRated(requestContext(cmd), page, perPage)
			},
		},
	}

	commands := make([]*cobra.Command, 0, len(defs))
	for _, def := range defs {
		var page, perPage int
		cmd := &cobra.Command{
			Use:   def.use,
			Short: def.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := ctx.ensureService()
				if err != nil {
					return err
				}
				return printMediaList(cmd, ctx, def.fetch(svc, cmd, page, perPage))
			},
		}
		cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page")
		cmd.Flags().IntVarP(&perPage, "per-page", "n", def.defaultPerPage, "Results per page")
		commands = append(commands, cmd)
	}
	return commands
}

func newCountCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Report the catalog size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			var total int
			if refresh {
				total = svc.RefreshTotalCount(requestContext(cmd))
			} else {
				total = svc.TotalCount(requestContext(cmd))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"total": total, "display": textutil.FormatCount(total)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s titles (%d)\n", textutil.FormatCount(total), total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the cached count and probe the catalogs")
	return cmd
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <jikan-id>",
		Short: "Report the episode count known to the secondary catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return errors.New("id must be a positive integer")
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			count, known := svc.EpisodeCount(requestContext(cmd), id)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"id": id, "episodes": count, "known": known})
			}
			if !known {
				fmt.Fprintf(cmd.OutOrStdout(), "Episode count for %d is unknown\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d episodes\n", count)
			return nil
		},
	}
}

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "genres",
		Short:       "List the genres accepted by search",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			names := genres.Names()
			if ctx.jsonOutput() {
				return writeJSON(cmd, names)
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				genre, _ := genres.Lookup(name)
				rows = append(rows, []string{genre.Name, strconv.Itoa(genre.JikanID), yesNo(genre.Adult)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]columnSpec{{header: "Genre"}, {header: "Jikan ID", right: true}, {header: "Adult"}}, rows))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
