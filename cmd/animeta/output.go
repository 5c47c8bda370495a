package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"animeta/internal/catalog"
	"animeta/internal/textutil"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var mediaColumns = []columnSpec{
	{header: "ID", right: true},
	{header: "Title", maxWidth: 48},
	{header: "Format"},
	{header: "Status"},
	{header: "Eps", right: true},
	{header: "Score", right: true},
	{header: "Year", right: true},
	{header: "Genres", maxWidth: 36},
	{header: "Source"},
}

func mediaRows(media []catalog.Media) [][]string {
	rows := make([][]string, 0, len(media))
	for _, m := range media {
		rows = append(rows, []string{
			strconv.Itoa(m.ID),
			m.Title,
			m.Format,
			statusLabel(m.Status),
			episodesLabel(m),
			scoreLabel(m.Score),
			yearLabel(m.Year),
			strings.Join(m.Genres, ", "),
			string(m.Provenance),
		})
	}
	return rows
}

func printMediaList(cmd *cobra.Command, ctx *commandContext, media []catalog.Media) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, media)
	}
	out := cmd.OutOrStdout()
	if len(media) == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	fmt.Fprintln(out, renderTable(mediaColumns, mediaRows(media)))
	return nil
}

func printDetail(out io.Writer, m catalog.Media) {
	fmt.Fprintln(out, m.Title)
	if m.NativeTitle != "" && m.NativeTitle != m.Title {
		fmt.Fprintf(out, "  %s\n", m.NativeTitle)
	}
	fmt.Fprintln(out)
	fields := [][2]string{
		{"Format", m.Format},
		{"Status", statusLabel(m.Status)},
		{"Episodes", episodesLabel(m)},
		{"Duration", durationLabel(m.DurationMinutes)},
		{"Season", seasonLabel(m)},
		{"Score", scoreLabel(m.Score)},
		{"Genres", strings.Join(m.Genres, ", ")},
		{"Studios", strings.Join(m.Studios, ", ")},
		{"Trailer", m.TrailerURL},
		{"Source", fmt.Sprintf("%s #%d", m.Provenance, m.ID)},
	}
	if m.Adult {
		fields = append(fields, [2]string{"Rating", "adult"})
	}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			continue
		}
		fmt.Fprintf(out, "%-9s %s\n", f[0]+":", f[1])
	}
	if synopsis := m.PlainSynopsis(); synopsis != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, synopsis)
	}
	if len(m.Relations) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(m.Relations))
		for _, rel := range m.Relations {
			rows = append(rows, []string{enumLabel(rel.Kind), rel.Title, rel.Format})
		}
		fmt.Fprintln(out, renderTable([]columnSpec{{header: "Relation"}, {header: "Title", maxWidth: 48}, {header: "Format"}}, rows))
	}
	if len(m.Recommendations) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recommended:")
		rows := make([][]string, 0, len(m.Recommendations))
		for _, rec := range m.Recommendations {
			rows = append(rows, []string{strconv.Itoa(rec.ID), rec.Title, scoreLabel(rec.Score)})
		}
		fmt.Fprintln(out, renderTable([]columnSpec{{header: "ID", right: true}, {header: "Title", maxWidth: 48}, {header: "Score", right: true}}, rows))
	}
}

func statusLabel(status catalog.Status) string {
	if status == "" || status == catalog.StatusUnknown {
		return "-"
	}
	return enumLabel(string(status))
}

func enumLabel(value string) string {
	return textutil.TitleCase(strings.ReplaceAll(value, "_", " "))
}

func episodesLabel(m catalog.Media) string {
	if !m.EpisodesKnown() {
		return "?"
	}
	return strconv.Itoa(m.EpisodeCount)
}

func scoreLabel(score int) string {
	if score <= 0 {
		return "-"
	}
	return strconv.Itoa(score)
}

func yearLabel(year int) string {
	if year <= 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

func durationLabel(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", minutes)
}

func seasonLabel(m catalog.Media) string {
	switch {
	case m.Season != "" && m.Year > 0:
		return fmt.Sprintf("%s %d", textutil.TitleCase(m.Season), m.Year)
	case m.Year > 0:
		return strconv.Itoa(m.Year)
	default:
		return ""
	}
}
