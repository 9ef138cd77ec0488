package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/reader"
	"github.com/sonnes/bellhop/reader/file"
)

// reportRow is the outcome for one conversation in a report.
type reportRow struct {
	ID      string          `json:"id"`
	Hotel   string          `json:"hotel,omitempty"`
	Metrics *metrics.Record `json:"metrics,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// reportTotals aggregates the rows that produced metrics.
type reportTotals struct {
	Conversations          int                      `json:"conversations"`
	Failed                 int                      `json:"failed"`
	Messages               int                      `json:"messages"`
	AvgResponseTimeSeconds float64                  `json:"avgResponseTimeSeconds"`
	Categories             map[metrics.Category]int `json:"categories"`
}

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Compute metrics for many conversations",
		Description: `Fetches each conversation concurrently and prints one row of metrics per
conversation plus totals. With --source file and no --id, every export in
--dir is included. Conversations over the API rate limit become error rows
unless --wait is set.`,
		Flags: flags(
			[]cli.Flag{
				&cli.StringSliceFlag{
					Name:  "id",
					Usage: "Conversation ID (repeatable)",
				},
				&cli.IntFlag{
					Name:    "concurrency",
					Aliases: []string{"c"},
					Usage:   "Maximum conversations fetched at once",
					Value:   4,
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Print the report as JSON",
				},
				&cli.BoolFlag{
					Name:  "wait",
					Usage: "Wait for the API rate limit to free up instead of failing those conversations",
				},
			},
			sourceFlags(), metricsFlags(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := newApp().reader(cmd)
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}

			ids := cmd.StringSlice("id")
			if len(ids) == 0 {
				fr, ok := r.(*file.Reader)
				if !ok {
					return fmt.Errorf("--id is required for source %q", cmd.String("source"))
				}
				if ids, err = fr.List(); err != nil {
					return fmt.Errorf("list conversations: %w", err)
				}
			}

			rows, err := buildReport(ctx, r, engine, ids, int(cmd.Int("concurrency")))
			if err != nil {
				return err
			}
			totals := summarizeReport(rows)

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Rows   []reportRow  `json:"rows"`
					Totals reportTotals `json:"totals"`
				}{rows, totals})
			}
			writeReport(os.Stdout, rows, totals)
			return nil
		},
	}
}

// buildReport reads and measures every conversation with at most limit in
// flight. A failed conversation becomes an error row; only context
// cancellation aborts the report.
func buildReport(ctx context.Context, r reader.Reader, engine *metrics.Engine, ids []string, limit int) ([]reportRow, error) {
	rows := make([]reportRow, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = reportRow{ID: id}

			c, err := r.ReadConversation(ctx, id)
			if err != nil {
				log.Warn("read conversation", "id", id, "error", err)
				rows[i].Error = err.Error()
				return nil
			}
			rows[i].Hotel = c.HotelName

			rec, err := engine.Compute(c.Messages)
			if err != nil {
				rows[i].Error = err.Error()
				return nil
			}
			rows[i].Metrics = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func summarizeReport(rows []reportRow) reportTotals {
	t := reportTotals{Categories: make(map[metrics.Category]int)}
	var sum float64
	for _, row := range rows {
		if row.Metrics == nil {
			t.Failed++
			continue
		}
		t.Conversations++
		t.Messages += row.Metrics.TotalMessages
		t.Categories[row.Metrics.Category]++
		sum += row.Metrics.ResponseTimeSeconds
	}
	if t.Conversations > 0 {
		t.AvgResponseTimeSeconds = math.Round(sum/float64(t.Conversations)*100) / 100
	}
	return t
}

func writeReport(w io.Writer, rows []reportRow, totals reportTotals) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"})

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dim).
		Headers("CONVERSATION", "HOTEL", "MESSAGES", "RESPONSE", "AUTOMATION", "CATEGORY", "QUALITY")
	for _, row := range rows {
		if row.Metrics == nil {
			tbl.Row(row.ID, row.Hotel, "-", "-", "-", "-", "error: "+row.Error)
			continue
		}
		m := row.Metrics
		tbl.Row(row.ID, row.Hotel, fmt.Sprintf("%d", m.TotalMessages), m.ResponseTimeLabel(),
			m.AutomationRate, string(m.Category), m.Quality.Rating)
	}
	fmt.Fprintln(w, tbl.Render())

	cats := make([]string, 0, len(totals.Categories))
	for c, n := range totals.Categories {
		cats = append(cats, fmt.Sprintf("%s %d", c, n))
	}
	sort.Strings(cats)

	fmt.Fprintf(w, "%d conversations, %d failed, %d messages, avg response %.2fs\n",
		totals.Conversations, totals.Failed, totals.Messages, totals.AvgResponseTimeSeconds)
	if len(cats) > 0 {
		fmt.Fprintln(w, dim.Render(strings.Join(cats, ", ")))
	}
}
