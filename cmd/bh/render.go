package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/reader/file"
	"github.com/sonnes/bellhop/render"
	jsonrender "github.com/sonnes/bellhop/render/json"
	"github.com/sonnes/bellhop/render/terminal"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render a conversation with its metrics",
		Flags: flags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:  "id",
					Usage: "Conversation ID",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Usage:   "Path to an exported conversation (overrides --source)",
				},
				&cli.StringFlag{
					Name:  "o",
					Usage: "Output format: terminal, html, json",
					Value: "terminal",
				},
				&cli.StringFlag{
					Name:  "out",
					Usage: "Write output to this file instead of stdout",
				},
				&cli.BoolFlag{
					Name:  "analyze",
					Usage: "Add a model-written review of the conversation",
				},
			},
			sourceFlags(), metricsFlags(), transformFlags(), analysisFlags(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := readConversation(ctx, cmd)
			if err != nil {
				return err
			}

			v, err := buildView(cmd, c)
			if err != nil {
				return err
			}

			if cmd.Bool("analyze") && len(c.Messages) > 0 {
				analyzer, err := newAnalyzer(cmd)
				if err != nil {
					return err
				}
				a, err := analyzer.Analyze(ctx, v.Conversation)
				if err != nil {
					return fmt.Errorf("analyze: %w", err)
				}
				v.Analysis = a
			}

			rnd, err := newApp().renderer(cmd.String("o"))
			if err != nil {
				return err
			}
			return writeOutput(cmd.String("out"), func(w io.Writer) error {
				if err := rnd.Render(w, v); err != nil {
					return fmt.Errorf("render: %w", err)
				}
				return nil
			})
		},
	}
}

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print the metrics record for a conversation",
		Flags: flags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:  "id",
					Usage: "Conversation ID",
				},
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Usage:   "Path to an exported conversation (overrides --source)",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Print the record as JSON",
				},
			},
			sourceFlags(), metricsFlags(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := readConversation(ctx, cmd)
			if err != nil {
				return err
			}

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				rec, err := engine.Compute(c.Messages)
				if err != nil {
					return fmt.Errorf("compute metrics: %w", err)
				}
				return (&jsonrender.Renderer{Indent: true, MetricsOnly: true}).Render(os.Stdout, &render.View{Conversation: c, Metrics: rec})
			}

			v, err := buildView(cmd, c)
			if err != nil {
				return err
			}
			return (&terminal.Renderer{MetricsOnly: true}).Render(os.Stdout, v)
		},
	}
}

// readConversation loads the conversation named by --file or --id exactly as
// stored.
func readConversation(ctx context.Context, cmd *cli.Command) (*core.Conversation, error) {
	var (
		c   *core.Conversation
		err error
	)
	switch path, id := cmd.String("file"), cmd.String("id"); {
	case path != "" && id != "":
		return nil, fmt.Errorf("only one of --file or --id may be specified")
	case path != "":
		c, err = (&file.Reader{}).ReadFile(path)
	case id != "":
		r, rerr := newApp().reader(cmd)
		if rerr != nil {
			return nil, rerr
		}
		c, err = r.ReadConversation(ctx, id)
	default:
		return nil, fmt.Errorf("one of --file or --id is required")
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	log.Debug("read conversation", "id", c.ID, "messages", len(c.Messages))
	return c, nil
}

// viewTransformers returns the redaction and compaction steps when the
// command defines those flags.
func viewTransformers(cmd *cli.Command) ([]core.Transformer, error) {
	if !hasFlag(cmd, "no-redact") {
		return nil, nil
	}
	return transformers(cmd)
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// buildView computes metrics on c with the engine and time zone from flags.
// Redaction and compaction apply to the displayed copy only.
func buildView(cmd *cli.Command, c *core.Conversation) (*render.View, error) {
	engine, err := newEngine(cmd)
	if err != nil {
		return nil, err
	}
	loc, err := location(cmd)
	if err != nil {
		return nil, err
	}
	ts, err := viewTransformers(cmd)
	if err != nil {
		return nil, err
	}
	v, err := render.NewView(c, engine, ts...)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}
	v.Location = loc
	if v.Metrics == nil {
		log.Warn("conversation has no messages", "id", c.ID)
	}
	return v, nil
}

// writeOutput calls fn with stdout, or with a file created at path.
func writeOutput(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
