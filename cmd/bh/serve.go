package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Browse conversations and their metrics in a local web UI",
		Description: `Conversations are fetched on demand: open /conversation/{id} to render
one, or /api/conversation/{id}/metrics for its metrics as JSON. The index
page lists every conversation viewed since the server started. Add
?analyze=1 to a conversation page to include a model review when an
OpenAI key is configured.`,
		Flags: flags(
			[]cli.Flag{
				&cli.IntFlag{
					Name:  "port",
					Usage: "Port to listen on",
					Value: 8080,
				},
			},
			sourceFlags(), metricsFlags(), transformFlags(), analysisFlags(),
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
			loc, err := location(cmd)
			if err != nil {
				return err
			}
			ts, err := transformers(cmd)
			if err != nil {
				return err
			}

			s := server.New(r)
			s.Engine = engine
			s.Location = loc
			s.Transformers = ts
			s.Port = int(cmd.Int("port"))
			if cmd.String("openai-api-key") != "" {
				if s.Analyzer, err = newAnalyzer(cmd); err != nil {
					return err
				}
			} else {
				log.Info("analysis disabled: no OpenAI API key")
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return s.ListenAndServe(ctx)
		},
	}
}
