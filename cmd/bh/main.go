package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "bh",
		Usage: "Fetch hotel chatbot conversations and report on how they went",
		Description: `
  _          _ _ _
 | |__   ___| | | |__   ___  _ __
 | '_ \ / _ \ | | '_ \ / _ \| '_ \
 | |_) |  __/ | | | | | (_) | |_) |
 |_.__/ \___|_|_|_| |_|\___/| .__/
                            |_|

 Response times, automation and outcomes for every guest conversation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "error",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			slog.SetDefault(slog.New(log.Default()))
			return ctx, nil
		},
		Commands: []*cli.Command{
			renderCmd(),
			metricsCmd(),
			reportCmd(),
			fetchCmd(),
			serveCmd(),
			manifestCmd(),
			indexCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
