package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/manifest"
	htmlrender "github.com/sonnes/bellhop/render/html"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Generate an index page from the manifest",
		Description: `Reads manifest.json from the given directory and writes index.html
alongside it, listing every conversation with its headline metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out-dir",
				Aliases:  []string{"d"},
				Usage:    "Directory containing manifest.json (writes index.html there)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("out-dir")

			m, err := manifest.ReadFile(filepath.Join(dir, "manifest.json"))
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			return writeOutput(filepath.Join(dir, "index.html"), func(w io.Writer) error {
				return htmlrender.New().RenderIndex(w, m.Entries)
			})
		},
	}
}
