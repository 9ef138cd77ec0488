package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/manifest"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/reader"
)

func manifestCmd() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Manage the conversation manifest",
		Commands: []*cli.Command{
			manifestUpsertCmd(),
			manifestRepairCmd(),
		},
	}
}

func manifestUpsertCmd() *cli.Command {
	return &cli.Command{
		Name:  "upsert",
		Usage: "Add or update a conversation entry in the manifest",
		Description: `Reads a conversation, computes its headline metrics, and upserts the
entry into the manifest file. Run it after rendering a page with
"bh render -o html --out".`,
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
					Name:     "manifest",
					Aliases:  []string{"m"},
					Usage:    "Path to manifest.json",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "href",
					Usage:    "Relative link to the rendered conversation page",
					Required: true,
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

			rec, err := engine.Compute(c.Messages)
			if err != nil && len(c.Messages) > 0 {
				return fmt.Errorf("compute metrics: %w", err)
			}

			path := cmd.String("manifest")
			m, err := manifest.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			m.Upsert(manifest.NewEntry(c, rec, cmd.String("href")))
			if err := m.WriteFile(path); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}
			return nil
		},
	}
}

func manifestRepairCmd() *cli.Command {
	return &cli.Command{
		Name:  "repair",
		Usage: "Rebuild manifest.json by scanning a directory of rendered pages",
		Description: `Scans the output directory for <id>/ subdirectories holding a rendered
page, re-reads each conversation from --source, and rebuilds the
manifest from scratch.`,
		Flags: flags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:     "out-dir",
					Aliases:  []string{"d"},
					Usage:    "Directory of rendered conversation pages",
					Required: true,
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

			dir := cmd.String("out-dir")
			m, skipped, err := repairManifest(ctx, dir, r, engine)
			if err != nil {
				return err
			}

			if err := m.WriteFile(filepath.Join(dir, "manifest.json")); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			fmt.Printf("Repaired manifest: %d entries (%d skipped)\n", len(m.Entries), skipped)
			return nil
		},
	}
}

// repairManifest scans dir for conversation directories, re-reads each one
// through r and builds a new manifest. It returns the manifest and the
// number of directories skipped.
func repairManifest(ctx context.Context, dir string, r reader.Reader, engine *metrics.Engine) (*manifest.Manifest, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read output directory: %w", err)
	}

	m := &manifest.Manifest{}
	skipped := 0

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == ".git" {
			continue
		}

		href := detectHref(name, filepath.Join(dir, name))
		if href == "" {
			skipped++
			continue
		}

		c, err := r.ReadConversation(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			log.Warn("skip conversation", "id", name, "error", err)
			skipped++
			continue
		}

		rec, err := engine.Compute(c.Messages)
		if err != nil && len(c.Messages) > 0 {
			log.Warn("skip conversation", "id", name, "error", err)
			skipped++
			continue
		}
		m.Upsert(manifest.NewEntry(c, rec, href))
	}

	return m, skipped, nil
}

// detectHref returns the relative link to the first rendered page found in
// convDir, preferring HTML, or "" when there is none.
func detectHref(id, convDir string) string {
	for _, ext := range []string{".html", ".json"} {
		if _, err := os.Stat(filepath.Join(convDir, "index"+ext)); err == nil {
			return id + "/index" + ext
		}
	}
	return ""
}
