package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/analysis"
	"github.com/sonnes/bellhop/compact"
	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
	"github.com/sonnes/bellhop/ratelimit"
	"github.com/sonnes/bellhop/reader"
	"github.com/sonnes/bellhop/reader/file"
	"github.com/sonnes/bellhop/reader/hotelzify"
	"github.com/sonnes/bellhop/redact"
	"github.com/sonnes/bellhop/render"
	htmlrender "github.com/sonnes/bellhop/render/html"
	jsonrender "github.com/sonnes/bellhop/render/json"
	"github.com/sonnes/bellhop/render/terminal"
)

// app holds reader and renderer registries used by CLI commands.
type app struct {
	readers   map[string]func(cmd *cli.Command) reader.Reader
	renderers map[string]func() render.Renderer
}

func newApp() *app {
	return &app{
		readers: map[string]func(cmd *cli.Command) reader.Reader{
			"api":  func(cmd *cli.Command) reader.Reader { return newAPIClient(cmd) },
			"file": func(cmd *cli.Command) reader.Reader { return &file.Reader{Dir: cmd.String("dir")} },
		},
		renderers: map[string]func() render.Renderer{
			"terminal": func() render.Renderer { return terminal.New() },
			"html":     func() render.Renderer { return htmlrender.New() },
			"json":     func() render.Renderer { return jsonrender.New() },
		},
	}
}

func (a *app) reader(cmd *cli.Command) (reader.Reader, error) {
	name := cmd.String("source")
	fn, ok := a.readers[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return fn(cmd), nil
}

func (a *app) renderer(name string) (render.Renderer, error) {
	fn, ok := a.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(), nil
}

// sourceFlags select where conversations come from and configure the API
// client. Every flag can also be set from the environment.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Usage:   "Conversation source: api, file",
			Value:   "api",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Directory of <id>.json / <id>.jsonl exports (file source)",
			Value: ".",
		},
		&cli.StringFlag{
			Name:    "api-base-url",
			Usage:   "Chatbot API base URL",
			Value:   hotelzify.DefaultBaseURL,
			Sources: cli.EnvVars("BELLHOP_API_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "auth-token",
			Usage:   "Bearer token for the chatbot API",
			Sources: cli.EnvVars("BELLHOP_AUTH_TOKEN"),
		},
		&cli.IntFlag{
			Name:    "rate-limit",
			Usage:   "Maximum API requests per window, per endpoint",
			Value:   ratelimit.DefaultConfig().Limit,
			Sources: cli.EnvVars("BELLHOP_RATE_LIMIT"),
		},
		&cli.DurationFlag{
			Name:    "rate-window",
			Usage:   "Rate limit window",
			Value:   ratelimit.DefaultConfig().Window,
			Sources: cli.EnvVars("BELLHOP_RATE_WINDOW"),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "HTTP request timeout",
			Value: 30 * time.Second,
		},
		&cli.IntFlag{
			Name:  "max-pages",
			Usage: "Maximum message pages to follow per conversation",
			Value: 20,
		},
	}
}

// metricsFlags configure the metrics engine and display.
func metricsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "response-strategy",
			Usage: "Response time pairing: adjacent, forward",
			Value: string(metrics.StrategyAdjacent),
		},
		&cli.StringFlag{
			Name:  "tz",
			Usage: "Time zone for timeline dates, e.g. Asia/Kolkata",
			Value: "UTC",
		},
	}
}

// transformFlags control redaction and compaction.
func transformFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-redact",
			Usage: "Disable redaction of secrets and PII",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Allowlist of rules to redact. Example: --redact=secrets,pii",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "Summarize function-call output and multi-line errors",
		},
		&cli.IntFlag{
			Name:  "compact-lines",
			Usage: "With --compact, truncate message text to this many lines (0 keeps all)",
		},
		&cli.BoolFlag{
			Name:  "compact-args",
			Usage: "With --compact, drop function-call arguments",
		},
	}
}

// analysisFlags configure the OpenAI-compatible analysis client.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "openai-api-key",
			Usage:   "API key for conversation analysis",
			Sources: cli.EnvVars("BELLHOP_OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "openai-base-url",
			Usage:   "OpenAI-compatible base URL",
			Sources: cli.EnvVars("BELLHOP_OPENAI_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Usage:   "Model used for analysis",
			Value:   analysis.DefaultModel,
			Sources: cli.EnvVars("BELLHOP_OPENAI_MODEL"),
		},
	}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newAPIClient(cmd *cli.Command) *hotelzify.Client {
	limiter := ratelimit.New(ratelimit.Config{
		Limit:  int(cmd.Int("rate-limit")),
		Window: cmd.Duration("rate-window"),
	})
	opts := []hotelzify.Option{hotelzify.WithLimiter(limiter)}
	if hasFlag(cmd, "wait") && cmd.Bool("wait") {
		opts = append(opts, hotelzify.WithWait())
	}
	return hotelzify.New(hotelzify.Config{
		BaseURL:  cmd.String("api-base-url"),
		Token:    cmd.String("auth-token"),
		Timeout:  cmd.Duration("timeout"),
		MaxPages: int(cmd.Int("max-pages")),
	}, opts...)
}

func newEngine(cmd *cli.Command) (*metrics.Engine, error) {
	strategy, err := metrics.ParseStrategy(cmd.String("response-strategy"))
	if err != nil {
		return nil, err
	}
	return metrics.NewEngine(strategy), nil
}

func location(cmd *cli.Command) (*time.Location, error) {
	loc, err := time.LoadLocation(cmd.String("tz"))
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}
	return loc, nil
}

func newAnalyzer(cmd *cli.Command) (analysis.Analyzer, error) {
	key := cmd.String("openai-api-key")
	if key == "" {
		return nil, fmt.Errorf("--openai-api-key (or BELLHOP_OPENAI_API_KEY) is required for analysis")
	}
	return analysis.New(analysis.Config{
		APIKey:  key,
		BaseURL: cmd.String("openai-base-url"),
		Model:   cmd.String("openai-model"),
	}), nil
}

// newRedactor builds a Redactor from CLI flags. Returns nil when --no-redact is set.
func newRedactor(cmd *cli.Command) (*redact.Redactor, error) {
	if cmd.Bool("no-redact") {
		return nil, nil
	}

	cfg := redact.Config{}
	rules := cmd.StringSlice("redact")

	if len(rules) == 0 {
		cfg.Secrets = true
		cfg.PII = true
	} else {
		for _, r := range rules {
			switch r {
			case "secrets":
				cfg.Secrets = true
			case "pii":
				cfg.PII = true
			default:
				return nil, fmt.Errorf("unknown redaction rule %q", r)
			}
		}
	}

	return redact.New(cfg), nil
}

// transformers returns the redaction and compaction steps requested by flags.
func transformers(cmd *cli.Command) ([]core.Transformer, error) {
	var out []core.Transformer
	redactor, err := newRedactor(cmd)
	if err != nil {
		return nil, err
	}
	if redactor != nil {
		out = append(out, redactor)
	}
	if cmd.Bool("compact") {
		out = append(out, compact.New(compact.Config{
			DropArguments: cmd.Bool("compact-args"),
			MaxTextLines:  int(cmd.Int("compact-lines")),
		}))
	}
	return out, nil
}
