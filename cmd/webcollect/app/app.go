package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"webcollect/collector"
	"webcollect/internal/config"
	"webcollect/internal/limiter"
	"webcollect/internal/report"
	"webcollect/internal/store"
)

// settings are the effective options after merging flags over the config file.
type settings struct {
	maxDepth   int
	maxPages   int
	sameDomain bool
	timeout    time.Duration
	delay      time.Duration
	userAgent  string
	format     string
	storePath  string
	parallel   int
	verbose    bool
}

// Run executes the CLI and writes the report for every seed to stdout.
// If no URL is given, it prints help and returns nil. Results are always
// printed; the returned error reports rejected seeds or an interrupted run.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, client *http.Client, clock limiter.Clock) error {
	app := cli.NewApp()
	app.Name = "webcollect"
	app.Usage = "collect readable text from a website, breadth first"
	app.UsageText = "webcollect [global options] <url> [<url>...]"
	app.Version = "1.0.0"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "max-depth",
			Usage: "maximum link hops from the start page",
			Value: collector.DefaultMaxDepth,
		},
		cli.IntFlag{
			Name:  "max-pages",
			Usage: "maximum number of pages to collect per start URL",
			Value: collector.DefaultMaxPages,
		},
		cli.BoolTFlag{
			Name:  "same-domain",
			Usage: "only follow links on the start URL's host (--same-domain=false to disable)",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: collector.DefaultTimeout,
		},
		cli.DurationFlag{
			Name:  "delay",
			Usage: "minimum delay between requests (example: 200ms, 1s)",
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
			Value: collector.DefaultUserAgent,
		},
		cli.StringFlag{
			Name:  "format",
			Usage: "output format: json, markdown or text",
			Value: report.FormatJSON,
		},
		cli.StringFlag{
			Name:  "store",
			Usage: "archive results in the SQLite database at `PATH`",
		},
		cli.IntFlag{
			Name:  "parallel",
			Usage: "number of start URLs collected concurrently",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "load defaults from `FILE` (default: $XDG_CONFIG_HOME/webcollect/config.yaml)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "log every fetch to stderr",
		},
	}
	app.Action = func(c *cli.Context) error {
		seeds := c.Args()
		if len(seeds) == 0 {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		s, err := settingsFromCLI(c)
		if err != nil {
			return err
		}

		logger := newLogger(stderr, s.verbose)
		defer func() {
			_ = logger.Sync()
		}()

		opts := make([]collector.Options, 0, len(seeds))
		for _, seed := range seeds {
			opts = append(opts, optionsFor(seed, s, client, clock, logger))
		}

		results, collectErr := collector.CollectAll(ctx, opts, s.parallel)

		if err := report.Write(stdout, s.format, results); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		if s.storePath != "" {
			if err := archive(ctx, s.storePath, results, clock.Now(), logger); err != nil {
				return err
			}
		}

		return collectErr
	}

	return app.Run(args)
}

func settingsFromCLI(c *cli.Context) (settings, error) {
	file, err := config.Resolve(c.String("config"))
	if err != nil {
		return settings{}, fmt.Errorf("load config: %w", err)
	}

	s := settings{
		maxDepth:   c.Int("max-depth"),
		maxPages:   c.Int("max-pages"),
		sameDomain: c.BoolT("same-domain"),
		timeout:    c.Duration("timeout"),
		delay:      c.Duration("delay"),
		userAgent:  c.String("user-agent"),
		format:     c.String("format"),
		storePath:  c.String("store"),
		parallel:   c.Int("parallel"),
		verbose:    c.Bool("verbose"),
	}

	applyFile(c, file, &s)

	if !config.ValidFormat(s.format) {
		return settings{}, config.ErrInvalidFormat
	}

	if s.parallel < 1 {
		return settings{}, config.ErrInvalidParallel
	}

	if s.timeout <= 0 {
		return settings{}, config.ErrInvalidTimeout
	}

	return s, nil
}

// applyFile copies config values for every flag not given on the command line.
func applyFile(c *cli.Context, file *config.File, s *settings) {
	if file.MaxDepth != nil && !c.IsSet("max-depth") {
		s.maxDepth = *file.MaxDepth
	}
	if file.MaxPages != nil && !c.IsSet("max-pages") {
		s.maxPages = *file.MaxPages
	}
	if file.SameDomain != nil && !c.IsSet("same-domain") {
		s.sameDomain = *file.SameDomain
	}
	if file.Timeout != nil && !c.IsSet("timeout") {
		s.timeout = *file.Timeout
	}
	if file.Delay != nil && !c.IsSet("delay") {
		s.delay = *file.Delay
	}
	if file.UserAgent != nil && !c.IsSet("user-agent") {
		s.userAgent = *file.UserAgent
	}
	if file.Format != nil && !c.IsSet("format") {
		s.format = *file.Format
	}
	if file.Store != nil && !c.IsSet("store") {
		s.storePath = *file.Store
	}
	if file.Parallel != nil && !c.IsSet("parallel") {
		s.parallel = *file.Parallel
	}
	if file.Verbose != nil && !c.IsSet("verbose") {
		s.verbose = *file.Verbose
	}
}

func optionsFor(
	seed string,
	s settings,
	client *http.Client,
	clock limiter.Clock,
	logger *zap.SugaredLogger,
) collector.Options {
	opts := collector.DefaultOptions(seed)
	opts.MaxDepth = s.maxDepth
	opts.MaxPages = s.maxPages
	opts.SameDomain = s.sameDomain
	opts.Timeout = s.timeout
	opts.Delay = s.delay
	opts.UserAgent = s.userAgent
	opts.HTTPClient = client
	opts.Clock = clock
	opts.Logger = logger

	return opts
}

func archive(ctx context.Context, path string, results []collector.Result, now time.Time, logger *zap.SugaredLogger) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	for _, result := range results {
		runID, err := db.Save(ctx, result, now)
		if err != nil {
			return fmt.Errorf("archive %s: %w", result.StartURL, err)
		}

		logger.Debugw("archived collection", "run", runID, "start_url", result.StartURL, "pages", result.TotalPages)
	}

	return nil
}

// newLogger writes human-readable logs to w: warnings by default, everything when verbose.
func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)

	return zap.New(core).Sugar()
}
