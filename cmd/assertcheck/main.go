// Command assertcheck evaluates declarative assertion suites
// against value documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.assert/pkg/assert"
	"digital.vasic.assert/pkg/env"
	"digital.vasic.assert/pkg/httpclient"
	"digital.vasic.assert/pkg/logging"
	"digital.vasic.assert/pkg/metrics"
	"digital.vasic.assert/pkg/monitor"
	"digital.vasic.assert/pkg/report"
	"digital.vasic.assert/pkg/suite"
)

// Set by build flags.
var version = "dev"

// errAssertionsFailed is returned by run when at least one
// assertion failed. The report has already been written.
var errAssertionsFailed = errors.New("assertions failed")

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAssertionsFailed) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "assertcheck",
		Short: "Evaluate declarative assertion suites",
		Long: `assertcheck loads assertion suites written in JSON, YAML or
TOML, evaluates them against a value document and reports the
failures with their expected/actual diffs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newRunCmd(stdout, stderr))
	root.AddCommand(newValidateCmd(stdout))
	root.AddCommand(newSchemaCmd(stdout))
	root.AddCommand(newTypesCmd(stdout))
	root.AddCommand(newServeCmd(stderr))
	return root
}

// newLogger returns a console logger on stderr, teed into a
// rotating JSON log file when logFile is set.
func newLogger(stderr io.Writer, verbose bool, logFile string) (logging.Logger, error) {
	console := logging.NewConsoleLoggerTo(stderr, verbose)
	if logFile == "" {
		return console, nil
	}

	file, err := logging.NewJSONLogger(logging.LoggerConfig{
		OutputPath: logFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		Verbose:    verbose,
		Fields:     map[string]any{"component": "assertcheck"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewMultiLogger(console, file), nil
}

// newEngine builds an engine whose asserter and suite runs share
// the logger and metrics.
func newEngine(
	logger logging.Logger,
	m metrics.AssertionMetrics,
	observers ...func(assert.Event),
) *suite.Engine {
	opts := []assert.Option{
		assert.WithLogger(logger),
		assert.WithMetrics(m),
	}
	for _, o := range observers {
		opts = append(opts, assert.WithObserver(o))
	}
	return suite.NewEngine(
		suite.WithAsserter(assert.New(opts...)),
		suite.WithLogger(logger),
		suite.WithMetrics(m),
	)
}

// loadOptions expands ${NAME} references in suite and value files
// from envFile and the process environment. Without an env file no
// expansion happens.
func loadOptions(envFile string) ([]suite.LoadOption, error) {
	if envFile == "" {
		return nil, nil
	}
	loader := env.NewLoader()
	if err := loader.Load(envFile); err != nil {
		return nil, err
	}
	return []suite.LoadOption{suite.WithExpansion(loader.Expand)}, nil
}

// inputs names the suites and the value document of a run.
type inputs struct {
	paths       []string
	valuesPath  string
	valuesToken string
	opts        []suite.LoadOption
}

func loadInputs(ctx context.Context, in inputs) ([]suite.Suite, any, error) {
	suites, err := suite.LoadPaths(in.paths, in.opts...)
	if err != nil {
		return nil, nil, err
	}
	if len(suites) == 0 {
		return nil, nil, errors.New("no suite files found")
	}

	doc, err := loadValues(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return suites, doc, nil
}

// loadValues reads the value document from a file or, for http and
// https locations, fetches it.
func loadValues(ctx context.Context, in inputs) (any, error) {
	switch {
	case in.valuesPath == "":
		return nil, nil
	case !httpclient.IsRemote(in.valuesPath):
		return suite.LoadValues(in.valuesPath, in.opts...)
	}

	client := httpclient.NewClient(httpclient.WithToken(in.valuesToken))
	fetched, err := client.Fetch(ctx, in.valuesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch values: %w", err)
	}
	return suite.ParseValues(fetched.Data, fetched.Format(), in.opts...)
}

// runParams holds the parsed flags for the run command.
type runParams struct {
	paths       []string
	valuesPath  string
	valuesToken string
	envFile     string
	format      string
	pretty      bool
	logFile     string
	verbose     bool
	outputDir   string
	historyPath string
	parallel    int
	stdout      io.Writer
	stderr      io.Writer
}

// runSuites is the extracted, testable body of the run command.
func runSuites(ctx context.Context, p runParams) error {
	reporter, err := report.New(p.format, p.pretty)
	if err != nil {
		return err
	}

	logger, err := newLogger(p.stderr, p.verbose, p.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	opts, err := loadOptions(p.envFile)
	if err != nil {
		return err
	}
	suites, doc, err := loadInputs(ctx, inputs{
		paths:       p.paths,
		valuesPath:  p.valuesPath,
		valuesToken: p.valuesToken,
		opts:        opts,
	})
	if err != nil {
		return err
	}

	m, err := metrics.NewCollector()
	if err != nil {
		return err
	}
	defer func() { _ = m.Shutdown(context.Background()) }()
	engine := newEngine(logger, m)

	runs, err := engine.RunAll(ctx, suites, doc, p.parallel)
	if err != nil {
		return err
	}
	if p.historyPath != "" {
		for _, run := range runs {
			if err := report.AppendToHistory(p.historyPath, run); err != nil {
				return err
			}
		}
	}

	if len(runs) == 1 {
		err = reporter.WriteReport(p.stdout, runs[0])
	} else {
		var data []byte
		data, err = reporter.GenerateMasterSummary(runs)
		if err == nil {
			_, err = p.stdout.Write(data)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	summary := report.BuildMasterSummary(runs)
	if p.outputDir != "" {
		if err := report.SaveMasterSummary(summary, p.outputDir); err != nil {
			return err
		}
	}

	logger.Info("run complete",
		logging.IntField("suites", summary.TotalSuites),
		logging.IntField("assertions", summary.TotalAssertions),
		logging.IntField("failed", summary.FailedAssertions),
	)
	logMetrics(ctx, logger, m)
	if summary.FailedSuites > 0 {
		return errAssertionsFailed
	}
	return nil
}

// logMetrics logs the counter totals of a run at debug level.
func logMetrics(ctx context.Context, logger logging.Logger, c *metrics.Collector) {
	totals, err := c.Totals(ctx)
	if err != nil {
		logger.Warn("metrics unavailable", logging.ErrorField(err))
		return
	}
	logger.Debug("metrics collected",
		logging.IntField("evaluations", int(totals["assert.evaluations"])),
		logging.IntField("captures", int(totals["assert.captures"])),
		logging.IntField("suite_failures", int(totals["assert.suite.failures"])),
	)
}

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	p := runParams{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "run [suite files or directories...]",
		Short: "Evaluate suites against a value document",
		Long: `Evaluate every assertion of the given suites against the
value document and write a report. Exits non-zero when any
assertion fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.paths = args
			return runSuites(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVar(&p.valuesPath, "values", "",
		"value document (JSON, YAML or TOML file, or http(s) URL)")
	cmd.Flags().StringVar(&p.valuesToken, "values-token", "",
		"bearer token sent when --values is an http(s) URL")
	cmd.Flags().StringVar(&p.envFile, "env-file", "",
		"expand ${NAME} references from this .env file")
	cmd.Flags().StringVar(&p.format, "format", "text",
		"report format: "+strings.Join(report.Formats, ", "))
	cmd.Flags().BoolVar(&p.pretty, "pretty", true,
		"indent JSON reports")
	cmd.Flags().StringVar(&p.logFile, "log-file", "",
		"also write JSON logs to this file (rotated)")
	cmd.Flags().BoolVarP(&p.verbose, "verbose", "v", false,
		"enable debug logging")
	cmd.Flags().StringVar(&p.outputDir, "output-dir", "",
		"save master summary JSON and Markdown files here")
	cmd.Flags().StringVar(&p.historyPath, "history", "",
		"append one JSON line per suite run to this file")
	cmd.Flags().IntVar(&p.parallel, "parallel", 1,
		"number of suites evaluated concurrently")

	return cmd
}

// runValidate is the extracted, testable body of the validate
// command.
func runValidate(paths []string, stdout io.Writer, opts ...suite.LoadOption) error {
	suites, err := suite.LoadPaths(paths, opts...)
	if err != nil {
		return err
	}

	for _, s := range suites {
		for i, def := range s.Assertions {
			if _, err := suite.DefaultRegistry.Build(def); err != nil {
				return fmt.Errorf("%s: assertion %d: %w", s.Source, i, err)
			}
		}
		fmt.Fprintf(stdout, "ok  %s (%d assertions)\n", s.Source, len(s.Assertions))
	}
	return nil
}

func newValidateCmd(stdout io.Writer) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "validate [suite files or directories...]",
		Short: "Check suites against the schema and the registry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts, err := loadOptions(envFile)
			if err != nil {
				return err
			}
			return runValidate(args, stdout, opts...)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "",
		"expand ${NAME} references from this .env file")
	return cmd
}

func newSchemaCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the suite JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(stdout, suite.Schema)
			return err
		},
	}
}

func newTypesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered assertion types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, t := range suite.DefaultRegistry.Types() {
				if _, err := fmt.Fprintln(stdout, t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// serveParams holds the parsed flags for the serve command.
type serveParams struct {
	paths       []string
	valuesPath  string
	valuesToken string
	envFile     string
	addr        string
	interval    time.Duration
	logFile     string
	verbose     bool
	stderr      io.Writer
}

// runServe evaluates the suites every interval until ctx is done
// and streams the assertion events through the monitor server.
// The value document is reloaded before each round.
func runServe(ctx context.Context, p serveParams) error {
	if p.interval <= 0 {
		return fmt.Errorf("invalid interval %v: must be positive", p.interval)
	}

	logger, err := newLogger(p.stderr, p.verbose, p.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	opts, err := loadOptions(p.envFile)
	if err != nil {
		return err
	}
	in := inputs{
		paths:       p.paths,
		valuesPath:  p.valuesPath,
		valuesToken: p.valuesToken,
		opts:        opts,
	}
	if _, _, err := loadInputs(ctx, in); err != nil {
		return err
	}

	collector := monitor.NewEventCollector()
	dashboard := monitor.NewDashboardData(time.Now().Format("20060102_150405"))
	server := monitor.NewServer(p.addr, collector, dashboard,
		monitor.WithServerLogger(logger))

	engine := newEngine(logger, metrics.NewInMemoryMetrics(), collector.Observe)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Start(ctx) }()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		suites, doc, err := loadInputs(ctx, in)
		if err != nil {
			logger.Warn("reload failed", logging.ErrorField(err))
		} else {
			for _, s := range suites {
				engine.Run(s, doc)
			}
		}

		select {
		case <-ctx.Done():
			return <-serveErr
		case err := <-serveErr:
			return err
		case <-ticker.C:
		}
	}
}

func newServeCmd(stderr io.Writer) *cobra.Command {
	p := serveParams{stderr: stderr}

	cmd := &cobra.Command{
		Use:   "serve [suite files or directories...]",
		Short: "Re-evaluate suites periodically and stream results",
		Long: `Evaluate the suites every interval and stream every assertion
event to WebSocket clients on /ws. /dashboard serves the current
per-kind counters as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.paths = args
			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, p)
		},
	}

	cmd.Flags().StringVar(&p.valuesPath, "values", "",
		"value document (JSON, YAML or TOML file, or http(s) URL)")
	cmd.Flags().StringVar(&p.valuesToken, "values-token", "",
		"bearer token sent when --values is an http(s) URL")
	cmd.Flags().StringVar(&p.envFile, "env-file", "",
		"expand ${NAME} references from this .env file")
	cmd.Flags().StringVar(&p.addr, "addr", "127.0.0.1:8089",
		"listen address of the monitor")
	cmd.Flags().DurationVar(&p.interval, "interval", 30*time.Second,
		"time between evaluation rounds")
	cmd.Flags().StringVar(&p.logFile, "log-file", "",
		"also write JSON logs to this file (rotated)")
	cmd.Flags().BoolVarP(&p.verbose, "verbose", "v", false,
		"enable debug logging")

	return cmd
}
