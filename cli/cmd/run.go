package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hookchain/adapter"
	"github.com/pithecene-io/hookchain/adapter/redis"
	"github.com/pithecene-io/hookchain/adapter/webhook"
	"github.com/pithecene-io/hookchain/archive"
	"github.com/pithecene-io/hookchain/cli/config"
	"github.com/pithecene-io/hookchain/journal"
	"github.com/pithecene-io/hookchain/log"
	"github.com/pithecene-io/hookchain/metrics"
	"github.com/pithecene-io/hookchain/resolver"
	"github.com/pithecene-io/hookchain/runtime"
	"github.com/pithecene-io/hookchain/telemetry"
	"github.com/pithecene-io/hookchain/types"
)

// RunCommand returns the run command.
// This is the only command that executes work; everything else is read-only.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute a chain (the only execution entrypoint)",
		ArgsUsage: "<chain>",
		Flags: []cli.Flag{
			ConfigFlag,
			JournalDirFlag,
			&cli.StringFlag{
				Name:  "run-id",
				Usage: "Run ID (default: generated UUID)",
			},
			&cli.StringSliceFlag{
				Name:  "hook-dir",
				Usage: "Hook search directory (repeatable, overrides config)",
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "Initial payload delivered to the first hook's stdin",
			},
			&cli.StringFlag{
				Name:  "input-file",
				Usage: "Read initial payload from file (\"-\" for stdin)",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "Telemetry dispatch policy: strict, buffered, none (overrides config)",
			},
			&cli.IntFlag{
				Name:  "buffer-events",
				Usage: "Buffer capacity for the buffered policy",
			},
			&cli.StringFlag{
				Name:  "archive-backend",
				Usage: "Archive backend: fs or s3 (overrides config)",
			},
			&cli.StringFlag{
				Name:  "archive-path",
				Usage: "Archive path (fs: directory, s3: bucket/prefix)",
			},
			&cli.StringFlag{
				Name:  "archive-region",
				Usage: "AWS region for the s3 archive backend",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress result output",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("chain name required", 1)
	}
	chainName := c.Args().First()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// An unconfigured or disabled chain is a no-op run, not an error: the
	// orchestrator records it in the journal and the command exits 0.
	chain := cfg.Chain(chainName)

	runID := c.String("run-id")
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := log.NewLogger(runID, chainName)

	hookDirs := c.StringSlice("hook-dir")
	if len(hookDirs) == 0 {
		hookDirs = cfg.HookDirs
	}

	input, err := readInput(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("read input: %v", err), 1)
	}

	policyName := c.String("policy")
	if policyName == "" {
		policyName = cfg.Telemetry.Policy
	}
	if policyName == "" {
		policyName = "strict"
	}
	bufferEvents := c.Int("buffer-events")
	if bufferEvents == 0 {
		bufferEvents = cfg.Telemetry.BufferEvents
	}

	archiveCfg := cfg.Archive
	if backend := c.String("archive-backend"); backend != "" {
		archiveCfg.Backend = backend
	}
	if path := c.String("archive-path"); path != "" {
		archiveCfg.Path = path
	}
	if region := c.String("archive-region"); region != "" {
		archiveCfg.Region = region
	}

	startTime := time.Now()
	pol, err := buildTelemetry(policyName, bufferEvents, journalDir(c, cfg.Telemetry.JournalDir), archiveCfg, chainName, runID, startTime)
	if err != nil {
		return cli.Exit(fmt.Sprintf("telemetry setup failed: %v", err), 1)
	}

	emitter := telemetry.NewEmitter(runID, chainName, pol, logger)
	collector := metrics.NewCollector(policyName, chainName, runID)
	retry := runtime.NewRetryController(runtime.NewProcessInvoker(), emitter, collector)
	orch := runtime.NewOrchestrator(runID, resolver.NewDirResolver(hookDirs...), retry, emitter, collector, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	result, err := orch.Run(ctx, chain, cfg.HookMetadata(), input)
	if err != nil {
		_ = pol.Close()
		return cli.Exit(fmt.Sprintf("run failed: %v", err), 1)
	}
	if result.Chain == "" {
		// The no-op result for an absent chain carries no name of its own.
		result.Chain = chainName
	}

	if err := pol.Close(); err != nil {
		logger.Warn("telemetry close failed", map[string]any{"error": err.Error()})
	}
	absorbTelemetryStats(collector, emitter.Stats())

	publishCompletion(cfg.Adapter, result, logger)

	if !c.Bool("quiet") {
		printRunResult(os.Stdout, result, collector.Snapshot())
	}

	return cli.Exit("", result.ExitCode())
}

// readInput resolves the initial payload. --input wins over --input-file.
func readInput(c *cli.Context) ([]byte, error) {
	if payload := c.String("input"); payload != "" {
		return []byte(payload), nil
	}
	path := c.String("input-file")
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// buildTelemetry wires the dispatch policy over the journal and, when
// configured, the archive. The "none" policy skips both.
func buildTelemetry(policyName string, bufferEvents int, journalDir string, archiveCfg config.ArchiveConfig, chain, runID string, startTime time.Time) (telemetry.Policy, error) {
	if policyName == "none" {
		return telemetry.NewNoopPolicy(), nil
	}

	writer, err := journal.NewWriter(journalDir, runID)
	if err != nil {
		return nil, err
	}

	sink := telemetry.Sink(writer)
	if archiveCfg.Backend != "" {
		archiveSink, err := buildArchiveSink(archiveCfg, chain, runID, startTime)
		if err != nil {
			return nil, err
		}
		sink = telemetry.NewMultiSink(writer, archiveSink)
	}

	return buildPolicy(policyName, bufferEvents, sink)
}

func buildPolicy(policyName string, bufferEvents int, sink telemetry.Sink) (telemetry.Policy, error) {
	switch policyName {
	case "strict":
		return telemetry.NewStrictPolicy(sink), nil
	case "buffered":
		return telemetry.NewBufferedPolicy(sink, bufferEvents), nil
	default:
		return nil, fmt.Errorf("unknown policy: %s (must be strict, buffered, or none)", policyName)
	}
}

func buildArchiveSink(archiveCfg config.ArchiveConfig, chain, runID string, startTime time.Time) (*archive.Sink, error) {
	cfg := archive.Config{
		Dataset: archive.DatasetID,
		Chain:   chain,
		Day:     archive.DeriveDay(startTime),
		RunID:   runID,
	}

	var client archive.Client
	var err error
	switch archiveCfg.Backend {
	case "fs":
		client, err = archive.NewLodeClient(cfg, archiveCfg.Path)
	case "s3":
		bucket, prefix := archive.ParseS3Path(archiveCfg.Path)
		client, err = archive.NewLodeS3Client(cfg, archive.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       archiveCfg.Region,
			Endpoint:     archiveCfg.Endpoint,
			UsePathStyle: archiveCfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive backend: %s (must be fs or s3)", archiveCfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return archive.NewSink(cfg, client), nil
}

// buildAdapter constructs the completion adapter named by config, or nil
// when none is configured.
func buildAdapter(adapterCfg config.AdapterConfig) (adapter.Adapter, error) {
	retries := func(fallback int) int {
		if adapterCfg.Retries != nil {
			return *adapterCfg.Retries
		}
		return fallback
	}

	switch adapterCfg.Type {
	case "":
		return nil, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     adapterCfg.URL,
			Headers: adapterCfg.Headers,
			Timeout: adapterCfg.Timeout.Duration,
			Retries: retries(webhook.DefaultRetries),
		})
	case "redis":
		return redis.New(redis.Config{
			URL:     adapterCfg.URL,
			Channel: adapterCfg.Channel,
			Timeout: adapterCfg.Timeout.Duration,
			Retries: retries(redis.DefaultRetries),
		})
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", adapterCfg.Type)
	}
}

// publishCompletion delivers the completion event to the configured adapter.
// Failures are logged; adapter delivery never changes the run's exit code.
func publishCompletion(adapterCfg config.AdapterConfig, result *types.ChainResult, logger *log.Logger) {
	a, err := buildAdapter(adapterCfg)
	if err != nil {
		logger.Warn("adapter setup failed", map[string]any{"error": err.Error()})
		return
	}
	if a == nil {
		return
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.Publish(ctx, adapter.FromResult(result)); err != nil {
		logger.Warn("adapter publish failed", map[string]any{
			"adapter": adapterCfg.Type,
			"error":   err.Error(),
		})
	}
}

func absorbTelemetryStats(collector *metrics.Collector, stats telemetry.Stats) {
	droppedByType := make(map[string]int64, len(stats.DroppedByType))
	for eventType, n := range stats.DroppedByType {
		droppedByType[string(eventType)] = n
	}
	collector.AbsorbTelemetryStats(stats.TotalEvents, stats.EventsWritten, stats.EventsDropped, droppedByType)
}

func printRunResult(w io.Writer, result *types.ChainResult, snap metrics.Snapshot) {
	fmt.Fprintf(w, "\n=== Run Result ===\n")
	fmt.Fprintf(w, "Run ID:       %s\n", result.RunID)
	fmt.Fprintf(w, "Chain:        %s\n", result.Chain)
	fmt.Fprintf(w, "Status:       %s\n", result.Status)
	if result.NoOp {
		fmt.Fprintf(w, "No-Op:        true\n")
	}
	if result.AbortOutcome != "" {
		fmt.Fprintf(w, "Abort Cause:  %s\n", result.AbortOutcome)
	}
	fmt.Fprintf(w, "Steps:        %d executed, %d failed\n", result.StepsExecuted, result.StepsFailed)
	fmt.Fprintf(w, "Duration:     %s\n", result.Duration.Round(time.Millisecond))

	for _, step := range result.Steps {
		fmt.Fprintf(w, "  %d. %-20s %-10s exit=%d attempts=%d %s\n",
			step.Position, step.HookName, step.Outcome, step.ExitCode,
			step.AttemptsUsed, step.Elapsed.Round(time.Millisecond))
	}

	fmt.Fprintf(w, "\n=== Telemetry ===\n")
	fmt.Fprintf(w, "Policy:           %s\n", snap.Policy)
	fmt.Fprintf(w, "Events Emitted:   %d\n", snap.EventsEmitted)
	fmt.Fprintf(w, "Events Written:   %d\n", snap.EventsWritten)
	fmt.Fprintf(w, "Events Dropped:   %d\n", snap.EventsDropped)
}
