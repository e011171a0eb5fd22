// Package main evaluates a batch of purchase candidates against live
// market data and writes the accept/reject report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"asin-scout/internal/config"
	"asin-scout/internal/domain"
	"asin-scout/internal/ingest"
	"asin-scout/internal/orchestrator"
	"asin-scout/internal/provider"
	"asin-scout/internal/provider/keepa"
	"asin-scout/internal/reporting"
	"asin-scout/internal/storage/clickhouse"
	"asin-scout/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to the TOML configuration file")
	inputPath := flag.String("input", "", "Candidate CSV path (overrides io.input_path)")
	outputDir := flag.String("output-dir", "", "Report directory (overrides io.output_dir)")
	flag.Parse()

	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.IO.InputPath = *inputPath
	}
	if *outputDir != "" {
		cfg.IO.OutputDir = *outputDir
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn("received signal, cancelling batch", zap.Stringer("signal", sig))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	schedule, err := cfg.Fees.Schedule()
	if err != nil {
		return err
	}
	thresholds, err := cfg.Risk.Thresholds()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy.Policy()
	if err != nil {
		return err
	}

	candidates, err := readCandidates(cfg.IO.InputPath, logger)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no valid candidates in %s", cfg.IO.InputPath)
	}

	var prov provider.Provider = keepa.New(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout())

	if cfg.Provider.ArchiveSnapshots {
		conn, err := clickhouse.NewConn(ctx, cfg.Storage.ClickHouseDSN)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer conn.Close()
		if err := conn.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
		prov = provider.NewRecording(prov, clickhouse.NewSnapshotArchive(conn), logger)
	}

	orch, err := orchestrator.New(orchestrator.Options{
		Provider:       prov,
		Schedule:       schedule,
		Thresholds:     thresholds,
		Policy:         policy,
		MaxInFlight:    cfg.Batch.MaxInFlight,
		MaxRetries:     cfg.Batch.MaxRetries,
		InitialBackoff: cfg.Batch.InitialBackoff(),
		MaxBackoff:     cfg.Batch.MaxBackoff(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger.Info("starting batch",
		zap.String("run_id", runID),
		zap.Int("candidates", len(candidates)),
		zap.Int("max_in_flight", cfg.Batch.MaxInFlight))

	outcomes := orch.EvaluateAll(ctx, candidates)

	if cfg.Storage.PostgresDSN != "" {
		// Cancelled runs are still recorded, so persistence gets its own
		// context. The report is written regardless; persistence is best
		// effort.
		persistCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := persistOutcomes(persistCtx, cfg.Storage.PostgresDSN, runID, outcomes); err != nil {
			logger.Error("persist outcomes", zap.Error(err))
		}
	}

	return writeReport(cfg.IO, runID, outcomes, logger)
}

func readCandidates(path string, logger *zap.Logger) ([]domain.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	rd := ingest.Reader{}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		rd.Comma = '\t'
	}

	candidates, rowErrs, err := rd.Read(f)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range rowErrs {
		logger.Warn("skipping input row",
			zap.Int("line", rowErr.Line),
			zap.Error(rowErr.Err))
	}
	return candidates, nil
}

func persistOutcomes(ctx context.Context, dsn, runID string, outcomes []orchestrator.Outcome) error {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	records := orchestrator.OutcomeRecords(runID, outcomes, time.Now().UTC())
	return postgres.NewOutcomeStore(pool).InsertBatch(ctx, records)
}

func writeReport(ioCfg config.IOConfig, runID string, outcomes []orchestrator.Outcome, logger *zap.Logger) error {
	if err := os.MkdirAll(ioCfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	report := reporting.NewGenerator().Build(outcomes)

	resultsPath := filepath.Join(ioCfg.OutputDir, "results.csv")
	if err := writeCSVFile(resultsPath, func(f *os.File) error {
		return reporting.WriteResultsCSV(f, report.Results)
	}); err != nil {
		return err
	}

	failuresPath := filepath.Join(ioCfg.OutputDir, "failures.csv")
	if err := writeCSVFile(failuresPath, func(f *os.File) error {
		return reporting.WriteFailuresCSV(f, report.Failures)
	}); err != nil {
		return err
	}

	if ioCfg.WriteWorkbook {
		workbookPath := filepath.Join(ioCfg.OutputDir, "report.xlsx")
		if err := reporting.WriteWorkbook(workbookPath, report); err != nil {
			return err
		}
	}

	logger.Info("batch complete",
		zap.String("run_id", runID),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("failed", len(report.Failures)),
		zap.String("results", resultsPath))
	return nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
