package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/dedup"
	"github.com/mylabvault/labvault/internal/detect"
	"github.com/mylabvault/labvault/internal/document"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/export"
	"github.com/mylabvault/labvault/internal/lexicon"
	"github.com/mylabvault/labvault/internal/normalize"
	"github.com/mylabvault/labvault/internal/pipeline"
	repo "github.com/mylabvault/labvault/internal/repository"
	"github.com/mylabvault/labvault/internal/score"
	"github.com/mylabvault/labvault/internal/staging"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "single PDF to import")
		dir     = flag.String("dir", "", "directory of PDFs to import as one batch")
		patient = flag.Int64("patient", 0, "patient id to import for (required)")
		out     = flag.String("out", "", "output XLSX path (optional, defaults next to the input)")
		commit  = flag.Bool("commit", false, "commit default-selected candidates instead of staging only")
	)
	flag.Parse()

	if *file == "" && *dir == "" {
		printError("Error: --file or --dir is required\n")
		os.Exit(1)
	}
	if *patient == 0 {
		printError("Error: --patient is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, dialect, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := repo.Migrate(ctx, db, dialect); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	resultsRepo := repo.NewResultRepository(db, dialect, logger)
	importsRepo := repo.NewImportLogRepository(db, dialect, logger)

	lex, err := lexicon.Load(cfg.Lexicon.Path, cfg.Import.MaxNameEditDistance)
	if err != nil {
		logger.Error("failed to load lexicon", "path", cfg.Lexicon.Path, "error", err)
		os.Exit(1)
	}
	prints, err := loadFingerprints(cfg.Lexicon.FingerprintsPath)
	if err != nil {
		logger.Error("failed to load fingerprints", "path", cfg.Lexicon.FingerprintsPath, "error", err)
		os.Exit(1)
	}

	store := staging.NewStore(resultsRepo, importsRepo, logger)
	processor := pipeline.NewProcessor(
		logger,
		document.NewLoader(cfg.Import.MaxDocumentBytes, logger),
		detect.NewDetector(prints, cfg.Import.DetectionThreshold, logger),
		normalize.NewNormalizer(lex, logger),
		score.NewScorer(score.Weights{
			Strategy:     cfg.Import.WeightStrategy,
			Completeness: cfg.Import.WeightCompleteness,
			Name:         cfg.Import.WeightName,
			Value:        cfg.Import.WeightValue,
		}, cfg.Import.LowConfidenceFloor, lex),
		dedup.NewDeduplicator(resultsRepo, cfg.Import.DedupRelTolerance, cfg.Import.DedupWindowDays, logger),
		store,
		importsRepo,
	)

	files, err := collectFiles(*file, *dir)
	if err != nil {
		logger.Error("failed to collect input files", "error", err)
		os.Exit(1)
	}

	batchID := uuid.New()
	logger.Info("starting import", "batch_id", batchID, "files", len(files), "patient", *patient)

	exporter := export.NewService(logger)
	processed, failures := 0, 0
	for _, path := range files {
		session, err := importOne(ctx, processor, path, *patient, *commit, logger)
		if err != nil {
			failures++
			continue
		}
		processed++
		if *out != "" || *file != "" {
			writeWorkbook(session, path, *out, exporter, logger)
		}
	}

	logger.Info("import complete",
		"batch_id", batchID,
		"files_processed", processed,
		"failures", failures,
	)
	if failures > 0 {
		os.Exit(1)
	}
}

func importOne(ctx context.Context, processor *pipeline.Processor, path string, patient int64, commit bool, logger *slog.Logger) (*entity.ImportSession, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read file", "path", path, "error", err)
		return nil, err
	}
	session, err := processor.ParseDocument(ctx, content, path, patient)
	if err != nil {
		logger.Error("failed to parse document", "path", path, "error", err)
		return nil, err
	}
	if session.PriorImport != nil {
		logger.Warn("document was imported before",
			"path", path,
			"prior_import_id", session.PriorImport.ImportID,
			"prior_imported_at", session.PriorImport.ImportedAt,
		)
	}
	if commit {
		refs, err := processor.CommitSelected(ctx, session.ID)
		if err != nil {
			logger.Error("failed to commit session", "session_id", session.ID, "error", err)
			return session, err
		}
		logger.Info("committed session", "session_id", session.ID, "results", len(refs))
	}
	return session, nil
}

func collectFiles(file, dir string) ([]string, error) {
	if file != "" {
		return []string{file}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func loadFingerprints(path string) ([]detect.Fingerprint, error) {
	if path == "" {
		return detect.DefaultFingerprints(), nil
	}
	return detect.LoadFingerprints(path)
}

func writeWorkbook(session *entity.ImportSession, inputPath, out string, exporter *export.Service, logger *slog.Logger) {
	target := out
	if target == "" {
		target = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xlsx"
	}
	xlsx, err := exporter.ExportSessionXLSX(session)
	if err != nil {
		logger.Error("failed to export session", "session_id", session.ID, "error", err)
		return
	}
	if err := os.WriteFile(target, xlsx, 0644); err != nil {
		logger.Error("failed to write workbook", "path", target, "error", err)
	}
}
