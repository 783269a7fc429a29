package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/RishiKendai/verbatim/internal/config"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/RishiKendai/verbatim/internal/report"
	"github.com/RishiKendai/verbatim/internal/source"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// runCompare compares two documents once and prints the fragments and
// statistics to stdout.
func runCompare(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.IntVar(&cfg.MinWindowWords, "min-window", cfg.MinWindowWords, "minimum number of shared words reported")
	fs.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "number of scan workers")
	fs.StringVar(&cfg.HashMode, "hash", cfg.HashMode, "window hash: poly or xxhash")
	fs.BoolVar(&cfg.NormalizeUnicode, "normalize", cfg.NormalizeUnicode, "apply NFC normalization before tokenizing")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "also store the result in this SQLite database")
	id := fs.String("id", "", "comparison id recorded in the SQLite store (default: random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("compare needs a suspect and a source document, got %d arguments", fs.NArg())
	}
	if err := cfg.ValidateEngine(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	detector, err := plagiarism.NewDetector(cfg.DetectorOptions())
	if err != nil {
		return err
	}

	sources := source.NewMux(source.FileSource{})
	if cfg.AWSRegion != "" {
		s3Source, err := source.NewS3Source(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		sources.Handle(source.SchemeS3, s3Source)
	}

	suspect, original := fs.Arg(0), fs.Arg(1)
	sink := report.Multi{report.NewConsoleSink(os.Stdout)}
	if cfg.SQLitePath != "" {
		db, err := report.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if *id == "" {
			*id = uuid.New().String()
		}
		sink = append(sink, report.NewSQLiteSink(db, *id, suspect, original))
	}

	r, err := detector.Run(ctx, sources, suspect, original, sink)
	if err != nil {
		if ferr := sink.EmitFailure(ctx, err); ferr != nil {
			log.Error().Err(ferr).Msg("Failed to record failure")
		}
		return err
	}
	log.Debug().
		Str("suspect", suspect).
		Str("source", original).
		Int("matches", len(r.Matches)).
		Float64("percentage", r.Percentage).
		Msg("Comparison finished")
	return nil
}
