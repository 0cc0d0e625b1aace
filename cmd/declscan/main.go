package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"declscan/internal/artifact"
	"declscan/internal/config"
	"declscan/internal/scanner"
	"declscan/internal/session"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "declscan: ", log.LstdFlags)
	}
	if err := run(context.Background(), cfg, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, closeStore, err := openStore(ctx, cfg.Store, cfg.OutputDir)
	if err != nil {
		return err
	}
	defer closeStore()

	firstRun, err := artifact.FirstRun(ctx, store, cfg.Module)
	if err != nil {
		return err
	}
	rebuildTypes := cfg.RebuildTypes || firstRun

	sess, err := session.New(session.Options{
		Scanner: scanner.Options{
			Module:           cfg.Module,
			DeprecatedGuards: cfg.DeprecatedGuards,
			IgnoreDecorators: cfg.IgnoreDecorators,
			GetTypes:         rebuildTypes,
		},
		IgnoreHeaders: cfg.IgnoreHeaders,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	for _, h := range cfg.Headers {
		if err := sess.ScanHeader(h); err != nil {
			return err
		}
	}
	for _, dir := range cfg.SourceDirs {
		if err := sess.ScanHeaders(dir); err != nil {
			return err
		}
	}

	out := sess.Output()
	rep, err := artifact.Publish(ctx, store, artifact.Outputs{
		Module:   cfg.Module,
		DeclList: out.DeclList,
		Decls:    out.Decls,
		GetTypes: out.GetTypes,
	}, artifact.PublishOptions{
		RebuildTypes:    rebuildTypes,
		RebuildSections: cfg.RebuildSections,
	})
	if err != nil {
		return err
	}
	logger.Printf("scanned %d headers; updated [%s]; removed [%s]",
		sess.Scanned(), strings.Join(rep.Changed, " "), strings.Join(rep.Removed, " "))
	return nil
}
