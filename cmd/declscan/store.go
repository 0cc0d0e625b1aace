package main

import (
	"context"
	"fmt"

	"declscan/internal/artifact"
	"declscan/internal/config"
)

// openStore builds the configured output store and a func releasing it.
func openStore(ctx context.Context, cfg config.StoreConfig, outputDir string) (artifact.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", "file":
		s, err := artifact.NewFileStore(outputDir)
		return s, noop, err
	case "memory":
		return artifact.NewMemoryStore(), noop, nil
	case "s3":
		s, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
		return s, noop, err
	case "postgres":
		db, err := artifact.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return artifact.NewPostgresStore(db), func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
