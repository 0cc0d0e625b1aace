package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Module    string
	OutputDir string
	// SourceDirs are scanned recursively; Headers are scanned first.
	SourceDirs       []string
	Headers          []string
	IgnoreHeaders    []string
	DeprecatedGuards string
	IgnoreDecorators string
	RebuildTypes     bool
	RebuildSections  bool
	Verbose          bool
	Store            StoreConfig
}

// StoreConfig selects where outputs are written.
type StoreConfig struct {
	// Backend is one of "file", "memory", "s3" or "postgres".
	Backend   string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	DSN       string
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Load reads .env (if present), then parses args. Flags win over the
// environment.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("declscan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		cfg        Config
		sourceDirs stringList
		ignore     string
	)
	fs.StringVar(&cfg.Module, "module", "", "name of the doc module being parsed")
	fs.Var(&sourceDirs, "source-dir", "directory of header files to scan (repeatable)")
	fs.StringVar(&ignore, "ignore-headers", "", "space-separated header files or directories to skip")
	fs.StringVar(&cfg.OutputDir, "output-dir", "", "directory to store the output files")
	fs.StringVar(&cfg.DeprecatedGuards, "deprecated-guards", "", "regular expression matching #ifdef guards of deprecated code")
	fs.StringVar(&cfg.IgnoreDecorators, "ignore-decorators", "", "|-separated words to ignore in front of declarations")
	fs.BoolVar(&cfg.RebuildTypes, "rebuild-types", false, "rebuild the MODULE.types file")
	fs.BoolVar(&cfg.RebuildSections, "rebuild-sections", false, "rebuild the MODULE-sections.txt file")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log scanning progress")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Module = firstNonEmpty(strings.TrimSpace(cfg.Module), strings.TrimSpace(os.Getenv("DECLSCAN_MODULE")))
	if cfg.Module == "" {
		return nil, errors.New("config: -module is required")
	}
	cfg.OutputDir = firstNonEmpty(cfg.OutputDir, os.Getenv("DECLSCAN_OUTPUT_DIR"), ".")
	cfg.SourceDirs = sourceDirs
	cfg.Headers = fs.Args()
	cfg.IgnoreHeaders = strings.Fields(ignore)
	cfg.DeprecatedGuards = firstNonEmpty(cfg.DeprecatedGuards, os.Getenv("DECLSCAN_DEPRECATED_GUARDS"))
	cfg.IgnoreDecorators = firstNonEmpty(cfg.IgnoreDecorators, os.Getenv("DECLSCAN_IGNORE_DECORATORS"))

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}
	cfg.Store = store
	return &cfg, nil
}

func loadStoreConfig() (StoreConfig, error) {
	backend := strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("DECLSCAN_STORE")), "file"))
	switch backend {
	case "file", "memory", "s3", "postgres":
	default:
		return StoreConfig{}, fmt.Errorf("config: unknown DECLSCAN_STORE %q", backend)
	}
	return StoreConfig{
		Backend:   backend,
		Endpoint:  strings.TrimSpace(os.Getenv("DECLSCAN_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DECLSCAN_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DECLSCAN_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DECLSCAN_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DECLSCAN_S3_BUCKET")), "declscan-outputs"),
		UseSSL:    parseBool(os.Getenv("DECLSCAN_S3_USE_SSL"), true),
		DSN:       strings.TrimSpace(os.Getenv("DECLSCAN_PG_DSN")),
	}, nil
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
