// Команда snapshot печатает сводку снимка и переносит его между json и postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/model"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/jsonfile"
	"github.com/vladislavdragonenkov/rhrh/internal/storage/postgres"
)

const (
	defaultTimeout = 30 * time.Second

	backendJSON     = "json"
	backendPostgres = "postgres"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	from         string
	to           string
	jsonPath     string
	dsn          string
	describeOnly bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.from, "from", backendJSON, "source backend: json|postgres")
	fs.StringVar(&opts.to, "to", "", "destination backend: json|postgres (empty: only describe)")
	fs.StringVar(&opts.jsonPath, "json", "data/rhrh.json", "path to json snapshot file")
	fs.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (fallback: RHRH_POSTGRES_DSN)")
	fs.BoolVar(&opts.describeOnly, "describe-only", false, "print snapshot summary without copying")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(opts.dsn) == "" {
		opts.dsn = strings.TrimSpace(os.Getenv("RHRH_POSTGRES_DSN"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := execute(ctx, opts, stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "snapshot: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, opts options, stdout io.Writer) error {
	if opts.to != "" && opts.to == opts.from && !opts.describeOnly {
		return fmt.Errorf("source and destination are the same backend %q", opts.from)
	}

	source, closeSource, err := openStorage(ctx, opts.from, opts)
	if err != nil {
		return err
	}
	defer closeSource()

	snap, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load from %s: %w", opts.from, err)
	}
	// NewRhrhFrom отклоняет снимок с дубликатами.
	store, err := model.NewRhrhFrom(snap)
	if err != nil {
		return fmt.Errorf("invalid snapshot in %s: %w", opts.from, err)
	}
	_, _ = fmt.Fprint(stdout, store.String())

	if opts.describeOnly || opts.to == "" {
		return nil
	}

	target, closeTarget, err := openStorage(ctx, opts.to, opts)
	if err != nil {
		return err
	}
	defer closeTarget()

	if err := target.Save(ctx, store); err != nil {
		return fmt.Errorf("save to %s: %w", opts.to, err)
	}
	_, _ = fmt.Fprintf(stdout, "copied %s -> %s\n", opts.from, opts.to)
	return nil
}

func openStorage(ctx context.Context, backend string, opts options) (domain.RhrhStorage, func(), error) {
	switch backend {
	case backendJSON:
		storage, err := jsonfile.New(opts.jsonPath)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {}, nil
	case backendPostgres:
		if opts.dsn == "" {
			return nil, nil, fmt.Errorf("RHRH_POSTGRES_DSN (or -dsn) is required for postgres backend")
		}
		store, err := postgres.Open(ctx, opts.dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return postgres.NewSnapshotRepository(store), func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q (use json|postgres)", backend)
	}
}
