// homeos_sync copies every HomeOS document from one storage backend to another,
// e.g. from the local data directory into the GitHub data repository.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SscSPs/homeos_backend/internal/adapters/docstore"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	flag "github.com/spf13/pflag"
)

func main() {
	from := flag.String("from", config.BackendLocal, "Source backend (local, github, gcs, redis, postgres)")
	to := flag.String("to", config.BackendGitHub, "Destination backend")
	only := flag.StringSlice("only", nil, "Copy only these documents (e.g. accounts,history)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if strings.EqualFold(*from, *to) {
		fmt.Fprintln(os.Stderr, "--from and --to must name different backends")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	keys, err := docstore.SelectDocuments(*only)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	src, closeSrc, err := openBackend(ctx, cfg, *from, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source: %v\n", err)
		os.Exit(1)
	}
	defer closeSrc()

	dst, closeDst, err := openBackend(ctx, cfg, *to, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "destination: %v\n", err)
		os.Exit(1)
	}
	defer closeDst()

	report, err := docstore.Copy(ctx, src, dst, keys)
	if report != nil {
		fmt.Printf("copied %d, missing in %s %d\n", len(report.Copied), src.Name(), len(report.Missing))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		os.Exit(1)
	}
}

func openBackend(ctx context.Context, base *config.Config, backend string, logger *slog.Logger) (portsrepo.VersionedDocumentStore, docstore.CloseFunc, error) {
	cfg := *base
	cfg.StorageBackend = strings.ToLower(backend)
	return docstore.New(ctx, &cfg, logger)
}
