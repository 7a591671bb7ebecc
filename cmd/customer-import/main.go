// Command customer-import bulk-registers customers from gzip-compressed
// NDJSON files. Records whose tax id, email or phone repeats anywhere in the
// batch are skipped and reported; the rest are created through the customer
// service with the same rules as the API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/fault"
	"github.com/Nonato2008/rapidoEseguro/internal/storage/postgres"
	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

const progressEvery = 10_000

type creator interface {
	Create(ctx context.Context, req customer.CreateRequest) (*customer.Customer, error)
}

// report counts the outcome of an import.
type report struct {
	created    int
	duplicates int
	rejected   int
}

func main() {
	var (
		databaseURL string
		cfg         filterConfig
		dryRun      bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.UintVar(&cfg.capacity, "bloom-capacity", 1_000_000, "expected number of unique values per file")
	flag.Float64Var(&cfg.fpr, "bloom-fpr", 0.001, "bloom filter false positive rate")
	flag.BoolVar(&dryRun, "dry-run", false, "only report duplicates, do not create customers")
	flag.Usage = func() {
		_, _ = os.Stderr.WriteString("usage: customer-import [flags] file.ndjson.gz...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" && !dryRun {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, files, databaseURL, cfg, dryRun); err != nil {
		slog.Error("customer import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("customer import completed successfully")
}

func run(ctx context.Context, files []string, databaseURL string, cfg filterConfig, dryRun bool) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("finding duplicates", slog.Int("files", len(files)))

	dups, err := findDuplicates(ctx, files, cfg)
	if err != nil {
		return errors.Wrap(err, "find duplicates")
	}

	slog.Info("duplicate values found", slog.Int("count", len(dups)))

	if dryRun {
		for k := range dups {
			slog.Info("duplicate", slog.String("value", k))
		}
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL, 0)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	svc := customer.NewService(postgres.NewCustomerRepository(pool))
	var rep report
	for _, path := range files {
		if err := importFile(ctx, svc, path, dups, &rep); err != nil {
			return errors.Wrapf(err, "import %s", path)
		}
	}

	slog.Info("import summary",
		slog.Int("created", rep.created),
		slog.Int("duplicates", rep.duplicates),
		slog.Int("rejected", rep.rejected),
	)
	return nil
}

// importFile creates the records of path that carry no duplicated value.
// Records the service refuses are reported and skipped; internal failures
// abort the import.
func importFile(ctx context.Context, svc creator, path string, dups map[string]struct{}, rep *report) error {
	return streamRecords(ctx, path, func(n int, f wire.Fields) error {
		if dup := duplicated(f, dups); len(dup) > 0 {
			rep.duplicates++
			slog.Warn("skipping duplicate record",
				slog.String("file", path),
				slog.Int("record", n),
				slog.String("values", strings.Join(dup, ",")),
			)
			return nil
		}

		_, err := svc.Create(ctx, f.CustomerCreate())
		switch {
		case err == nil:
			rep.created++
		case fault.KindOf(err) != fault.Internal:
			rep.rejected++
			slog.Warn("record rejected",
				slog.String("file", path),
				slog.Int("record", n),
				slog.String("reason", err.Error()),
			)
		default:
			return errors.Wrapf(err, "record %d", n)
		}

		if done := rep.created + rep.duplicates + rep.rejected; done%progressEvery == 0 {
			slog.Info("import progress", slog.Int("records", done))
		}
		return nil
	})
}

func duplicated(f wire.Fields, dups map[string]struct{}) []string {
	var out []string
	for _, k := range keys(f) {
		if _, ok := dups[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
