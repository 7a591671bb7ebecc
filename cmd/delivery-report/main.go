// Command delivery-report lists deliveries with their price breakdown as a
// terminal table or an .xlsx workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
	"github.com/Nonato2008/rapidoEseguro/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		format      string
		out         string
		status      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&format, "format", "table", "output format: table or xlsx")
	flag.StringVar(&out, "out", "deliveries.xlsx", "output file for the xlsx format")
	flag.StringVar(&status, "status", "", "only list deliveries with this status")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if format != "table" && format != "xlsx" {
		slog.Error("unknown format", slog.String("format", format))
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, format, out, status); err != nil {
		slog.Error("delivery report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, format, out, status string) error {
	pool, err := postgres.NewPool(ctx, databaseURL, 0)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	views, err := delivery.NewService(postgres.NewDeliveryRepository(pool)).List(ctx)
	if err != nil {
		return errors.Wrap(err, "list deliveries")
	}
	if status != "" {
		s, err := order.ParseStatus(status)
		if err != nil {
			return errors.Wrap(err, "status filter")
		}
		views = filterStatus(views, s)
	}

	if format == "table" {
		return writeTable(os.Stdout, views)
	}

	file, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := writeWorkbook(file, views); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	slog.Info("report written", slog.String("path", out), slog.Int("deliveries", len(views)))
	return nil
}

func filterStatus(views []delivery.View, s order.Status) []delivery.View {
	out := views[:0]
	for _, v := range views {
		if v.Status == s {
			out = append(out, v)
		}
	}
	return out
}
