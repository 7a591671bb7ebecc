// Command seed-db creates demo customers and orders. Orders go through the
// order service, so every seeded delivery is priced like an API request.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/customer"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/order"
	"github.com/Nonato2008/rapidoEseguro/internal/storage/postgres"
	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

func main() {
	var (
		databaseURL   string
		customersFile string
		ordersFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&customersFile, "customers-file", "db/seed/customers.ndjson", "path to customers NDJSON file")
	flag.StringVar(&ordersFile, "orders-file", "db/seed/orders.ndjson", "path to orders NDJSON file; orders reference customers by cpfCliente")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, customersFile, ordersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, customersFile, ordersFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL, 0)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCustomerRepository(pool)
	orders, err := order.NewService(repo, postgres.NewOrderRepository(pool))
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	created, err := seedCustomers(ctx, customer.NewService(repo), repo, customersFile)
	if err != nil {
		return errors.Wrap(err, "seed customers")
	}

	if err := seedOrders(ctx, orders, created, ordersFile); err != nil {
		return errors.Wrap(err, "seed orders")
	}

	return nil
}

// seedCustomers creates the customers of path and returns the ids of the new
// ones keyed by tax id. Customers already registered are left untouched.
func seedCustomers(ctx context.Context, svc *customer.Service, repo customer.Repository, path string) (map[string]string, error) {
	slog.Info("reading customers file", slog.String("path", path))

	created := map[string]string{}
	err := eachRecord(path, func(n int, f wire.Fields) error {
		c, err := svc.Create(ctx, f.CustomerCreate())
		switch {
		case errors.Is(err, customer.ErrTaxIDTaken):
			existing, err := repo.FindByTaxID(ctx, f[wire.CustomerTaxID])
			if err != nil {
				return errors.Wrapf(err, "customer %d", n)
			}
			slog.Info("customer already registered", slog.String("id", existing.ID), slog.String("name", existing.Name))
			return nil
		case err != nil:
			return errors.Wrapf(err, "customer %d", n)
		}

		created[c.TaxID] = c.ID
		slog.Info("created customer", slog.String("id", c.ID), slog.String("name", c.Name))
		return nil
	})
	return created, err
}

// seedOrders creates the orders of path that belong to customers created by
// this run, so repeated runs do not duplicate orders.
func seedOrders(ctx context.Context, svc *order.Service, customers map[string]string, path string) error {
	slog.Info("reading orders file", slog.String("path", path))

	return eachRecord(path, func(n int, f wire.Fields) error {
		id, ok := customers[f[wire.CustomerTaxID]]
		if !ok {
			slog.Info("skipping order of existing customer", slog.Int("record", n))
			return nil
		}
		f[wire.CustomerID] = id

		rec, err := svc.Create(ctx, f.OrderCreate())
		if err != nil {
			return errors.Wrapf(err, "order %d", n)
		}
		slog.Info("created order",
			slog.String("id", rec.Order.ID),
			slog.String("delivery", rec.Delivery.ID),
			slog.String("final_price", rec.Delivery.Price.FinalPrice.StringFixed(2)),
		)
		return nil
	})
}

func eachRecord(path string, fn func(n int, f wire.Fields) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer func() { _ = file.Close() }()

	return wire.Each(jx.Decode(file, 4096), fn)
}
