package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

// uniqueFields are the customer fields that must not repeat across a batch,
// with the prefix that keeps their values apart in the filters.
var uniqueFields = [...]struct {
	name   string
	prefix string
}{
	{name: wire.CustomerTaxID, prefix: "cpf:"},
	{name: wire.CustomerEmail, prefix: "email:"},
	{name: wire.CustomerPhone, prefix: "phone:"},
}

// keys returns the prefixed unique values present in f, trimmed the way the
// customer service stores them.
func keys(f wire.Fields) []string {
	out := make([]string, 0, len(uniqueFields))
	for _, u := range uniqueFields {
		if v := strings.TrimSpace(f[u.name]); v != "" {
			out = append(out, u.prefix+v)
		}
	}
	return out
}

type filterConfig struct {
	capacity uint
	fpr      float64
}

// fileFilter holds what pass 1 learned about one file: every key it contains
// and the keys that may repeat inside it.
type fileFilter struct {
	all      *bloom.BloomFilter
	repeated map[string]struct{}
}

// findDuplicates returns the keys that occur more than once across files.
//
// Pass 1 builds one bloom filter per file. Pass 2 counts, exactly, every key
// that the filters flag as a possible repeat: a key repeated within its own
// file or present in another file's filter. Keys whose exact count reaches
// two are duplicates; bloom false positives end with a count of one.
func findDuplicates(ctx context.Context, files []string, cfg filterConfig) (map[string]struct{}, error) {
	filters := make([]fileFilter, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			ff, err := buildFilter(gCtx, path, cfg)
			if err != nil {
				return errors.Wrapf(err, "pass 1 %s", path)
			}
			filters[i] = ff
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make([]map[string]int, len(files))
	g, gCtx = errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			c, err := countCandidates(gCtx, path, i, filters)
			if err != nil {
				return errors.Wrapf(err, "pass 2 %s", path)
			}
			counts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := map[string]int{}
	for _, c := range counts {
		for k, n := range c {
			merged[k] += n
		}
	}
	dups := map[string]struct{}{}
	for k, n := range merged {
		if n > 1 {
			dups[k] = struct{}{}
		}
	}
	return dups, nil
}

func buildFilter(ctx context.Context, path string, cfg filterConfig) (fileFilter, error) {
	ff := fileFilter{
		all:      bloom.NewWithEstimates(cfg.capacity, cfg.fpr),
		repeated: map[string]struct{}{},
	}
	var records int
	err := streamRecords(ctx, path, func(_ int, f wire.Fields) error {
		records++
		for _, k := range keys(f) {
			if ff.all.TestAndAddString(k) {
				ff.repeated[k] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return fileFilter{}, err
	}
	slog.Info("pass 1 complete",
		slog.String("file", path),
		slog.Int("records", records),
		slog.Int("possible_repeats", len(ff.repeated)),
	)
	return ff, nil
}

func countCandidates(ctx context.Context, path string, idx int, filters []fileFilter) (map[string]int, error) {
	counts := map[string]int{}
	err := streamRecords(ctx, path, func(_ int, f wire.Fields) error {
		for _, k := range keys(f) {
			if candidate(k, idx, filters) {
				counts[k]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("pass 2 complete", slog.String("file", path), slog.Int("candidates", len(counts)))
	return counts, nil
}

func candidate(key string, idx int, filters []fileFilter) bool {
	if _, ok := filters[idx].repeated[key]; ok {
		return true
	}
	for j, ff := range filters {
		if j != idx && ff.all.TestString(key) {
			return true
		}
	}
	return false
}

// streamRecords calls fn for every record of a gzip-compressed NDJSON file.
func streamRecords(ctx context.Context, path string, fn func(n int, f wire.Fields) error) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer func() { _ = file.Close() }()

	gz, err := pgzip.NewReader(file)
	if err != nil {
		return errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	return wire.Each(jx.Decode(gz, 64*1024), func(n int, f wire.Fields) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(n, f)
	})
}
