package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-scout/internal/acquire"
	"github.com/sells-group/profile-scout/internal/job"
	"github.com/sells-group/profile-scout/internal/match"
	"github.com/sells-group/profile-scout/internal/search"
	"github.com/sells-group/profile-scout/internal/store"
	"github.com/sells-group/profile-scout/pkg/googlecse"
)

// initStore opens the SQLite store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// newResolver builds the search resolver. Without credentials the client is
// nil and resolution degrades to deterministic mock results.
func newResolver() *search.Resolver {
	var client googlecse.Client
	if cfg.Search.APIKey != "" && cfg.Search.EngineID != "" {
		client = googlecse.NewClient(cfg.Search.APIKey, cfg.Search.EngineID,
			googlecse.WithBaseURL(cfg.Search.BaseURL))
	}
	gate := search.NewGate(cfg.Search.Delay, cfg.Search.DailyQuota)
	return search.NewResolver(client, gate, cfg.Search)
}

// newRunner wires the full pipeline.
func newRunner(st store.Store) *job.Runner {
	return job.NewRunner(
		st,
		newResolver(),
		acquire.NewAcquirer(cfg.Acquire),
		match.NewEngine(cfg.Match),
		cfg.Batch,
	)
}

// printJSON writes an indented JSON rendering to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Println(string(out))
	return nil
}
