package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pharma-intel/internal/extract"
	"github.com/sells-group/pharma-intel/internal/report"
	"github.com/sells-group/pharma-intel/internal/resolver"
	"github.com/sells-group/pharma-intel/internal/store"
	"github.com/sells-group/pharma-intel/internal/synthetic"
	"github.com/sells-group/pharma-intel/pkg/clinicaltrials"
	"github.com/sells-group/pharma-intel/pkg/openalex"
	"github.com/sells-group/pharma-intel/pkg/patentsview"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "pharma-intel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResolver wires the source chains. A nil store is fine; the documents
// chain then starts at its synthetic fallback.
func initResolver(st store.Store) (*resolver.Resolver, error) {
	extractCfg := extract.DefaultConfig()
	if cfg.Extract.ConfigFile != "" {
		loaded, err := extract.LoadConfig(cfg.Extract.ConfigFile)
		if err != nil {
			return nil, err
		}
		extractCfg = loaded
	}
	extractor, err := extract.New(extractCfg)
	if err != nil {
		return nil, err
	}

	registry := resolver.NewRegistry()
	if !cfg.ClinicalTrials.Disabled {
		registry.Register(resolver.NewTrialsAdapter(clinicaltrials.NewClient(
			clinicaltrials.WithBaseURL(cfg.ClinicalTrials.BaseURL),
			clinicaltrials.WithRateLimit(cfg.ClinicalTrials.RateRPS),
		)))
	}
	if !cfg.OpenAlex.Disabled {
		registry.Register(resolver.NewWebAdapter(openalex.NewClient(
			cfg.OpenAlex.Mailto,
			openalex.WithBaseURL(cfg.OpenAlex.BaseURL),
			openalex.WithRateLimit(cfg.OpenAlex.RateRPS),
		)))
	}
	if !cfg.PatentsView.Disabled {
		registry.Register(resolver.NewPatentsAdapter(patentsview.NewClient(
			cfg.PatentsView.APIKey,
			patentsview.WithBaseURL(cfg.PatentsView.BaseURL),
			patentsview.WithRateLimit(cfg.PatentsView.RateRPS),
		)))
	}
	if st != nil {
		registry.Register(resolver.NewDocsAdapter(st))
	}

	opts := []resolver.Option{
		resolver.WithFetchTimeout(time.Duration(cfg.Resolver.FetchTimeoutSecs) * time.Second),
		resolver.WithDefaultLimit(cfg.Resolver.DefaultLimit),
	}
	if cfg.Resolver.ChainsFile != "" {
		chains, err := resolver.LoadChains(cfg.Resolver.ChainsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolver.WithChains(chains))
	}

	return resolver.New(registry, synthetic.New(nil), extractor, opts...), nil
}

// reportEnv bundles everything report generation needs.
type reportEnv struct {
	store        store.Store
	resolver     *resolver.Resolver
	orchestrator *resolver.Orchestrator
	engine       *report.Engine
}

func (e *reportEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

func initReportEnv(ctx context.Context, mode string) (*reportEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	var st store.Store
	if mode != "resolve" {
		s, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		st = s
	}

	r, err := initResolver(st)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}

	return &reportEnv{
		store:        st,
		resolver:     r,
		orchestrator: resolver.NewOrchestrator(r),
		engine:       report.NewEngine(),
	}, nil
}
