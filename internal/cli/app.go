package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pourhouse/pourhouse/internal/blobstore"
	"github.com/pourhouse/pourhouse/internal/config"
	"github.com/pourhouse/pourhouse/internal/logging"
	"github.com/pourhouse/pourhouse/internal/pricing"
	"github.com/pourhouse/pourhouse/internal/report"
	"github.com/pourhouse/pourhouse/internal/store"
)

// app bundles the opened engine and its collaborators for one command run.
// The engine is the single source of truth; everything else reads through it.
type app struct {
	cfg     *config.Config
	engine  *store.Engine
	prices  *pricing.PriceList
	builder *report.Builder
}

// openApp loads configuration, configures logging and opens the engine.
// A corrupt persisted image surfaces here as a fatal command error.
func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	blobs, err := blobstore.NewFS(cfg.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open data directory", err)
	}

	engine := store.New(blobs, nil)
	if err := engine.Open(ctx); err != nil {
		return nil, WrapExitError(ExitFailure, "open store", err)
	}

	prices, err := pricing.Load(ctx, engine, cfg.DefaultPrices)
	if err != nil {
		engine.Close()
		return nil, WrapExitError(ExitFailure, "load price list", err)
	}

	return &app{
		cfg:     cfg,
		engine:  engine,
		prices:  prices,
		builder: report.NewBuilder(engine, prices),
	}, nil
}

func (a *app) close() {
	a.engine.Close()
}

const dateFlagLayout = "2006-01-02"

// filterFlags are the shared --from/--to/--event flags.
type filterFlags struct {
	from  string
	to    string
	event string
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.to, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.event, "event", "", "limit to one event")
}

func (ff *filterFlags) parse() (report.Filter, error) {
	var f report.Filter
	if ff.from != "" {
		t, err := time.ParseInLocation(dateFlagLayout, ff.from, time.UTC)
		if err != nil {
			return report.Filter{}, WrapExitError(ExitCommandError, "bad --from date", err)
		}
		f.Start = &t
	}
	if ff.to != "" {
		t, err := time.ParseInLocation(dateFlagLayout, ff.to, time.UTC)
		if err != nil {
			return report.Filter{}, WrapExitError(ExitCommandError, "bad --to date", err)
		}
		f.End = &t
	}
	f.EventID = ff.event
	return f, nil
}
