package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type watchCmd struct {
	inputs
	now bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "recompute the value curve on a schedule" }
func (*watchCmd) Usage() string {
	return `watch [-tx <glob>] [-prices <glob>] [-path <jsonpath>] [-now]

  Recomputes the value of the tracked instruments on the configured schedule
  and logs the latest value. Unchanged inputs reuse the previous result.
  Metrics are served on /metrics when metrics_addr is configured.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tx, "tx", "", "comma-separated globs of transaction files (JSON or JSONL)")
	f.StringVar(&c.prices, "prices", "", "comma-separated globs of price files (JSON or JSONL)")
	f.StringVar(&c.path, "path", "", "JSONPath of the records in each file, e.g. $.data")
	f.BoolVar(&c.now, "now", false, "also run once at start")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(cfg.Tracked) == 0 {
		fmt.Fprintln(os.Stderr, "no tracked instrument: set tracked in the configuration")
		return subcommands.ExitUsageError
	}

	registry := prometheus.NewRegistry()
	w := newWatcher(cfg, log, registry, &c.inputs)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := cron.New(cron.WithParser(cron.NewParser(cronFields)))
	if _, err := sched.AddFunc(cfg.Schedule, func() { w.tick(ctx) }); err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling %q: %v\n", cfg.Schedule, err)
		return subcommands.ExitFailure
	}
	if c.now {
		w.tick(ctx)
	}
	sched.Start()
	log.Info().Str("schedule", cfg.Schedule).Strs("tracked", cfg.Tracked).Msg("watching")

	<-ctx.Done()
	<-sched.Stop().Done()
	log.Info().Msg("stopped")
	return subcommands.ExitSuccess
}

// watcher recomputes the value curve, reusing the last result while the
// inputs do not change.
type watcher struct {
	cfg    *Config
	log    zerolog.Logger
	inputs *inputs
	memo   *portfolio.Memo[*portfolio.Valuation]
}

func newWatcher(cfg *Config, log zerolog.Logger, reg prometheus.Registerer, in *inputs) *watcher {
	return &watcher{
		cfg:    cfg,
		log:    log,
		inputs: in,
		memo:   portfolio.NewMemo[*portfolio.Valuation]("valuation", portfolio.WithLogger(log), portfolio.WithRegisterer(reg)),
	}
}

// runOnce loads the inputs and returns their value curve.
func (w *watcher) runOnce(ctx context.Context) (*portfolio.Valuation, error) {
	txs, err := w.inputs.transactions(ctx, w.cfg, w.cfg.Tracked...)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	prices, err := w.inputs.pricePoints(ctx, w.cfg)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	key, err := portfolio.Fingerprint(w.cfg.Tracked, w.cfg.RejectNegativePositions, txs, prices)
	if err != nil {
		return nil, err
	}
	return w.memo.Do(key, func() (*portfolio.Valuation, error) {
		v, err := portfolio.ValuationCurve(w.cfg.Tracked, txs, prices, w.cfg.LedgerOptions()...)
		if err != nil {
			return nil, err
		}
		logWarnings(w.log, v.Warnings)
		return v, nil
	})
}

func (w *watcher) tick(ctx context.Context) {
	v, err := w.runOnce(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("cannot compute the value curve")
		return
	}
	if len(v.Points) == 0 {
		w.log.Info().Msg("no trade nor price yet")
		return
	}
	last := v.Points[len(v.Points)-1]
	w.log.Info().Stringer("date", last.Date).Str("value", last.Value.String()).Str("currency", w.cfg.Currency).Msg("latest value")
}
