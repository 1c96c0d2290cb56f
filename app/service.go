package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	balanceapi "github.com/kilianp07/phasebal/api/balance"
	"github.com/kilianp07/phasebal/config"
	"github.com/kilianp07/phasebal/core/balance"
	"github.com/kilianp07/phasebal/core/events"
	coremetrics "github.com/kilianp07/phasebal/core/metrics"
	"github.com/kilianp07/phasebal/core/runlog"
	"github.com/kilianp07/phasebal/infra/logger"
	"github.com/kilianp07/phasebal/infra/metrics"
	"github.com/kilianp07/phasebal/internal/eventbus"
)

const shutdownTimeout = 5 * time.Second

// Service serves the balancing API and forwards balancing runs to the
// configured metrics sinks.
type Service struct {
	Balancer  *balance.Balancer
	cfg       *config.Config
	sink      coremetrics.BalanceRecorder
	runs      runlog.Store
	bus       *eventbus.Bus
	collector *metrics.EventCollector
	handler   http.Handler
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	bus := eventbus.New()
	opt := balance.NewOptimizer(cfg.Balance.Seed, cfg.Balance.RandomPasses)
	b, err := balance.NewBalancer(opt, sink, bus, logger.New("balancer"))
	if err != nil {
		coremetrics.Close(sink)
		return nil, err
	}
	collector, err := metrics.NewEventCollector(prometheus.DefaultRegisterer, logger.New("collector"))
	if err != nil {
		coremetrics.Close(sink)
		return nil, fmt.Errorf("event collector: %w", err)
	}
	runs, err := runlog.NewStore(cfg.History)
	if err != nil {
		coremetrics.Close(sink)
		return nil, fmt.Errorf("run log: %w", err)
	}
	if runs != nil {
		b.SetRunLog(runs)
	}

	handler := balanceapi.NewMux(b, balanceapi.Options{
		Token:        cfg.Server.Token,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		History:      runs,
		Logger:       logger.New("api"),
	})
	return &Service{
		Balancer:  b,
		cfg:       cfg,
		sink:      sink,
		runs:      runs,
		bus:       bus,
		collector: collector,
		handler:   handler,
		log:       logg,
	}, nil
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler { return s.handler }

// Run serves the API on the configured address until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the API on ln until the context is cancelled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.collector.Start(ctx, s.bus)
	s.watch(ctx)
	if s.cfg.Metrics.PrometheusEnabled() {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddress); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout(),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// watch logs advisories of non-compliant runs.
func (s *Service) watch(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				e, isBalance := ev.(events.BalanceEvent)
				if !isBalance || e.Compliant {
					continue
				}
				for _, rec := range e.Recommendations {
					s.log.Warnf("run %s: %s", e.RunID, rec)
				}
			}
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	coremetrics.Close(s.sink)
	if s.runs != nil {
		return s.runs.Close()
	}
	return nil
}
