// Package app wires the engine to its stores, sinks and outer surfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/fleetsim/api"
	"github.com/kilianp07/fleetsim/config"
	"github.com/kilianp07/fleetsim/core/clock"
	"github.com/kilianp07/fleetsim/core/engine"
	"github.com/kilianp07/fleetsim/core/events"
	coremetrics "github.com/kilianp07/fleetsim/core/metrics"
	"github.com/kilianp07/fleetsim/core/state"
	"github.com/kilianp07/fleetsim/infra/logger"
	"github.com/kilianp07/fleetsim/infra/metrics"
	"github.com/kilianp07/fleetsim/infra/mqtt"
	_ "github.com/kilianp07/fleetsim/infra/statestore"
	"github.com/kilianp07/fleetsim/internal/eventbus"
)

// Service orchestrates the engine, the clock driver and the connectors.
type Service struct {
	Engine *engine.Engine
	Driver *clock.Driver

	cfg    *config.Config
	store  state.Store
	sink   coremetrics.MetricsSink
	bus    *eventbus.Bus[events.Event]
	bridge *mqtt.Bridge
	http   *http.Server
	log    logger.Logger
}

// New creates a Service from the configuration and restores the persisted
// state.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	store, err := state.New(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("state store: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New[events.Event](0)
	eng, err := engine.New(cfg.Engine,
		engine.WithStateStore(store),
		engine.WithMetrics(sink),
		engine.WithBus(bus),
		engine.WithLogger(logger.New("engine")),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	if err := eng.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore state: %w", err)
	}

	driver := clock.NewDriver(clock.TickableFunc(func() { eng.Tick() }), cfg.Engine.TickInterval(), nil)
	if cfg.Engine.Autostart {
		driver.Start()
	}

	svc := &Service{
		Engine: eng,
		Driver: driver,
		cfg:    cfg,
		store:  store,
		sink:   sink,
		bus:    bus,
		log:    logg,
	}

	if cfg.MQTT.Enabled() {
		b, err := mqtt.NewBridge(cfg.MQTT, eng)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt bridge: %w", err)
		}
		svc.bridge = b
	}

	if cfg.HTTP.Addr != "" {
		svc.http = &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: api.NewRouter(api.Dependencies{
				Engine: eng,
				Clock:  driver,
				Token:  cfg.HTTP.Token,
				Logger: logger.New("http"),
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled or a
// listener fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Driver.Run(ctx)
	}()

	if s.bridge != nil {
		sub := s.bus.Subscribe()
		if err := s.bridge.PublishState(); err != nil {
			s.log.Warnf("initial state publish: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.bridge.Run(ctx, sub)
		}()
	}

	if s.cfg.Metrics.PrometheusEnabled() && s.cfg.Metrics.PrometheusAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				errCh <- fmt.Errorf("prom server: %w", err)
			}
		}()
	}

	if s.http != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Duration(s.cfg.HTTP.ShutdownTimeout)*time.Second)
			defer done()
			if err := s.http.Shutdown(shutdownCtx); err != nil {
				s.log.Warnf("http shutdown: %v", err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.log.Infof("serving api on %s", s.http.Addr)
			if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	s.log.Infof("service started, clock running=%t interval=%s", s.Driver.Running(), s.Driver.Interval())
	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
		s.log.Errorf("%v", err)
	}
	cancel()
	wg.Wait()
	return err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.bridge != nil {
		s.bridge.Close()
	}
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.store.Close()
}
