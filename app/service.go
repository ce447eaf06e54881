package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/fuelprice/api/history"
	"github.com/kilianp07/fuelprice/api/recommend"
	_ "github.com/kilianp07/fuelprice/app/plugins"
	"github.com/kilianp07/fuelprice/config"
	"github.com/kilianp07/fuelprice/core/events"
	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/monitoring"
	"github.com/kilianp07/fuelprice/core/prediction"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/infra/logger"
	"github.com/kilianp07/fuelprice/infra/metrics"
	"github.com/kilianp07/fuelprice/internal/eventbus"
)

// Service wires the pricing engine to its predictor, decision history,
// metrics sinks and HTTP API.
type Service struct {
	Engine    *pricing.Engine
	Predictor prediction.VolumePredictor
	Store     pricelog.LogStore
	Sink      coremetrics.MetricsSink

	bus       *eventbus.TypedBus[events.RecommendationEvent]
	collector <-chan struct{}
	stop      context.CancelFunc
	log       logger.Logger
	server    config.ServerConfig
	promAddr  string
	closeOnce sync.Once
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	engine, err := pricing.NewEngine(cfg.Pricing, logger.New("pricing"))
	if err != nil {
		return nil, err
	}
	pred, err := prediction.NewPredictor(cfg.Predictor)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	store, err := pricelog.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc := NewWithDeps(engine, pred, store, sink, log)
	svc.server = cfg.Server
	svc.promAddr = cfg.Metrics.PrometheusAddress
	return svc, nil
}

// NewWithDeps assembles a Service from already built components and starts
// the metrics collector. sink may be nil.
func NewWithDeps(engine *pricing.Engine, pred prediction.VolumePredictor, store pricelog.LogStore, sink coremetrics.MetricsSink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.NewTypedWithBuffer[events.RecommendationEvent](64)
	s := &Service{
		Engine:    engine,
		Predictor: pred,
		Store:     store,
		Sink:      sink,
		bus:       bus,
		stop:      cancel,
		log:       log,
	}
	s.server.SetDefaults()
	s.collector = metrics.StartEventCollector(ctx, bus, sink)
	return s
}

// Events returns the bus decisions are published on.
func (s *Service) Events() *eventbus.TypedBus[events.RecommendationEvent] { return s.bus }

// Recommend runs the engine for day and persists the decision. A zero
// previous price is replaced by the latest applied price from the history.
// Infeasible guardrails and missing feasible candidates hold the previous
// price and are not returned as errors. Invalid input is recorded and
// returned as a pricing.InvalidContextError.
func (s *Service) Recommend(ctx context.Context, day model.DayContext, source string) (pricelog.LogRecord, error) {
	day.Date = pricelog.Day(day.Date)
	if day.PreviousPrice == 0 && !day.Date.IsZero() {
		prev, ok, err := pricelog.LatestApplied(ctx, s.Store, day.Date)
		if err != nil {
			return pricelog.LogRecord{}, fmt.Errorf("previous price lookup: %w", err)
		}
		if ok {
			day.PreviousPrice = prev.AppliedPrice
		}
	}

	start := time.Now()
	rec, err := s.Engine.RecommendContext(ctx, day, s.Predictor)
	elapsed := time.Since(start)
	outcome := pricing.Outcome(err)
	if outcome == pricing.OutcomeError {
		return pricelog.LogRecord{}, err
	}

	out := pricelog.LogRecord{
		ID:        pricelog.NewRecordID(),
		Timestamp: time.Now().UTC(),
		Date:      day.Date,
		Source:    source,
		Context:   day,
		Outcome:   outcome,
	}
	switch outcome {
	case pricing.OutcomeRecommended:
		out.Action = events.ActionApply
		out.AppliedPrice = rec.RecommendedPrice
		out.Recommendation = &rec
	case pricing.OutcomeInvalidContext:
		out.Action = events.ActionReject
		out.Error = err.Error()
	default:
		out.Action = events.ActionHold
		out.AppliedPrice = day.PreviousPrice
		out.Error = err.Error()
		s.log.Warnf("holding previous price %.4f for %s: %v", day.PreviousPrice, day.Date.Format(time.DateOnly), err)
	}
	if outcome == pricing.OutcomeNoFeasibleCandidate {
		monitoring.CaptureException(err, map[string]string{
			"outcome": outcome,
			"date":    day.Date.Format(time.DateOnly),
		})
	}

	if aerr := s.Store.Append(ctx, out); aerr != nil {
		aerr = fmt.Errorf("persist decision: %w", aerr)
		if outcome == pricing.OutcomeInvalidContext {
			return out, errors.Join(err, aerr)
		}
		return out, aerr
	}
	s.bus.Publish(events.RecommendationEvent{
		Date:           out.Date,
		Outcome:        out.Outcome,
		Action:         out.Action,
		AppliedPrice:   out.AppliedPrice,
		Recommendation: out.Recommendation,
		Err:            err,
		Duration:       elapsed,
		Source:         source,
	})
	s.recordPredictorHealth()

	if outcome == pricing.OutcomeInvalidContext {
		return out, err
	}
	return out, nil
}

type breakerReporter interface {
	BreakerState() string
}

func (s *Service) recordPredictorHealth() {
	br, ok := s.Predictor.(breakerReporter)
	if !ok {
		return
	}
	rec, ok := s.Sink.(coremetrics.PredictorHealthRecorder)
	if !ok {
		return
	}
	h := coremetrics.PredictorHealth{Predictor: "remote", State: br.BreakerState(), Time: time.Now()}
	if err := rec.RecordPredictorHealth(h); err != nil {
		s.log.Errorf("record predictor health: %v", err)
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/recommend", recommend.NewHandler(s))
	mux.Handle("/api/recommendations", history.NewHandler(s.Store, s.server.Token))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Run serves the HTTP API, and Prometheus metrics when configured, until
// the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer monitoring.Recover()
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{
		Addr:              s.server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.server.ReadTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving API on %s", s.server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops the metrics collector and releases the history store.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.bus.Close()
		<-s.collector
		s.stop()
		if n := s.bus.Dropped(); n > 0 {
			s.log.Warnf("%d decision events were not recorded by the metrics collector", n)
		}
		if c, ok := s.Sink.(interface{ Close() }); ok {
			c.Close()
		}
		err = s.Store.Close()
	})
	return err
}
