// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/metrics"
)

// BreakerSettings tunes the circuit breaker placed in front of a model runtime.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings opens after 60% failures across at least 10 calls
// and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// breaker guards calls into a runtime that can fail on its own (a native
// inference session). Input errors do not count against it.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

func newBreaker(name string, s BreakerSettings) *breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDimensionMismatch) || errors.Is(err, context.Canceled)
		},
	})

	return &breaker{cb: cb, name: name}
}

func (b *breaker) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, fmt.Errorf("%s unavailable: %w", b.name, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return result, err
}

func (b *breaker) state() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// GuardedRegressor wraps a Regressor with a circuit breaker.
type GuardedRegressor struct {
	model Regressor
	b     *breaker
}

// GuardRegressor returns model behind a breaker named name.
func GuardRegressor(name string, model Regressor, s BreakerSettings) *GuardedRegressor {
	return &GuardedRegressor{model: model, b: newBreaker(name, s)}
}

// Width returns the wrapped model's width.
func (g *GuardedRegressor) Width() int {
	return g.model.Width()
}

// PredictValue calls the wrapped model unless the circuit is open.
func (g *GuardedRegressor) PredictValue(ctx context.Context, x []float64) (float64, error) {
	res, err := g.b.execute(func() (any, error) {
		return g.model.PredictValue(ctx, x)
	})
	if err != nil {
		return 0, err
	}
	return res.(float64), nil
}

// GuardedClassifier wraps a Classifier with a circuit breaker.
type GuardedClassifier struct {
	model Classifier
	b     *breaker
}

// GuardClassifier returns model behind a breaker named name.
func GuardClassifier(name string, model Classifier, s BreakerSettings) *GuardedClassifier {
	return &GuardedClassifier{model: model, b: newBreaker(name, s)}
}

// Width returns the wrapped model's width.
func (g *GuardedClassifier) Width() int {
	return g.model.Width()
}

// PredictClass calls the wrapped model unless the circuit is open.
func (g *GuardedClassifier) PredictClass(ctx context.Context, x []float64) (int, error) {
	res, err := g.b.execute(func() (any, error) {
		return g.model.PredictClass(ctx, x)
	})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}
