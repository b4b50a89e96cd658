// Package startup sequences service dependencies with retry. Dependencies
// declare what they depend on; Start brings them up in order and retries the
// whole set with fibonacci backoff until the attempt budget runs out.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

type Dependency interface {
	GetName() string
	DependsOn() []string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type Status int

const (
	StatusPending Status = iota
	StatusStarted
	StatusStopped
	StatusFailed
)

// Func adapts a pair of functions into a Dependency.
type Func struct {
	Name    string
	Needs   []string
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context) error
}

func (f Func) GetName() string     { return f.Name }
func (f Func) DependsOn() []string { return f.Needs }

func (f Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

func (f Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

type Startup struct {
	order        []string
	dependencies map[string]Dependency
	statuses     map[string]Status
	logger       ectologger.Logger
	maxAttempts  int
}

func NewStartup(logger ectologger.Logger, maxAttempts int) *Startup {
	return &Startup{
		logger:       logger,
		dependencies: make(map[string]Dependency),
		statuses:     make(map[string]Status),
		maxAttempts:  maxAttempts,
	}
}

func (s *Startup) AddDependency(dependency Dependency) {
	name := dependency.GetName()
	if _, exists := s.dependencies[name]; !exists {
		s.order = append(s.order, name)
	}
	s.dependencies[name] = dependency
}

// Start brings every dependency up in registration order, honoring declared
// ordering constraints. Each failed attempt resets nothing: dependencies that
// already started stay started.
func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		success := true
		for _, name := range s.order {
			if err := s.startDependency(ctx, s.dependencies[name]); err != nil {
				s.logger.WithError(err).Errorf("Startup dependency '%s' attempt %d failed", name, attempt)
				lastErr = err
				success = false
				break
			}
		}

		if success {
			return nil
		}

		if attempt >= s.maxAttempts {
			return fmt.Errorf("startup failed after %d attempts: %w", attempt, lastErr)
		}

		s.logger.Infof("Retrying in %d seconds (attempt %d/%d)", a, attempt, s.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return nil
}

func (s *Startup) startDependency(ctx context.Context, dependency Dependency) error {
	name := dependency.GetName()
	if s.statuses[name] == StatusStarted {
		return nil
	}

	for _, needed := range dependency.DependsOn() {
		if s.statuses[needed] != StatusStarted {
			if err := s.startDependency(ctx, s.dependencies[needed]); err != nil {
				return err
			}
		}
	}

	s.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
	s.statuses[name] = StatusPending
	if err := dependency.Start(ctx); err != nil {
		s.statuses[name] = StatusFailed
		return err
	}
	s.statuses[name] = StatusStarted
	return nil
}

// Stop shuts dependencies down in reverse registration order.
func (s *Startup) Stop(ctx context.Context) error {
	for i := len(s.order) - 1; i >= 0; i-- {
		name := s.order[i]
		if s.statuses[name] != StatusStarted {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := s.dependencies[name].Stop(ctx); err != nil {
			s.logger.WithError(err).Errorf("Failed to stop dependency '%s'", name)
			return err
		}
		s.statuses[name] = StatusStopped
	}
	return nil
}
