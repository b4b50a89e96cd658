package startup

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStartHonorsDependencyOrder(t *testing.T) {
	var started []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			started = append(started, name)
			return nil
		}
	}

	s := NewStartup(testLogger(), 1)
	s.AddDependency(Func{Name: "server", Needs: []string{"database"}, StartFn: record("server")})
	s.AddDependency(Func{Name: "database", StartFn: record("database")})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, []string{"database", "server"}, started)
}

func TestStartFailsAfterMaxAttempts(t *testing.T) {
	attempts := 0
	s := NewStartup(testLogger(), 2)
	s.AddDependency(Func{Name: "flaky", StartFn: func(context.Context) error {
		attempts++
		return errors.New("not yet")
	}})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestStartRetriesOnlyFailedDependencies(t *testing.T) {
	dbStarts := 0
	serverStarts := 0
	s := NewStartup(testLogger(), 3)
	s.AddDependency(Func{Name: "database", StartFn: func(context.Context) error {
		dbStarts++
		return nil
	}})
	s.AddDependency(Func{Name: "server", Needs: []string{"database"}, StartFn: func(context.Context) error {
		serverStarts++
		if serverStarts < 2 {
			return errors.New("port busy")
		}
		return nil
	}})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, dbStarts)
	assert.Equal(t, 2, serverStarts)
}

func TestStopReverseOrder(t *testing.T) {
	var stopped []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			stopped = append(stopped, name)
			return nil
		}
	}

	s := NewStartup(testLogger(), 1)
	s.AddDependency(Func{Name: "database", StopFn: record("database")})
	s.AddDependency(Func{Name: "server", StopFn: record("server")})

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []string{"server", "database"}, stopped)
}
