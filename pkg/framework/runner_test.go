package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunnerFirstReturnStopsAll(t *testing.T) {
	r := NewRunner()
	failure := errors.New("broken link")
	var order []string
	r.OnStopped(func() { order = append(order, "first") })
	r.OnStopped(func() { order = append(order, "second") })
	r.Go(
		NamedRun("waiter", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(context.Context) error {
			return failure
		}),
	)
	err := r.Wait()
	require.Equal(t, failure, err)
	require.Equal(t, []string{"second", "first"}, order)
}

func TestRunnerAggregatesErrors(t *testing.T) {
	r := NewRunner()
	r.Go(
		RunFunc(func(context.Context) error { return errors.New("a") }),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("b")
		}),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Len(t, agg.Errors, 2)
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestRunWithContextCloser(t *testing.T) {
	t.Run("cancel closes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		doneCh := make(chan struct{})
		closed := 0
		go func() {
			time.Sleep(5 * time.Millisecond)
			cancel()
		}()
		err := RunWithContextCloser(ctx, closerFunc(func() error {
			closed++
			close(doneCh)
			return nil
		}), func() error {
			<-doneCh
			return errors.New("closed")
		})
		require.Equal(t, context.Canceled, err)
		require.Equal(t, 1, closed)
	})

	t.Run("return closes", func(t *testing.T) {
		closed := 0
		err := RunWithContextCloser(context.Background(), closerFunc(func() error {
			closed++
			return nil
		}), func() error {
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, closed)
	})
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("one"))
	require.Equal(t, "one", errs.Aggregate().Error())
	errs.Add(errors.New("two"))
	require.Contains(t, errs.Aggregate().Error(), "Multiple errors:")
}

func TestManualClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewManualClock(start)
	require.Equal(t, start, c.Time())
	require.Equal(t, start.Add(time.Second), c.Advance(time.Second))
	c.Set(start)
	require.Equal(t, start, c.Time())
}
