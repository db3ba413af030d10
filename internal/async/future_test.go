package async

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo(t *testing.T) {
	ctx := context.Background()

	f := Go(ctx, func(context.Context) (int, error) { return 42, nil })
	v, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	g := Go(ctx, func(context.Context) (int, error) { return 0, boom })
	_, err = g.Await(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestGo_Panic(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (string, error) { panic("nil map") })
	_, err := f.Await(context.Background())

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "nil map", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestAwait_AbandonDoesNotAbort(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool

	f := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		finished.Store(true)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-f.Done()
	assert.True(t, finished.Load())

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestThen(t *testing.T) {
	ctx := context.Background()

	var order []string
	first := Go(ctx, func(context.Context) (int, error) {
		order = append(order, "first")
		return 2, nil
	})
	second := Then(ctx, first, func(_ context.Context, v int) (string, error) {
		order = append(order, "second")
		return strconv.Itoa(v * 10), nil
	})

	v, err := second.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20", v)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestThen_ShortCircuits(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	called := false
	f := Then(ctx, Failed[int](boom), func(context.Context, int) (int, error) {
		called = true
		return 0, nil
	})

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestMap(t *testing.T) {
	ctx := context.Background()
	f := Map(ctx, Resolved(3), func(v int) []int { return []int{v, v} })

	v, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, v)
}

func TestAll(t *testing.T) {
	ctx := context.Background()

	slow := Go(ctx, func(context.Context) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 1, nil
	})
	v, err := All(ctx, slow, Resolved(2), Resolved(3)).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	boom := errors.New("boom")
	_, err = All(ctx, Resolved(1), Failed[int](boom)).Await(ctx)
	assert.ErrorIs(t, err, boom)

	v, err = All[int](ctx).Await(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)
}
