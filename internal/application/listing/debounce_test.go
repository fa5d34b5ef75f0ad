package listing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/newsdesk/internal/clock"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type publications struct {
	mu     sync.Mutex
	values []string
}

func (p *publications) publish(v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, v)
}

func (p *publications) get() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.values...)
}

func newTestDebouncer(t *testing.T, ctx context.Context) (*Debouncer, *clock.FakeClock, *publications) {
	t.Helper()
	clk := clock.NewFake(epoch)
	pubs := &publications{}
	d := NewDebouncer(ctx, clk, DefaultDebounceWindow, pubs.publish)
	t.Cleanup(d.Close)
	return d, clk, pubs
}

func TestDebouncer_PublishesAfterQuiescence(t *testing.T) {
	d, clk, pubs := newTestDebouncer(t, context.Background())

	d.Commit("budget")
	assert.True(t, d.Pending())

	clk.Advance(499 * time.Millisecond)
	assert.Empty(t, pubs.get())

	clk.Advance(time.Millisecond)
	assert.Equal(t, []string{"budget"}, pubs.get())
	assert.False(t, d.Pending())
}

func TestDebouncer_RapidCommitsPublishLastValueOnce(t *testing.T) {
	d, clk, pubs := newTestDebouncer(t, context.Background())

	for _, v := range []string{"b", "bu", "bud", "budg", "budge", "budget"} {
		d.Commit(v)
		clk.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, pubs.get(), "no publication while input keeps arriving")

	clk.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{"budget"}, pubs.get())

	clk.Advance(5 * time.Second)
	assert.Equal(t, []string{"budget"}, pubs.get(), "exactly one publication")
}

func TestDebouncer_EachCommitRestartsWindow(t *testing.T) {
	d, clk, pubs := newTestDebouncer(t, context.Background())

	d.Commit("a")
	clk.Advance(400 * time.Millisecond)
	d.Commit("ab")
	clk.Advance(400 * time.Millisecond)
	assert.Empty(t, pubs.get())

	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"ab"}, pubs.get())
}

func TestDebouncer_Cancel(t *testing.T) {
	d, clk, pubs := newTestDebouncer(t, context.Background())

	d.Commit("budget")
	d.Cancel()
	clk.Advance(time.Second)

	assert.Empty(t, pubs.get())
	assert.Equal(t, 0, clk.PendingCount())
}

func TestDebouncer_ContextCancellationDropsPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d, clk, pubs := newTestDebouncer(t, ctx)

	d.Commit("budget")
	cancel()
	require.Eventually(t, func() bool { return !d.Pending() }, time.Second, time.Millisecond)

	clk.Advance(time.Second)
	assert.Empty(t, pubs.get())

	d.Commit("after teardown")
	clk.Advance(time.Second)
	assert.Empty(t, pubs.get(), "commits after cancellation are ignored")
}

func TestDebouncer_Flush(t *testing.T) {
	d, clk, pubs := newTestDebouncer(t, context.Background())

	d.Flush()
	assert.Empty(t, pubs.get(), "nothing pending, nothing flushed")

	d.Commit("budget")
	d.Flush()
	assert.Equal(t, []string{"budget"}, pubs.get())

	clk.Advance(time.Second)
	assert.Equal(t, []string{"budget"}, pubs.get(), "flushed value is not published again")
}

func TestDebouncer_DefaultWindow(t *testing.T) {
	clk := clock.NewFake(epoch)
	pubs := &publications{}
	d := NewDebouncer(context.Background(), clk, 0, pubs.publish)
	defer d.Close()

	d.Commit("x")
	clk.Advance(DefaultDebounceWindow - time.Millisecond)
	assert.Empty(t, pubs.get())
	clk.Advance(time.Millisecond)
	assert.Equal(t, []string{"x"}, pubs.get())
}
