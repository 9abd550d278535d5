package heartbeat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envnode-go/bus"
	"envnode-go/services/node"
	"envnode-go/types"
	"envnode-go/x/logx"
)

type recLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recLogger) add(msg string) {
	r.mu.Lock()
	r.lines = append(r.lines, msg)
	r.mu.Unlock()
}

func (r *recLogger) Debug(msg string)        { r.add(msg) }
func (r *recLogger) Info(msg string)         { r.add(msg) }
func (r *recLogger) Warn(msg string)         { r.add(msg) }
func (r *recLogger) Error(msg string)        { r.add(msg) }
func (r *recLogger) With(string) logx.Logger { return r }

func (r *recLogger) contains(sub string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestLine(t *testing.T) {
	s := New(0)
	assert.Equal(t, time.Minute, s.Interval)
	assert.Equal(t, "alive, no readings yet", s.Line())

	s.last = types.Snapshot{TicksSinceReset: 120, NumPoints: 8, TicksSinceLastTx: 17}
	s.seen = true
	assert.Equal(t, "alive ticks=120 points=8 last_tx=17", s.Line())

	s.last.Errors.CO2 = true
	assert.Equal(t, "alive ticks=120 points=8 last_tx=17 errors", s.Line())
}

func TestStartLogsLatestSnapshot(t *testing.T) {
	b := bus.NewBus(4)
	pub := b.NewConnection("node")
	pub.Publish(pub.NewMessage(node.TopicSnapshot, types.Snapshot{TicksSinceReset: 36, NumPoints: 3}, true))

	rec := &recLogger{}
	s := New(10 * time.Millisecond)
	s.log = rec

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx, b.NewConnection("heartbeat")))

	require.Eventually(t, func() bool { return rec.contains("alive ticks=36 points=3") },
		time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return rec.contains("heartbeat stopping") },
		time.Second, 5*time.Millisecond)
}
