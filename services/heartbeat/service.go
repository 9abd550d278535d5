// Package heartbeat logs a periodic liveness line for the node, built from
// the latest snapshot seen on the bus.
package heartbeat

import (
	"context"
	"time"

	"envnode-go/bus"
	"envnode-go/services/node"
	"envnode-go/types"
	"envnode-go/x/conv"
	"envnode-go/x/logx"
)

// Service logs a liveness line every Interval.
type Service struct {
	Interval time.Duration

	log  logx.Logger
	last types.Snapshot
	seen bool
}

// New returns a heartbeat at interval; zero means one minute.
func New(interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{Interval: interval, log: logx.Named("heartbeat")}
}

// Line formats the liveness line for the latest snapshot.
func (s *Service) Line() string {
	if !s.seen {
		return "alive, no readings yet"
	}
	b := make([]byte, 0, 64)
	b = append(b, "alive ticks="...)
	b = conv.AppendUint(b, uint64(s.last.TicksSinceReset))
	b = append(b, " points="...)
	b = conv.AppendUint(b, uint64(s.last.NumPoints))
	b = append(b, " last_tx="...)
	b = conv.AppendUint(b, uint64(s.last.TicksSinceLastTx))
	if s.last.Errors.Any() {
		b = append(b, " errors"...)
	}
	return string(b)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(node.TopicSnapshot)
	defer conn.Unsubscribe(sub)

	tick := time.NewTicker(s.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("heartbeat stopping")
			return
		case <-tick.C:
			s.log.Info(s.Line())
		case msg := <-sub.Channel():
			if snap, ok := msg.Payload.(types.Snapshot); ok {
				s.last, s.seen = snap, true
			}
		}
	}
}

// Start runs the heartbeat until ctx is done.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
