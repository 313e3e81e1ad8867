package telemetry

import (
	"context"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	pb "github.com/robotalks/romi.go/pkg/proto/romi/v1"
)

// Sink receives encoded messages.
type Sink interface {
	Publish(topic string, payload []byte) error
}

// Publisher encodes and publishes snapshots on its own goroutine so the
// cooperative task handing them over never waits on the network.
type Publisher struct {
	Sink  Sink
	Topic string

	ch        chan *pb.Snapshot
	published atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// NewPublisher creates a Publisher holding at most backlog snapshots.
func NewPublisher(sink Sink, topic string, backlog int) *Publisher {
	if backlog < 1 {
		backlog = 1
	}
	return &Publisher{Sink: sink, Topic: topic, ch: make(chan *pb.Snapshot, backlog)}
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "telemetry"
}

// Offer queues a snapshot, dropping it if the backlog is full.
func (p *Publisher) Offer(s *pb.Snapshot) bool {
	select {
	case p.ch <- s:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// Counters returns published, dropped and failed counts.
func (p *Publisher) Counters() (published, dropped, failed int64) {
	return p.published.Load(), p.dropped.Load(), p.failed.Load()
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-p.ch:
			p.publish(s)
		}
	}
}

func (p *Publisher) publish(s *pb.Snapshot) {
	data, err := proto.Marshal(s)
	if err == nil {
		err = p.Sink.Publish(p.Topic, data)
	}
	if err != nil {
		p.failed.Add(1)
		glog.V(1).Infof("telemetry: publish failed: %v", err)
		return
	}
	p.published.Add(1)
}

// Decode parses a published snapshot.
func Decode(payload []byte) (*pb.Snapshot, error) {
	var s pb.Snapshot
	if err := proto.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
