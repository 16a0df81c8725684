package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/learnly/course-platform/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher delivers mail asynchronously through a fixed set of workers,
// sharded by recipient so messages to the same address keep their order.
// It satisfies ports.Mailer: Send enqueues and returns immediately.
type Dispatcher struct {
	workers []chan ports.Mail
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers
// wrapping the given delivery mailer. If numWorkers <= 0, defaultWorkers
// is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Mail, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Mail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues the mail on the worker responsible for its recipient. The
// call is non-blocking up to channelBuffer capacity and never reports
// delivery failures to the caller; those are logged by the worker.
func (d *Dispatcher) Send(_ context.Context, mail ports.Mail) error {
	d.workers[d.shardIndex(mail.To)] <- mail
	return nil
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Mail) {
	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, mail); err != nil {
				d.log.Error().Err(err).
					Str("to", mail.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}
