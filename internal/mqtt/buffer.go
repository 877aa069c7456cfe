package mqtt

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO that stores messages while disconnected.
// Not safe for concurrent use; outbox holds the lock.
type ringBuffer struct {
	buf      []bufferedMsg
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any message was dropped since last drain
	log      logrus.FieldLogger
}

func newRingBuffer(capacity int, log logrus.FieldLogger) *ringBuffer {
	return &ringBuffer{
		buf:      make([]bufferedMsg, capacity),
		capacity: capacity,
		log:      log,
	}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	if r.count == r.capacity {
		if !r.overflow {
			r.log.WithField("capacity", r.capacity).Warn("mqtt: buffer full, dropping oldest")
			r.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = msg
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % r.capacity
	r.count++
}

// take removes and returns up to n of the oldest messages. n <= 0 takes all.
func (r *ringBuffer) take(n int) []bufferedMsg {
	if n <= 0 || n > r.count {
		n = r.count
	}
	if n == 0 {
		return nil
	}

	result := make([]bufferedMsg, n)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < n; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count -= n
	if r.count == 0 {
		r.head = 0
		r.overflow = false
	}
	return result
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	return r.take(0)
}

func (r *ringBuffer) len() int {
	return r.count
}

// publishBatch caps how many queued messages a single publish call sends.
const publishBatch = 8

// outbox queues every message and sends from the head of the queue, so
// delivery order always matches publish order. The lock is never held
// across a send.
type outbox struct {
	mu      sync.Mutex
	buf     *ringBuffer
	sending bool
	online  func() bool
	send    func(bufferedMsg) error
}

func newOutbox(capacity int, log logrus.FieldLogger, online func() bool, send func(bufferedMsg) error) *outbox {
	return &outbox{
		buf:    newRingBuffer(capacity, log),
		online: online,
		send:   send,
	}
}

// publish queues msg and, while online, sends up to publishBatch messages
// from the head of the queue. A failed send stays at the head for the next
// attempt. If another goroutine is already sending, msg is left queued for it.
func (o *outbox) publish(msg bufferedMsg) error {
	o.mu.Lock()
	o.buf.push(msg)
	o.mu.Unlock()

	if !o.online() {
		return nil
	}
	_, err := o.drain(publishBatch)
	return err
}

// flush replays all queued messages in order. It stops at the first failure
// and keeps the unsent tail at the head of the queue.
func (o *outbox) flush() (int, error) {
	return o.drain(0)
}

// drain sends queued messages oldest first. max <= 0 sends until the queue
// is empty, including messages queued while draining.
func (o *outbox) drain(max int) (int, error) {
	o.mu.Lock()
	if o.sending {
		o.mu.Unlock()
		return 0, nil
	}
	o.sending = true

	sent := 0
	for {
		want := 0
		if max > 0 {
			want = max - sent
			if want <= 0 {
				break
			}
		}
		batch := o.buf.take(want)
		if len(batch) == 0 {
			break
		}
		o.mu.Unlock()

		for i, msg := range batch {
			if err := o.send(msg); err != nil {
				o.mu.Lock()
				o.requeue(batch[i:])
				o.sending = false
				o.mu.Unlock()
				return sent, err
			}
			sent++
		}

		o.mu.Lock()
	}

	o.sending = false
	o.mu.Unlock()
	return sent, nil
}

// requeue puts unsent messages back ahead of anything queued meanwhile.
// Caller holds the lock.
func (o *outbox) requeue(unsent []bufferedMsg) {
	later := o.buf.drainAll()
	for _, m := range unsent {
		o.buf.push(m)
	}
	for _, m := range later {
		o.buf.push(m)
	}
}

func (o *outbox) pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.len()
}
