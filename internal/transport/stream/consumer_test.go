package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// fakeReader serves queued messages, then blocks until ctx is done.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.fetchErr != nil {
		err := r.fetchErr
		r.fetchErr = nil
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type handlerFunc func(ctx context.Context, payload []byte) error

func (f handlerFunc) Handle(ctx context.Context, payload []byte) error { return f(ctx, payload) }

func runUntil(t *testing.T, c *Consumer, done func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- c.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("timed out waiting for consumer")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-result; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestConsumer_CommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte("a")},
		{Offset: 2, Value: []byte("b")},
	}}
	var (
		mu   sync.Mutex
		seen []string
	)
	handler := handlerFunc(func(_ context.Context, payload []byte) error {
		mu.Lock()
		seen = append(seen, string(payload))
		mu.Unlock()
		return nil
	})

	runUntil(t, NewConsumer(reader, handler, 0), func() bool { return len(reader.commits()) == 2 })

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("unexpected payloads %v", seen)
	}
}

func TestConsumer_RetriesTransientFailure(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 0, Value: []byte("a")},
		{Offset: 1, Value: []byte("b")},
	}}
	var (
		mu       sync.Mutex
		failures int
		applied  = map[string]int{}
	)
	handler := handlerFunc(func(_ context.Context, payload []byte) error {
		mu.Lock()
		defer mu.Unlock()
		if string(payload) == "a" && failures < 2 {
			failures++
			return errors.New("redis down")
		}
		applied[string(payload)]++
		return nil
	})

	runUntil(t, NewConsumer(reader, handler, time.Millisecond), func() bool { return len(reader.commits()) == 2 })

	if got := reader.commits(); got[0] != 0 || got[1] != 1 {
		t.Errorf("expected offsets committed in order [0 1], got %v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if applied["a"] != 1 || applied["b"] != 1 {
		t.Errorf("expected each event applied once, got %v", applied)
	}
}

func TestConsumer_PersistentFailureBlocksCommit(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 0, Value: []byte("a")},
		{Offset: 1, Value: []byte("b")},
	}}
	var (
		mu       sync.Mutex
		attempts int
		seenB    bool
	)
	handler := handlerFunc(func(_ context.Context, payload []byte) error {
		mu.Lock()
		defer mu.Unlock()
		if string(payload) == "b" {
			seenB = true
			return nil
		}
		attempts++
		return errors.New("redis down")
	})

	runUntil(t, NewConsumer(reader, handler, time.Millisecond), func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 3
	})

	if got := reader.commits(); len(got) != 0 {
		t.Errorf("expected no commits while offset 0 fails, got %v", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if seenB {
		t.Error("offset 1 must not be handled before offset 0 succeeds")
	}
}

func TestConsumer_FetchErrorBacksOff(t *testing.T) {
	reader := &fakeReader{
		fetchErr: errors.New("broker unavailable"),
		queue:    []kafka.Message{{Offset: 5, Value: []byte("x")}},
	}
	handler := handlerFunc(func(context.Context, []byte) error { return nil })

	runUntil(t, NewConsumer(reader, handler, time.Millisecond), func() bool { return len(reader.commits()) == 1 })
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	reader := &fakeReader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewConsumer(reader, handlerFunc(func(context.Context, []byte) error { return nil }), 0).Run(ctx)
	if err != nil {
		t.Fatalf("expected nil on cancel, got %v", err)
	}
}
