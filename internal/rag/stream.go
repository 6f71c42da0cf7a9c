package rag

import "context"

// Fragment is one ordered piece of a streamed answer. A fragment with a
// non-nil Err terminates the turn; text emitted before it still stands.
type Fragment struct {
	Text string
	Err  error
}

// streamBuffer decouples the producer from a slow consumer without
// letting an abandoned stream hold a goroutine forever: cancellation of
// the producing context unblocks every send.
const streamBuffer = 16

// Stream delivers answer fragments to a single consumer, strictly in
// production order. C is closed after the last fragment; concatenating
// the Text of every received fragment reconstructs the full answer.
type Stream struct {
	C <-chan Fragment
}

// Collect drains the stream, concatenating fragment text. It returns the
// text received so far plus the first error fragment, if any.
func (s *Stream) Collect() (string, error) {
	var text []byte
	var err error
	for f := range s.C {
		text = append(text, f.Text...)
		if f.Err != nil && err == nil {
			err = f.Err
		}
	}
	return string(text), err
}

// emit delivers a fragment unless the consumer is gone. Returns false
// when the context is done, signalling the producer to stop.
func emit(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
