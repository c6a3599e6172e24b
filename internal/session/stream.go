package session

import (
	"context"
	"encoding/json"

	"growthbot/internal/langgraph"
)

// Runner starts streaming runs. *langgraph.Client implements it.
type Runner interface {
	StreamRun(ctx context.Context, threadID string, req langgraph.RunRequest) (*langgraph.RunStream, error)
}

// Event is delivered by Open for every stream part and once more, with Done
// set, when the stream ends.
type Event struct {
	Part langgraph.StreamPart
	Done bool
	Err  error
}

// Open starts the run in a goroutine and returns the channel its events
// arrive on. The channel is closed when the stream ends or ctx is cancelled;
// after cancellation no Done event is guaranteed.
func Open(ctx context.Context, r Runner, threadID string, req langgraph.RunRequest) <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)

		send := func(ev Event) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		stream, err := r.StreamRun(ctx, threadID, req)
		if err != nil {
			send(Event{Done: true, Err: err})
			return
		}
		defer stream.Close()

		// The run id can be known from the response headers before the
		// service sends its metadata event.
		if id := stream.RunID(); id != "" {
			data, _ := json.Marshal(struct {
				RunID string `json:"run_id"`
			}{id})
			if !send(Event{Part: langgraph.StreamPart{Event: langgraph.EventMetadata, Data: data}}) {
				return
			}
		}

		for stream.Next() {
			if !send(Event{Part: stream.Part()}) {
				return
			}
		}
		send(Event{Done: true, Err: stream.Err()})
	}()
	return ch
}
