package chatclient

import "context"

// EventType tags an Event
type EventType int

const (
	EventChunk EventType = iota + 1
	EventSessionUpdate
	EventError
	EventDone
)

func (t EventType) String() string {
	switch t {
	case EventChunk:
		return "chunk"
	case EventSessionUpdate:
		return "session_update"
	case EventError:
		return "error"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is one step of a streamed reply
type Event struct {
	Type      EventType
	Chunk     string
	SessionID string
	Err       error
}

// Stream is the pull-based form of Send. The channel yields chunk and
// session events in arrival order, then one Error or Done event, then closes.
//
// The consumer must drain the channel or cancel ctx. Events still pending
// when ctx is cancelled may be dropped; the channel is closed either way.
func (c *Client) Stream(ctx context.Context, message string) <-chan Event {
	events := make(chan Event)

	emit := func(ev Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		c.Send(ctx, message, Handler{
			OnSession: func(id string) {
				emit(Event{Type: EventSessionUpdate, SessionID: id})
			},
			OnChunk: func(chunk string) {
				emit(Event{Type: EventChunk, Chunk: chunk})
			},
			OnComplete: func() {
				emit(Event{Type: EventDone})
			},
			OnError: func(err error) {
				emit(Event{Type: EventError, Err: err})
			},
		})
	}()

	return events
}
