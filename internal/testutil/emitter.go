package testutil

import "sync"

// Emitted is one socket emit captured by RecordingEmitter. UserID is "*" for broadcasts.
type Emitted struct {
	UserID string
	Event  string
	Data   interface{}
}

// RecordingEmitter satisfies realtime.Emitter and records every emit.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []Emitted
	Online map[string]bool
}

func (r *RecordingEmitter) EmitToUser(userID, event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Emitted{UserID: userID, Event: event, Data: data})
}

func (r *RecordingEmitter) EmitToAll(event string, data interface{}) {
	r.EmitToUser("*", event, data)
}

func (r *RecordingEmitter) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Online[userID]
}

// Events returns the captured emits of one event name.
func (r *RecordingEmitter) Events(event string) []Emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Emitted{}
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
