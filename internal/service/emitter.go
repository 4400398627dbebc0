package service

import "github.com/talenttrackapp/talenttrack-server/internal/sse"

// EventEmitter pushes events to connected clients. Satisfied by
// *sse.Manager; tests use NoopEmitter.
type EventEmitter interface {
	Emit(event sse.Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

// NewNoopEmitter creates an emitter that drops everything.
func NewNoopEmitter() *NoopEmitter { return &NoopEmitter{} }

// Emit does nothing.
func (*NoopEmitter) Emit(sse.Event) {}
