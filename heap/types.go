package heap

import (
	"github.com/wippyai/script-array/typeinfo"
)

// Event types for object lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents an object lifecycle event.
type Event struct {
	Value  any
	Ref    typeinfo.Ref
	TypeID typeinfo.ID
	Refs   int32
	Type   EventType
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnHeapEvent(Event)
}

// Dropper is implemented by values that need cleanup when their last
// reference is released.
type Dropper interface {
	Drop()
}
