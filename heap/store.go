package heap

import (
	"errors"
	"sync"

	"github.com/wippyai/script-array/typeinfo"
)

var (
	ErrClosed = errors.New("heap store closed")
	ErrFull   = errors.New("heap store has no free references")
)

// Store is an in-memory object table addressed by typeinfo.Ref.
// Every entry carries a reference count; the entry is dropped when the count
// reaches zero. Ref 0 is reserved and always invalid.
// Thread-safe.
type Store struct {
	entries   []entry
	freeList  []typeinfo.Ref
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value  any
	typeID typeinfo.ID
	refs   int32
	valid  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:  make([]entry, 0, 64),
		freeList: make([]typeinfo.Ref, 0, 16),
	}
}

// New stores a value with a reference count of one and returns its ref.
func (s *Store) New(typeID typeinfo.ID, value any) (typeinfo.Ref, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return typeinfo.Null, ErrClosed
	}

	e := entry{
		value:  value,
		typeID: typeID,
		refs:   1,
		valid:  true,
	}

	var ref typeinfo.Ref
	if n := len(s.freeList); n > 0 {
		ref = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.entries[ref-1] = e
	} else {
		if uint64(len(s.entries)) >= uint64(^typeinfo.Ref(0)) {
			s.mu.Unlock()
			return typeinfo.Null, ErrFull
		}
		s.entries = append(s.entries, e)
		ref = typeinfo.Ref(len(s.entries))
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventCreated, Ref: ref, TypeID: typeID, Value: value, Refs: 1})
	return ref, nil
}

// lookup returns the live entry for r. Caller holds s.mu.
func (s *Store) lookup(r typeinfo.Ref) *entry {
	if r == typeinfo.Null || int(r) > len(s.entries) {
		return nil
	}
	e := &s.entries[r-1]
	if !e.valid {
		return nil
	}
	return e
}

// Get retrieves a value by ref.
func (s *Store) Get(r typeinfo.Ref) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.lookup(r)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Set replaces the value stored under r.
func (s *Store) Set(r typeinfo.Ref, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(r)
	if e == nil {
		return false
	}
	e.value = value
	return true
}

// TypeID returns the type ID recorded for r.
func (s *Store) TypeID(r typeinfo.Ref) (typeinfo.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.lookup(r)
	if e == nil {
		return 0, false
	}
	return e.typeID, true
}

// RefCount returns the reference count of r, or 0 if r is not live.
func (s *Store) RefCount(r typeinfo.Ref) int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := s.lookup(r)
	if e == nil {
		return 0
	}
	return e.refs
}

// AddRef increments the reference count of r.
func (s *Store) AddRef(r typeinfo.Ref) bool {
	s.mu.Lock()
	e := s.lookup(r)
	if e == nil {
		s.mu.Unlock()
		return false
	}
	e.refs++
	ev := Event{Type: EventRetained, Ref: r, TypeID: e.typeID, Value: e.value, Refs: e.refs}
	s.mu.Unlock()

	s.notify(ev)
	return true
}

// Release decrements the reference count of r and drops the entry when the
// count reaches zero. A value implementing Dropper is dropped after the store
// lock is released, so Drop may reenter the store.
func (s *Store) Release(r typeinfo.Ref) bool {
	s.mu.Lock()
	e := s.lookup(r)
	if e == nil {
		s.mu.Unlock()
		return false
	}
	e.refs--
	ev := Event{Type: EventReleased, Ref: r, TypeID: e.typeID, Value: e.value, Refs: e.refs}
	if e.refs > 0 {
		s.mu.Unlock()
		s.notify(ev)
		return true
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.refs = 0
	s.freeList = append(s.freeList, r)
	s.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	ev.Type = EventDropped
	s.notify(ev)
	return true
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over all live entries. fn must not call back into the store.
func (s *Store) Each(fn func(typeinfo.Ref, typeinfo.ID, any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(typeinfo.Ref(i+1), e.typeID, e.value) {
				break
			}
		}
	}
}

// Close drops every live entry regardless of its reference count and stops
// accepting new values.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	var droppers []Dropper
	for i := range s.entries {
		if s.entries[i].valid {
			if d, ok := s.entries[i].value.(Dropper); ok {
				droppers = append(droppers, d)
			}
			s.entries[i].valid = false
			s.entries[i].value = nil
		}
	}
	s.entries = nil
	s.freeList = nil
	s.mu.Unlock()

	for _, d := range droppers {
		d.Drop()
	}
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (s *Store) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Store) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Store) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnHeapEvent(e)
	}
}
