package store

import (
	"sync"
)

// Entry is a validated task output keyed by the task name.
type Entry struct {
	Key   string
	Value interface{}
}

// View is read-only access to state entries.
type View interface {
	// Get returns the value stored under key.
	Get(key string) (interface{}, bool)
	// Keys returns the keys in insertion order.
	Keys() []string
	// Map returns a copy of the entries.
	Map() map[string]interface{}
	Len() int
}

// Writer is a View entries can be appended to.
type Writer interface {
	View
	// Put inserts the entry, failing with ErrDuplicateKey if the key is already present.
	Put(e Entry) error
}

// Store is the append-only state shared by the tasks of one pipeline run.
type Store interface {
	Writer
	// Snapshot returns a frozen copy of the current entries.
	Snapshot() View
}

// New returns an empty Store. It is safe for concurrent use.
func New() Store {
	return &state{
		values: make(map[string]interface{}),
	}
}

type state struct {
	mutex  sync.RWMutex
	keys   []string
	values map[string]interface{}
}

func (s *state) Put(e Entry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.values[e.Key]; exists {
		return DuplicateKeyError(e.Key)
	}
	s.values[e.Key] = e.Value
	s.keys = append(s.keys, e.Key)
	return nil
}

func (s *state) Get(key string) (interface{}, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, exists := s.values[key]
	return v, exists
}

func (s *state) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]string(nil), s.keys...)
}

func (s *state) Map() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	res := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		res[k] = v
	}
	return res
}

func (s *state) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.keys)
}

func (s *state) Snapshot() View {
	return Snapshot(s)
}

// Snapshot returns a frozen copy of v.
func Snapshot(v View) View {
	return frozen{keys: v.Keys(), values: v.Map()}
}

type frozen struct {
	keys   []string
	values map[string]interface{}
}

func (f frozen) Get(key string) (interface{}, bool) {
	v, exists := f.values[key]
	return v, exists
}

func (f frozen) Keys() []string {
	return append([]string(nil), f.keys...)
}

func (f frozen) Map() map[string]interface{} {
	res := make(map[string]interface{}, len(f.values))
	for k, v := range f.values {
		res[k] = v
	}
	return res
}

func (f frozen) Len() int {
	return len(f.keys)
}

// Overlay is a Writer reading through to a base view and keeping its own writes apart,
// so they can be merged into the parent state later or discarded.
type Overlay struct {
	base View
	own  *state
}

// NewOverlay returns an empty overlay on top of base.
func NewOverlay(base View) *Overlay {
	return &Overlay{
		base: base,
		own:  &state{values: make(map[string]interface{})},
	}
}

// Put inserts the entry in the overlay. Keys of the base view cannot be written again.
func (o *Overlay) Put(e Entry) error {
	if _, exists := o.base.Get(e.Key); exists {
		return DuplicateKeyError(e.Key)
	}
	return o.own.Put(e)
}

// Get returns the value from the overlay, or from the base view.
func (o *Overlay) Get(key string) (interface{}, bool) {
	if v, exists := o.own.Get(key); exists {
		return v, true
	}
	return o.base.Get(key)
}

// Keys returns the keys of the base view followed by the overlay keys.
func (o *Overlay) Keys() []string {
	return append(o.base.Keys(), o.own.Keys()...)
}

// Map returns a copy of the base and overlay entries.
func (o *Overlay) Map() map[string]interface{} {
	res := o.base.Map()
	for k, v := range o.own.Map() {
		res[k] = v
	}
	return res
}

// Len returns the number of entries of the base view and the overlay.
func (o *Overlay) Len() int {
	return o.base.Len() + o.own.Len()
}

// Entries returns the overlay's own entries in insertion order.
func (o *Overlay) Entries() []Entry {
	o.own.mutex.RLock()
	defer o.own.mutex.RUnlock()
	res := make([]Entry, 0, len(o.own.keys))
	for _, k := range o.own.keys {
		res = append(res, Entry{Key: k, Value: o.own.values[k]})
	}
	return res
}

// Merge appends the overlay entries to w in insertion order.
func (o *Overlay) Merge(w Writer) error {
	for _, e := range o.Entries() {
		if err := w.Put(e); err != nil {
			return err
		}
	}
	return nil
}
