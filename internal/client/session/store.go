package session

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrIncompleteRecord = errors.New("session record requires both token and user data")
	ErrCorruptRecord    = errors.New("stored session record is corrupt")
)

// Listener receives the record after every successful Save or Clear.
type Listener func(Record)

// Store is the single source of truth for the session.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn Listener) (unsubscribe func())
}

type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]Listener
}

func (l *listeners) subscribe(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]Listener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// notify calls listeners outside the lock so they may read the store again.
func (l *listeners) notify(rec Record) {
	l.mu.Lock()
	fns := make([]Listener, 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(rec.clone())
	}
}

func validate(rec Record) error {
	if !rec.Authenticated() {
		return ErrIncompleteRecord
	}
	return nil
}
