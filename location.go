package anchor

import (
	"fmt"
	"sync"
)

// Location is the addressable location the Writer navigates: a browser
// location, an in-memory history, or any adapter in between.
type Location interface {
	Href() string
	// Assign navigates to href, pushing a new history entry.
	Assign(href string) error
	// Replace navigates to href in place, without a new history entry.
	Replace(href string) error
}

// MemoryLocation is a Location backed by an in-memory history stack.
type MemoryLocation struct {
	mu      sync.RWMutex
	entries []string
	index   int
}

// NewMemoryLocation starts a history at href.
func NewMemoryLocation(href string) *MemoryLocation {
	return &MemoryLocation{entries: []string{href}}
}

func (l *MemoryLocation) Href() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[l.index]
}

// Assign drops any forward entries and appends href.
func (l *MemoryLocation) Assign(href string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries[:l.index+1], href)
	l.index++
	return nil
}

func (l *MemoryLocation) Replace(href string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.index] = href
	return nil
}

// Back moves one entry back in history.
func (l *MemoryLocation) Back() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index == 0 {
		return fmt.Errorf("anchor: no previous history entry")
	}
	l.index--
	return nil
}

// Forward moves one entry forward in history.
func (l *MemoryLocation) Forward() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index >= len(l.entries)-1 {
		return fmt.Errorf("anchor: no next history entry")
	}
	l.index++
	return nil
}

// Len returns the number of history entries.
func (l *MemoryLocation) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the history.
func (l *MemoryLocation) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.entries...)
}
