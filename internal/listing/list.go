package listing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/five82/pickup/internal/registry"
)

// ErrDuplicateKey is returned when two records share an item id.
var ErrDuplicateKey = errors.New("duplicate item id")

// ChangeKind says what happened to the list.
type ChangeKind int

const (
	// Replaced means the whole collection was swapped by a refresh.
	Replaced ChangeKind = iota
	// Appended means one newly created item was added.
	Appended
	// AvailabilityChanged means one item's availability was written.
	AvailabilityChanged
)

func (k ChangeKind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Appended:
		return "appended"
	case AvailabilityChanged:
		return "availability"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change describes one write. ItemID is zero for Replaced.
type Change struct {
	Kind         ChangeKind
	ItemID       int64
	Availability bool
}

// List is an ordered collection of items keyed by item id. The zero value is
// an empty, ready to use list.
type List struct {
	mu        sync.RWMutex
	order     []int64
	items     map[int64]registry.Item
	observers map[int]func(Change)
	nextObs   int

	// version counts availability writes; written holds the version of the
	// last write per item.
	version uint64
	written map[int64]uint64
}

// Replace swaps the whole collection. Duplicate ids are rejected and leave
// the list unchanged.
func (l *List) Replace(items []registry.Item) error {
	return l.replace(items, false, 0)
}

// Version returns the availability write counter. Capture it before fetching
// a snapshot and pass it to ReplaceSince.
func (l *List) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// ReplaceSince swaps the whole collection with a snapshot fetched after
// version was read. Items whose availability was written locally after
// version keep the local value, since the snapshot predates that write.
func (l *List) ReplaceSince(version uint64, items []registry.Item) error {
	return l.replace(items, true, version)
}

func (l *List) replace(items []registry.Item, keepNewer bool, since uint64) error {
	order := make([]int64, 0, len(items))
	byID := make(map[int64]registry.Item, len(items))
	for _, item := range items {
		if _, dup := byID[item.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateKey, item.ID)
		}
		byID[item.ID] = item
		order = append(order, item.ID)
	}

	l.mu.Lock()
	written := make(map[int64]uint64)
	for id, item := range byID {
		v, ok := l.written[id]
		if !ok {
			continue
		}
		written[id] = v
		if current, exists := l.items[id]; keepNewer && exists && v > since {
			item.Availability = current.Availability
			byID[id] = item
		}
	}
	l.order = order
	l.items = byID
	l.written = written
	l.mu.Unlock()

	l.notify(Change{Kind: Replaced})
	return nil
}

// Append adds one item at the end of the collection.
func (l *List) Append(item registry.Item) error {
	l.mu.Lock()
	if _, dup := l.items[item.ID]; dup {
		l.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateKey, item.ID)
	}
	if l.items == nil {
		l.items = make(map[int64]registry.Item)
	}
	l.items[item.ID] = item
	l.order = append(l.order, item.ID)
	l.mu.Unlock()

	l.notify(Change{Kind: Appended, ItemID: item.ID, Availability: item.Availability})
	return nil
}

// Get returns a copy of the item stored under id.
func (l *List) Get(id int64) (registry.Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[id]
	return item, ok
}

// SetAvailability writes the availability of one item in place and notifies
// observers before returning. It reports false, without notifying, when id is
// not in the list. No other field is touched.
func (l *List) SetAvailability(id int64, available bool) bool {
	l.mu.Lock()
	item, ok := l.items[id]
	if !ok {
		l.mu.Unlock()
		return false
	}
	item.Availability = available
	l.items[id] = item
	l.version++
	if l.written == nil {
		l.written = make(map[int64]uint64)
	}
	l.written[id] = l.version
	l.mu.Unlock()

	l.notify(Change{Kind: AvailabilityChanged, ItemID: id, Availability: available})
	return true
}

// Items returns a copy of the collection in insertion order.
func (l *List) Items() []registry.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.order) == 0 {
		return nil
	}
	out := make([]registry.Item, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.items[id])
	}
	return out
}

// Len reports the number of items.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Subscribe registers fn to run after every write. Observers run on the
// writer's goroutine, outside the list lock, so they may read the list. The
// returned func removes the observer.
func (l *List) Subscribe(fn func(Change)) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.observers == nil {
		l.observers = make(map[int]func(Change))
	}
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.observers, id)
		l.mu.Unlock()
	}
}

func (l *List) notify(c Change) {
	l.mu.RLock()
	fns := make([]func(Change), 0, len(l.observers))
	for _, fn := range l.observers {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}
