package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/pickup/internal/registry"
)

// Order selects a display ordering.
type Order int

const (
	// NewestFirst sorts by creation time, latest first.
	NewestFirst Order = iota
	// AvailableFirst puts available items ahead, newest first within each group.
	AvailableFirst
)

var orderNames = map[Order]string{
	NewestFirst:    "newest",
	AvailableFirst: "available",
}

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder maps a stored preference back to an Order, defaulting to
// NewestFirst.
func ParseOrder(name string) Order {
	for o, n := range orderNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return o
		}
	}
	return NewestFirst
}

// Next cycles to the following ordering.
func (o Order) Next() Order {
	if o == NewestFirst {
		return AvailableFirst
	}
	return NewestFirst
}

// Sorted returns a sorted copy of items. The input is not modified.
func Sorted(items []registry.Item, order Order) []registry.Item {
	out := make([]registry.Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if order == AvailableFirst && out[i].Availability != out[j].Availability {
			return out[i].Availability
		}
		return newer(out[i], out[j])
	})
	return out
}

// newer orders by created_at descending and falls back to the id so records
// without a timestamp still sort deterministically.
func newer(a, b registry.Item) bool {
	ta, tb := a.ParsedCreatedAt(), b.ParsedCreatedAt()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ID > b.ID
}
