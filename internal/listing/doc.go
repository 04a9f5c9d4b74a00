// Package listing holds the in-memory item collection behind the feed and
// account screens.
//
// # Overview
//
// A List is an ordered set of registry.Item records keyed by item id. It is
// filled in bulk from the registry (Replace), grows by one after an item is
// created (Append), and otherwise only ever changes through SetAvailability,
// which the toggle synchronizer uses for optimistic writes and rollbacks.
//
// Insertion order carries no meaning. Screens derive their display order with
// Sorted, which never mutates the list.
//
// # Observers
//
// Subscribe registers a callback that runs after every write, on the goroutine
// that performed it and after the lock is released:
//
//	cancel := list.Subscribe(func(c listing.Change) {
//		program.Send(listChangedMsg(c))
//	})
//	defer cancel()
//
// SetAvailability returns only after every observer has run, so a caller that
// writes and then starts network I/O is guaranteed the new value was
// published first.
//
// # Concurrency
//
// All methods are safe for concurrent use. Reads return copies; callers can
// never mutate stored records through a returned value.
package listing
