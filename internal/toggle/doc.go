// Package toggle keeps an item's availability in a listing.List consistent
// with the registry when the user flips it.
//
// # Algorithm
//
// SetAvailability(ctx, id, desired):
//
//  1. No user in the session: Unauthenticated. Nothing is written or sent.
//  2. id not in the list: NotFound. Nothing is written or sent.
//  3. Stored record fails Item.Validate: Malformed. Nothing is written or sent.
//  4. previous := stored availability.
//  5. Write desired into the list. Observers run before step 6.
//  6. PATCH /items/{id}?user_id={uid} with {"availability": desired}.
//  7. Success: write desired again and return Confirmed.
//  8. Failure: write previous and return RolledBack with a Failure of kind
//     NetworkError, ServerError (with the HTTP status) or Timeout.
//
// The synchronizer only writes the availability field and never adds or
// removes list entries. It does not retry; that is the caller's decision.
// Redundant calls (desired equal to the stored value) still send the request.
//
// # Overlapping calls for the same item
//
// By default calls are not serialized. Both optimistic writes apply in call
// order, and once both settle the list holds whatever the last response to
// arrive implies: its confirmed value, or its own previous value on failure.
// WithInFlightGuard turns this into drop-newer: while a call for an item is
// waiting on the registry, further calls for that item return InFlight
// immediately.
//
// # Errors
//
// Every expected condition comes back as an Outcome; nothing panics or
// returns an error. Outcome.Err converts to an error for errors.Is/As and
// Outcome.Message renders the user notification.
package toggle
