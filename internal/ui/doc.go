// Package ui is the Bubble Tea front end of the pickup client.
//
// # Screens
//
//   - Log in / Register: text forms; a successful login opens the feed.
//   - Feed: every item, sorted newest first or available first.
//   - My items: the logged-in user's items with their profile line.
//   - Item: details, location and comments; c writes a new comment.
//   - Post item: title, details, coordinates, flags and an optional photo.
//   - Profile: edit email and username.
//   - Activity: the newest records of the client's own log file.
//
// # Data Flow
//
// The model never writes the shared listing.List itself. Loads, posts and
// availability toggles run as tea.Cmds against the app services, which
// write the list; Run subscribes to the list and forwards each change to the
// program as a message, so an optimistic toggle is on screen before the
// registry answers and a rollback snaps it back. View reads the list on
// every render.
//
// Each toggle outcome becomes one notification in the status line, for
// example "Item status updated to Available" or "Failed to update item
// status (request timed out)". Notifications expire after a few seconds.
//
// Only the owner of an item may toggle it; other users see a warning.
//
// # Preferences
//
// T cycles the theme and s cycles the sort order. Both are written to the
// prefs file immediately.
package ui
