// Package app is the composition root of the pickup client.
//
// Run loads the configuration, opens the log file and the bolt session
// store, builds the registry client, and wires one shared listing.List to
// everything that reads or writes it:
//
//	┌────────────┐ Replace  ┌──────────────┐ SetAvailability ┌──────────────┐
//	│  Loader    │─────────>│ listing.List │<────────────────│ toggle.Sync  │
//	│  Refresher │          └──────┬───────┘                 └──────────────┘
//	│  Poster    │─ Append ───────>│ Subscribe
//	└────────────┘                 v
//	                           ui.Model
//
// Auth keeps the session store in step with login, logout and registration.
// Loader fills the list for the feed or account view and discards results
// for a view the user already left. StartRefresher re-runs the active view
// in the background with exponential backoff on failure, capped at 30s.
// Poster creates items (uploading an optional photo first) and comments.
//
// Fatal startup errors (bad config, unopenable session or log file) are
// returned from Run. Everything after startup is reported to the UI.
package app
