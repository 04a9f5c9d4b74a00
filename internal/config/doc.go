// Package config loads the pickup client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pickup/config.toml
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - API endpoint: http://127.0.0.1:8000
//   - Image upload endpoint: https://api.cloudinary.com/v1_1/demo/image/upload
//   - Upload preset: empty, which disables photo uploads
//   - Data directory: ~/.local/share/pickup
//   - Request timeout: 10s
//   - Log level: info
//
// The session database (<data_dir>/session.db) and the log file
// (<data_dir>/pickup.log) are derived from the data directory.
//
// # TOML Format
//
//	api_url = "https://pickup.example.com/api"
//	upload_url = "https://api.cloudinary.com/v1_1/mycloud/image/upload"
//	upload_preset = "pickup_unsigned"
//	data_dir = "~/.local/share/pickup"
//	request_timeout = "15s"
//	log_level = "debug"
//
// All fields are optional. Tilde expansion is performed on data_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and an unparsable or non-positive
// request_timeout. A missing config file is not an error.
package config
