// Package config loads kiosk's TOML configuration.
//
// # Discovery
//
//  1. An explicit path (the --config flag) wins
//  2. Otherwise ~/.config/kiosk/config.toml
//  3. A missing file is not an error; defaults apply
//  4. Blank or whitespace-only values fall back to their defaults
//
// # Format
//
//	api_base_url    = "127.0.0.1:8080"
//	request_timeout = "10s"
//	page_size       = 20
//	poll_interval   = "5s"
//	toast_duration  = "4s"
//	toast_limit     = 5
//	log_file        = "~/.local/state/kiosk/kiosk.log"
//	log_level       = "info"
//
// Defaults live in struct tags and are applied with creasty/defaults after the
// file is decoded. Durations use Go duration syntax and must be positive.
// page_size is capped at 100. Paths starting with ~ are expanded.
package config
