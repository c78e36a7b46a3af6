// Package config handles loading and parsing the pomojira configuration file.
//
// # Overview
//
// One TOML file configures both halves of pomojira: the [server] table drives
// the Jira proxy started by `pomojira serve`, and the [client] table tells the
// terminal client where the proxy lives and where to write its log.
//
// Credentials are not configuration. They belong to the user and live in the
// prefs file managed by package prefs.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pomojira/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. If PORT is set in the environment, it replaces the port of server.listen
//
// # TOML Format
//
//	[server]
//	listen = "127.0.0.1:3001"
//	api_version = "3"
//	upstream_scheme = "https"
//	request_timeout = "15s"
//	log_level = "info"
//	log_format = "text"
//
//	[client]
//	proxy_url = "http://127.0.0.1:3001"
//	log_file = "~/.local/state/pomojira/pomojira.log"
//
// All fields are optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, an upstream_scheme other than http or
// https, and an unparsable request_timeout. A missing file is not an error.
package config
