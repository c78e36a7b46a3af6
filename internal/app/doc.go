// Package app is the composition root for pomojira.
//
// Run wires configuration, the prefs store, the file logger and the proxy
// client into the Bubble Tea UI. Before the UI starts it probes the proxy's
// /healthz endpoint with exponential backoff so the user never lands on an
// issue list that cannot load. With Options.WithProxy the proxy is started
// in-process on the configured listen address and shut down when the UI
// exits.
//
// Serve runs the proxy alone, logging to stderr in the configured format.
//
// Fatal errors (returned):
//   - invalid config file
//   - unparsable proxy_url
//   - proxy not reachable within the startup window
//
// Everything after startup is reported inside the UI instead.
package app
