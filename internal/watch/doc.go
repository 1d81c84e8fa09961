// Package watch monitors the deployment data file for changes so the data
// server can invalidate its cache and push updates to WebSocket clients.
package watch
