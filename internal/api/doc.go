// Package api implements the read-only HTTP API of the deployment data
// server.
//
// New(store, divisor) returns an http.Handler that serves:
//
//	GET /api/deployments   — the parsed collection; 404/500 JSON errors
//	GET /api/summary       — delay statistics computed from the collection
//	GET /deployments.json  — the raw file bytes; 404 when missing
//	GET /metrics           — Prometheus text exposition of collection stats
//	GET /health            — static status payload
//	GET /                  — route listing
//
// All endpoints respond with Content-Type: application/json (except /metrics)
// and return 405 for non-GET methods. The server never writes the data file;
// concurrent reads go through the cached store. No external HTTP framework is
// used.
package api
