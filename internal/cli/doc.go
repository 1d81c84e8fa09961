// Package cli defines the deploytrack command tree: calc (delay calculator),
// publish (Grafana dashboard publisher), and serve (deployment data server).
//
// Human-facing reports go to stdout; diagnostics go through slog. Every
// command exits non-zero on a fatal error via the root Execute call.
package cli
