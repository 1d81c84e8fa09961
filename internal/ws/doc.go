// Package ws implements the WebSocket stream of the deployment data server.
//
// Hub pushes the full collection to every connected client when it connects
// and again whenever Notify is called (the fsnotify watcher calls it on every
// data-file change). Clients that cannot keep up are disconnected.
package ws
