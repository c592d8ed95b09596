// Package dev provides the live preview used by `markup serve`.
//
// This package implements:
//   - A debounced fsnotify watcher for the context data file
//   - A WebSocket hub that tells open pages to reload
//   - A script injected into served pages that connects to the hub
//
// # Usage
//
//	hub := dev.NewReloadServer(logger)
//	w, err := dev.NewWatcher(store.Path(), dev.WatcherOptions{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	w.OnChange(func() {
//	    if err := store.Reload(); err != nil {
//	        hub.NotifyError(err.Error())
//	        return
//	    }
//	    hub.NotifyReload()
//	})
//	go w.Run(ctx)
//
// # Preview Protocol
//
// The browser connects to /_preview/ws via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev
