// Package ws implements the WebSocket stats stream for pinbox-server.
//
// Hub manages a set of connected clients and broadcasts the current
// exchange statistics to all of them on a configurable interval (default
// 5s in production).
//
// New(store, registry, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// stats immediately on connect, then streams updates on each tick.
//
// Message format sent to clients:
//
//	{
//	  "event": "stats",
//	  "data":  { "live_pins": ..., "filled_pins": ..., "namespaces": ...,
//	             "pins_created_total": ..., ..., "generated_at": ... }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/stats by the server.
package ws
