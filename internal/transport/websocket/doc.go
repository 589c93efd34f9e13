// Package websocket streams simulation events to spectators over WebSocket.
//
// A central Hub owns every connection. Spectators connect to a stream
// (?stream=<id>, default "default") and receive one JSON message per
// simulation event:
//
//	{"stream":"default","seq":12,"type":"merged","data":{"survivor":4,"at":{"x":1,"y":0},...}}
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	http.HandleFunc("/ws", hub.ServeWS)
//	engine.Subscribe(websocket.NewStreamer(hub, "default"))
//
// The hub loop is the only goroutine touching the client set; each client
// has a read pump (keeps the connection alive) and a write pump.
package websocket
