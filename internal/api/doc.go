// Package api implements the HTTP surface of pinbox-server.
//
// New(store) returns an http.Handler that serves:
//
//	POST /pin/{namespace}        — issue a pin; 200 {"pin":"X7Z2","result":null},
//	                               429 when the namespace is saturated
//	POST /pin/{namespace}/{pin}  — poll; 200 with the payload in "result" once
//	                               submitted. An unknown or expired pin yields
//	                               a fresh pin with a null result, never an
//	                               error — clients must keep using the pin the
//	                               response names.
//	PUT  /pin/{namespace}/{pin}  — submit a JSON payload; 202 "Thanks!",
//	                               404 "Pin not found.", 413 "Payload too large."
//	GET  /health                 — 200 "All good."
//
// The payload is opaque to the server: only total byte length is checked
// (plus a well-formedness check so the poll envelope can embed it). Non-
// matching methods get 405. No external HTTP framework is used.
package api
