package api

import "encoding/json"

// PinResponse is the JSON envelope for pin creation and polling.
//
// Result carries the submitted payload verbatim, or null when the pin has
// not been answered yet. A nil RawMessage marshals as null, which is the
// "keep polling" signal to clients.
type PinResponse struct {
	Pin    string          `json:"pin"`
	Result json.RawMessage `json:"result"`
}
