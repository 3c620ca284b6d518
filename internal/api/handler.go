package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pinbox/pinbox/internal/store"
)

// Plain-text response bodies. Clients match on these strings, so they are
// part of the wire contract.
const (
	bodyHealthy      = "All good."
	bodyThanks       = "Thanks!"
	bodyPinNotFound  = "Pin not found."
	bodyPayloadLarge = "Payload too large."
	bodyExhausted    = "Could not find a free pin soon enough."
)

// Handler is the HTTP handler for the pin exchange and the health endpoint.
// It translates requests into store operations and shapes the JSON envelope.
type Handler struct {
	store *store.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
func New(st *store.Store) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/pin/", h.pin) // subtree — extracts {namespace}[/{pin}]
	h.mux.HandleFunc("/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// pin dispatches the /pin/{namespace} and /pin/{namespace}/{pin} routes:
//
//	POST /pin/{namespace}        — issue a new pin
//	POST /pin/{namespace}/{pin}  — poll for the payload
//	PUT  /pin/{namespace}/{pin}  — submit the payload
func (h *Handler) pin(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/pin/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodPost {
			textResp(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.createPin(w, parts[0])

	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		switch r.Method {
		case http.MethodPost:
			h.pollPin(w, parts[0], parts[1])
		case http.MethodPut:
			h.submitPin(w, r, parts[0], parts[1])
		default:
			textResp(w, http.StatusMethodNotAllowed, "method not allowed")
		}

	default:
		textResp(w, http.StatusNotFound, bodyPinNotFound)
	}
}

// createPin handles POST /pin/{namespace}.
func (h *Handler) createPin(w http.ResponseWriter, namespace string) {
	key, err := h.store.CreateEntry(namespace)
	if err != nil {
		// Exhaustion is the only failure CreateEntry produces; surface it
		// as retryable.
		textResp(w, http.StatusTooManyRequests, bodyExhausted)
		return
	}
	jsonResp(w, http.StatusOK, PinResponse{Pin: key})
}

// pollPin handles POST /pin/{namespace}/{pin}. An unknown or expired pin is
// not an error: the caller gets a fresh pin with a null result and must
// switch to it.
func (h *Handler) pollPin(w http.ResponseWriter, namespace, pin string) {
	key, payload, err := h.store.Poll(namespace, pin)
	if err != nil {
		textResp(w, http.StatusTooManyRequests, bodyExhausted)
		return
	}
	jsonResp(w, http.StatusOK, PinResponse{Pin: key, Result: payload})
}

// submitPin handles PUT /pin/{namespace}/{pin}.
func (h *Handler) submitPin(w http.ResponseWriter, r *http.Request, namespace, pin string) {
	// Cap the read one byte past the ceiling; the store's check stays
	// authoritative for the boundary.
	limit := int64(h.store.MaxPayloadBytes()) + 1
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			textResp(w, http.StatusRequestEntityTooLarge, bodyPayloadLarge)
			return
		}
		textResp(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// The payload is stored opaque, but it must be a JSON document for the
	// poll envelope to embed it verbatim.
	if !json.Valid(body) {
		textResp(w, http.StatusBadRequest, "body is not valid JSON")
		return
	}

	switch err := h.store.Submit(namespace, pin, body); {
	case errors.Is(err, store.ErrPayloadTooLarge):
		textResp(w, http.StatusRequestEntityTooLarge, bodyPayloadLarge)
	case errors.Is(err, store.ErrPinNotFound):
		textResp(w, http.StatusNotFound, bodyPinNotFound)
	case err != nil:
		textResp(w, http.StatusInternalServerError, "internal error")
	default:
		textResp(w, http.StatusAccepted, bodyThanks)
	}
}

// health handles GET /health — process liveness only, no store access.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		textResp(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	textResp(w, http.StatusOK, bodyHealthy)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func textResp(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprint(w, msg) //nolint:errcheck
}
