// Package store is the single source of truth for live pin entries: a
// concurrency-safe, self-expiring mapping from (namespace, pin) to an entry
// holding the submitted payload and its timestamps.
//
// Entries live for a fixed TTL from creation. An expired entry is treated
// as absent by every operation, whether or not the reaper has removed it
// yet; the reaper (Run) only reclaims memory.
//
// Operations:
//
//	CreateEntry(namespace)     — issue a unique pin, insert an empty entry
//	Poll(namespace, pin)       — read; delivers and deletes a filled entry,
//	                             regenerates an unknown or expired pin
//	Submit(namespace, pin, b)  — set the payload once; first write wins
//	DeleteExpired(now)         — reaper-only expiry scan
//	Stats / Count              — observability reads
//
// Entries are sharded by an FNV hash of the pair, so operations on
// different pins do not contend and same-pin operations are linearizable
// under one shard mutex. The pin check-and-insert in CreateEntry holds that
// mutex across both steps, which is what guarantees per-namespace
// uniqueness under concurrent calls.
package store
