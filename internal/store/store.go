package store

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pinbox/pinbox/internal/metrics"
)

// Sentinel errors returned by store operations. All three are expected,
// recoverable conditions for the caller; none is fatal to the process.
var (
	// ErrGenerationExhausted means no free pin was found within the retry
	// bound. The namespace is saturated or the TTL is misconfigured.
	ErrGenerationExhausted = errors.New("store: no free pin found within retry bound")

	// ErrPinNotFound means a submission targeted a namespace/pin with no
	// live, unfilled entry.
	ErrPinNotFound = errors.New("store: pin not found")

	// ErrPayloadTooLarge means a submission exceeded the payload byte
	// ceiling. The entry is left unchanged.
	ErrPayloadTooLarge = errors.New("store: payload too large")
)

// Default operating parameters.
const (
	DefaultTTL             = 10 * time.Minute
	DefaultReapInterval    = 10 * time.Second
	DefaultMaxPayloadBytes = 3000
	DefaultMaxRetries      = 8
	DefaultShards          = 16
)

// KeyGenerator produces candidate pins. Implemented by keygen.Generator.
type KeyGenerator interface {
	Generate() string
}

// Entry is one live pin: its payload (nil until submitted) and the
// timestamps that drive expiry.
type Entry struct {
	Namespace   string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	SubmittedAt time.Time
}

// Stats is a point-in-time summary of live store contents.
type Stats struct {
	Live       int
	Filled     int
	Namespaces int
}

// Options configures a Store. Zero fields take the package defaults.
type Options struct {
	TTL             time.Duration
	ReapInterval    time.Duration
	MaxPayloadBytes int
	MaxRetries      int
	Shards          int
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// Store is the concurrency-safe mapping from (namespace, pin) to live
// entries. Entries are sharded by a hash of the pair so operations on
// distinct pairs rarely contend, while the same pair always serializes on
// one shard mutex. A background goroutine (Run) periodically reaps entries
// older than the TTL.
//
// TTL and payload ceiling are held in atomics so config hot-reload can
// adjust them without touching the shard locks.
type Store struct {
	gen    KeyGenerator
	reg    *metrics.Registry
	shards []*shard

	ttl          atomic.Int64 // nanoseconds
	maxPayload   atomic.Int64
	reapInterval time.Duration
	maxRetries   int

	now func() time.Time // injectable for deterministic tests
}

// New creates a Store issuing pins from gen and counting into reg.
func New(gen KeyGenerator, reg *metrics.Registry, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = DefaultReapInterval
	}
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Shards <= 0 {
		opts.Shards = DefaultShards
	}

	s := &Store{
		gen:          gen,
		reg:          reg,
		shards:       make([]*shard, opts.Shards),
		reapInterval: opts.ReapInterval,
		maxRetries:   opts.MaxRetries,
		now:          time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]*Entry)}
	}
	s.ttl.Store(int64(opts.TTL))
	s.maxPayload.Store(int64(opts.MaxPayloadBytes))
	return s
}

// TTL returns the current time-to-live for entries.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// MaxPayloadBytes returns the current payload byte ceiling.
func (s *Store) MaxPayloadBytes() int {
	return int(s.maxPayload.Load())
}

// SetLimits applies hot-reloaded TTL and payload ceiling. Non-positive
// values leave the corresponding limit unchanged.
func (s *Store) SetLimits(ttl time.Duration, maxPayloadBytes int) {
	if ttl > 0 {
		s.ttl.Store(int64(ttl))
	}
	if maxPayloadBytes > 0 {
		s.maxPayload.Store(int64(maxPayloadBytes))
	}
}

// CreateEntry issues a pin unique among live entries in namespace and
// inserts an empty entry for it. The candidate check and insert happen
// under one shard lock, so concurrent calls cannot issue the same pin.
// Returns ErrGenerationExhausted when no free pin is found within the
// retry bound.
func (s *Store) CreateEntry(namespace string) (string, error) {
	for i := 0; i < s.maxRetries; i++ {
		key := s.gen.Generate()
		mk := mapKey(namespace, key)
		sh := s.shardFor(mk)
		now := s.now()

		sh.mu.Lock()
		if e, ok := sh.entries[mk]; !ok || !s.liveAt(e, now) {
			sh.entries[mk] = &Entry{
				Namespace: namespace,
				Key:       key,
				CreatedAt: now,
			}
			sh.mu.Unlock()
			s.reg.PinsCreated.Add(1)
			return key, nil
		}
		sh.mu.Unlock()
	}
	s.reg.GenerationExhausted.Add(1)
	return "", ErrGenerationExhausted
}

// Poll looks up (namespace, key) and returns the pin the caller should keep
// using together with the payload, if any.
//
//   - Filled and live: the payload is returned and the entry deleted —
//     a delivered pin is gone, re-polling it regenerates.
//   - Empty and live: (key, nil) — caller keeps polling the same pin.
//   - Unknown or expired: a fresh pin is issued via CreateEntry and
//     returned with a nil payload. The only possible error is
//     ErrGenerationExhausted from that regeneration.
func (s *Store) Poll(namespace, key string) (string, []byte, error) {
	mk := mapKey(namespace, key)
	sh := s.shardFor(mk)
	now := s.now()

	sh.mu.Lock()
	if e, ok := sh.entries[mk]; ok && s.liveAt(e, now) {
		if e.Payload != nil {
			delete(sh.entries, mk)
			sh.mu.Unlock()
			s.reg.Polls.Add(1)
			return key, e.Payload, nil
		}
		sh.mu.Unlock()
		s.reg.Polls.Add(1)
		return key, nil, nil
	}
	sh.mu.Unlock()

	s.reg.Polls.Add(1)
	newKey, err := s.CreateEntry(namespace)
	if err != nil {
		return "", nil, err
	}
	s.reg.Regenerations.Add(1)
	return newKey, nil, nil
}

// Submit sets the payload on a live, unfilled entry. The size check runs
// before any lookup so an oversized submission leaves the store untouched.
// A second submission to a filled pin is rejected with ErrPinNotFound:
// first write wins, and "already answered" is indistinguishable from
// "never existed" to the submitter.
func (s *Store) Submit(namespace, key string, payload []byte) error {
	if int64(len(payload)) > s.maxPayload.Load() {
		return ErrPayloadTooLarge
	}

	mk := mapKey(namespace, key)
	sh := s.shardFor(mk)
	now := s.now()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.entries[mk]
	if !ok || !s.liveAt(e, now) || e.Payload != nil {
		return ErrPinNotFound
	}
	e.Payload = payload
	e.SubmittedAt = now
	s.reg.Submits.Add(1)
	return nil
}

// DeleteExpired removes entries older than the TTL at now and returns the
// number removed. Each shard is scanned under its own lock; no lock is held
// across shards. Called by the reaper loop.
func (s *Store) DeleteExpired(now time.Time) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for mk, e := range sh.entries {
			if !s.liveAt(e, now) {
				delete(sh.entries, mk)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	if removed > 0 {
		s.reg.Reaped.Add(int64(removed))
	}
	return removed
}

// Count returns the total number of entries currently held, including
// expired ones the reaper has not yet removed.
func (s *Store) Count() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

// Stats summarizes live entries across all shards.
func (s *Store) Stats() Stats {
	now := s.now()
	namespaces := make(map[string]struct{})
	var st Stats
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.entries {
			if !s.liveAt(e, now) {
				continue
			}
			st.Live++
			if e.Payload != nil {
				st.Filled++
			}
			namespaces[e.Namespace] = struct{}{}
		}
		sh.mu.RUnlock()
	}
	st.Namespaces = len(namespaces)
	return st
}

// Run starts the background reaper loop, ticking every reap interval.
// Blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(s.reapInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.reap(now)
		}
	}
}

// reap runs one expiry pass. A panicking cycle must not stop the reaper;
// it is logged and the next tick proceeds.
func (s *Store) reap(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("store: reap cycle failed", "panic", r)
		}
	}()
	if n := s.DeleteExpired(now); n > 0 {
		slog.Debug("store: reaped expired pins", "count", n)
	}
}

// liveAt reports whether e has not yet expired at now.
func (s *Store) liveAt(e *Entry, now time.Time) bool {
	return now.Sub(e.CreatedAt) <= time.Duration(s.ttl.Load())
}

// mapKey encodes the (namespace, key) pair with a namespace length prefix.
// Both strings arrive from the URL path and may contain any byte, so a
// plain separator could alias distinct pairs; the prefix pins the boundary.
func mapKey(namespace, key string) string {
	return strconv.Itoa(len(namespace)) + "\x00" + namespace + key
}

func (s *Store) shardFor(mk string) *shard {
	h := fnv.New32a()
	h.Write([]byte(mk)) //nolint:errcheck
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}
