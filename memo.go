package portfolio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Memo caches the results of a computation by key. Concurrent calls for the
// same key share a single computation. Failed computations are not cached.
//
// Results stay cached until the caller invalidates them: keys are meant to be
// fingerprints of the inputs, so that changed inputs never hit a stale entry.
type Memo[T any] struct {
	mu      sync.Mutex
	results map[string]T
	group   singleflight.Group
	// generations guard against storing a result computed before a reset
	// or an invalidation of its key.
	generation  uint64
	invalidated map[string]uint64

	log          zerolog.Logger
	hits         prometheus.Counter
	computations prometheus.Counter
	shared       prometheus.Counter
}

// MemoOption configures a Memo.
type MemoOption func(*memoOptions)

type memoOptions struct {
	log        zerolog.Logger
	registerer prometheus.Registerer
}

// WithLogger makes the Memo log its hits and computations at debug level.
func WithLogger(log zerolog.Logger) MemoOption {
	return func(o *memoOptions) { o.log = log }
}

// WithRegisterer registers the Memo counters on r.
func WithRegisterer(r prometheus.Registerer) MemoOption {
	return func(o *memoOptions) { o.registerer = r }
}

// NewMemo returns an empty Memo. The name labels its log entries and metrics.
func NewMemo[T any](name string, opts ...MemoOption) *Memo[T] {
	o := memoOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	counter := func(metric, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Name:        metric,
			Help:        help,
			ConstLabels: prometheus.Labels{"memo": name},
		})
		if o.registerer == nil {
			return c
		}
		if err := o.registerer.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				return already.ExistingCollector.(prometheus.Counter)
			}
			o.log.Warn().Err(err).Str("metric", metric).Msg("cannot register memo metric")
		}
		return c
	}
	return &Memo[T]{
		results:      make(map[string]T),
		invalidated:  make(map[string]uint64),
		log:          o.log.With().Str("memo", name).Logger(),
		hits:         counter("scout_memo_hits_total", "Results served from the memo."),
		computations: counter("scout_memo_computations_total", "Computations run by the memo."),
		shared:       counter("scout_memo_shared_total", "Calls that waited for a computation in flight."),
	}
}

// stamp identifies the state of key before a computation.
type stamp struct{ generation, invalidated uint64 }

// lookup returns the cached result for key, or the stamp to store a new one with.
func (m *Memo[T]) lookup(key string) (T, stamp, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.results[key]
	return v, stamp{m.generation, m.invalidated[key]}, ok
}

// Do returns the cached result for key, or runs compute to produce it.
func (m *Memo[T]) Do(key string, compute func() (T, error)) (T, error) {
	if v, _, ok := m.lookup(key); ok {
		m.hits.Inc()
		m.log.Debug().Str("key", key).Msg("memo hit")
		return v, nil
	}
	v, err, shared := m.group.Do(key, func() (any, error) {
		// a flight for this key may have completed since the lookup
		v, st, ok := m.lookup(key)
		if ok {
			return v, nil
		}
		m.computations.Inc()
		m.log.Debug().Str("key", key).Msg("memo compute")
		v, err := compute()
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		if st == (stamp{m.generation, m.invalidated[key]}) {
			m.results[key] = v
		}
		m.mu.Unlock()
		return v, nil
	})
	if shared {
		m.shared.Inc()
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the result cached for key. A computation of key already
// running is not cached.
func (m *Memo[T]) Invalidate(key string) {
	m.mu.Lock()
	delete(m.results, key)
	m.invalidated[key]++
	m.mu.Unlock()
	m.group.Forget(key)
}

// Reset drops every cached result. Computations already running are not cached.
func (m *Memo[T]) Reset() {
	m.mu.Lock()
	clear(m.results)
	clear(m.invalidated)
	m.generation++
	m.mu.Unlock()
}

// Len returns the number of cached results.
func (m *Memo[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Fingerprint hashes the JSON encoding of parts into a Memo key. Inputs that
// encode identically share a fingerprint.
func Fingerprint(parts ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for i, part := range parts {
		if err := enc.Encode(part); err != nil {
			return "", fmt.Errorf("cannot fingerprint part %d: %w", i, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
