// Package routing implements the next-hop table repeater nodes maintain
// (spec §3, §4.3). Destinations are node ids 1..254; NoRoute (protocol
// .Broadcast, 255) means "no route known".
package routing

import (
	"sync"

	"github.com/ystepanoff/meshtransport/protocol"
)

const size = 255 // indexed directly by destination node id, slot 0 unused

// Table maps a destination node id to the next-hop node id that should
// carry a frame toward it.
type Table interface {
	Lookup(dest byte) (nextHop byte, ok bool)
	Set(dest, nextHop byte)
	Clear()
}

// PersistFunc is called once per Set with the single mutated entry.
type PersistFunc func(dest, nextHop byte)

// PersistAllFunc is called once per Clear with the full, just-reset table.
type PersistAllFunc func(entries [size]byte)

// ArrayTable is the Table used by repeater-capable nodes: a flat array
// indexed by destination id, guarded by a mutex since frame processing and
// any concurrent diagnostic reader (e.g. monitor.Server) may both touch it.
type ArrayTable struct {
	mu      sync.Mutex
	entries [size]byte

	persist    PersistFunc
	persistAll PersistAllFunc
}

// NewArrayTable builds a repeater routing table. persist/persistAll may be
// nil if the caller does not need entries mirrored to a store.Store.
func NewArrayTable(persist PersistFunc, persistAll PersistAllFunc) *ArrayTable {
	t := &ArrayTable{persist: persist, persistAll: persistAll}
	for i := range t.entries {
		t.entries[i] = protocol.Broadcast
	}
	return t
}

func (t *ArrayTable) Lookup(dest byte) (byte, bool) {
	if dest == 0 || dest == protocol.Broadcast {
		return protocol.Broadcast, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	nh := t.entries[dest]
	if nh == protocol.Broadcast {
		return protocol.Broadcast, false
	}
	return nh, true
}

// Set is idempotent and always overwrites (spec §4.3); persists only the
// single mutated entry.
func (t *ArrayTable) Set(dest, nextHop byte) {
	if dest == 0 || dest == protocol.Broadcast {
		return
	}
	t.mu.Lock()
	t.entries[dest] = nextHop
	t.mu.Unlock()

	if t.persist != nil {
		t.persist(dest, nextHop)
	}
}

// Clear resets every entry to the "no route" sentinel and is the only
// operation that persists the full table in bulk.
func (t *ArrayTable) Clear() {
	t.mu.Lock()
	for i := range t.entries {
		t.entries[i] = protocol.Broadcast
	}
	snapshot := t.entries
	t.mu.Unlock()

	if t.persistAll != nil {
		t.persistAll(snapshot)
	}
}

// NoopTable is used by non-repeater (leaf) nodes: Lookup always misses and
// Set is a no-op, per spec §4.3 and the Design Notes' "no-op variant on
// leaves" guidance — routing decisions fall through to parentNodeId
// entirely on these nodes.
type NoopTable struct{}

func (NoopTable) Lookup(byte) (byte, bool) { return protocol.Broadcast, false }
func (NoopTable) Set(byte, byte)           {}
func (NoopTable) Clear()                   {}

var (
	_ Table = (*ArrayTable)(nil)
	_ Table = NoopTable{}
)
