// Package store defines the persistent-storage collaborator (spec §1, §6):
// node id, parent id, distance-to-gateway, and the routing table. The
// transport core treats storage as an external dependency it only reads
// at Initialize() and writes to on change — it never owns the backing
// medium.
package store

import "github.com/ystepanoff/meshtransport/protocol"

// Store persists the four keys spec §6 names. Reads return the documented
// defaults (255) for unprovisioned keys; writes commit before returning.
type Store interface {
	LoadNodeID() (byte, error)
	SaveNodeID(id byte) error

	LoadParentID() (byte, error)
	SaveParentID(id byte) error

	LoadDistance() (byte, error)
	SaveDistance(d byte) error

	// LoadRoutes returns the full 1..254 routing table, defaulting every
	// unprovisioned destination to protocol.Broadcast ("no route").
	LoadRoutes() ([255]byte, error)
	// SaveRoute persists a single mutated entry (routing.Table.Set).
	SaveRoute(dest, nextHop byte) error
	// SaveRoutes persists the entire table in bulk (routing.Table.Clear).
	SaveRoutes(entries [255]byte) error
}

// Defaults mirrors spec §6: unprovisioned keys read back as 255.
const (
	DefaultNodeID   = protocol.Broadcast
	DefaultParentID = protocol.Broadcast
	DefaultDistance = protocol.InvalidDistance
)
