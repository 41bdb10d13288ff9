package store

import "sync"

// Memory is the in-memory reference Store: always built (no build tag),
// used by tests, by the host simulation in cmd/simnet, and as the TinyGo
// store backed by MCU RAM. It does not survive a process restart; on-flash
// journaling is out of scope here, matching spec §1's treatment of
// persistent storage as an out-of-scope collaborator.
type Memory struct {
	mu       sync.Mutex
	nodeID   byte
	parentID byte
	distance byte
	routes   [255]byte
}

// NewMemory returns a Memory store pre-populated with the documented
// defaults.
func NewMemory() *Memory {
	m := &Memory{
		nodeID:   DefaultNodeID,
		parentID: DefaultParentID,
		distance: DefaultDistance,
	}
	for i := range m.routes {
		m.routes[i] = DefaultNodeID // protocol.Broadcast, same sentinel value
	}
	return m
}

func (m *Memory) LoadNodeID() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nodeID, nil
}

func (m *Memory) SaveNodeID(id byte) error {
	m.mu.Lock()
	m.nodeID = id
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadParentID() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parentID, nil
}

func (m *Memory) SaveParentID(id byte) error {
	m.mu.Lock()
	m.parentID = id
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadDistance() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.distance, nil
}

func (m *Memory) SaveDistance(d byte) error {
	m.mu.Lock()
	m.distance = d
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadRoutes() ([255]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routes, nil
}

func (m *Memory) SaveRoute(dest, nextHop byte) error {
	m.mu.Lock()
	m.routes[dest] = nextHop
	m.mu.Unlock()
	return nil
}

func (m *Memory) SaveRoutes(entries [255]byte) error {
	m.mu.Lock()
	m.routes = entries
	m.mu.Unlock()
	return nil
}

var _ Store = (*Memory)(nil)
