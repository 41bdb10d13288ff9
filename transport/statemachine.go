package transport

import "github.com/ystepanoff/meshtransport/protocol"

// stateFns pairs a state's one-shot entry transition with its per-tick
// update, the dispatch-table replacement for the source's function-pointer
// state table (spec §4.5, §9 Design Notes).
type stateFns struct {
	transition func(c *Core)
	update     func(c *Core)
}

var stateTable map[stateID]stateFns

func init() {
	stateTable = map[stateID]stateFns{
		StateInit:         {transition: initTransition},
		StateFindParent:   {transition: findParentTransition, update: findParentUpdate},
		StateRequestID:    {transition: requestIDTransition, update: requestIDUpdate},
		StateVerifyUplink: {transition: verifyUplinkTransition, update: verifyUplinkUpdate},
		StateReady:        {transition: readyTransition, update: readyUpdate},
		StateFailure:      {transition: failureTransition, update: failureUpdate},
	}
}

// transitionTo resets the per-state bookkeeping and runs the new state's
// transition function exactly once. A transition function may itself call
// transitionTo (Init chains straight into FindParent or Ready), so a
// single Initialize() or Process() call can walk through several states
// synchronously.
func (c *Core) transitionTo(next stateID) {
	c.log.Debug("state transition", "from", c.State.String(), "to", next.String())
	c.State = next
	c.StateEnteredAt = c.clock()
	c.Retries = 0
	if fn, ok := stateTable[next]; ok && fn.transition != nil {
		fn.transition(c)
	}
}

func (c *Core) timedOut() bool {
	return c.clock().Sub(c.StateEnteredAt) >= protocol.StateTimeout
}

// retryOrFail increments Retries without resetting it (transitionTo would
// zero it), re-enters the current state's waiting window and invokes retry.
// Past MaxStateRetries it gives up and transitions to Failure instead.
func (c *Core) retryOrFail(retry func()) {
	c.Retries++
	if c.Retries > protocol.MaxStateRetries {
		c.transitionTo(StateFailure)
		return
	}
	c.StateEnteredAt = c.clock()
	retry()
}

// --- Init ---

func initTransition(c *Core) {
	c.FindingParent = false
	c.PreferredParentFound = false
	c.UplinkOK = false
	c.TransportActive = false

	if !c.driver.Init() {
		c.log.Error("radio init failed")
		c.transitionTo(StateFailure)
		return
	}

	if c.cfg.StaticNodeIDSet {
		c.NodeID = c.cfg.StaticNodeID
		_ = c.store.SaveNodeID(c.NodeID)
	}
	c.driver.SetAddress(c.NodeID)
	c.TransportActive = true

	if c.cfg.IsGateway {
		c.NodeID = protocol.Gateway
		c.ParentNodeID = protocol.Gateway
		c.Distance = 0
		_ = c.store.SaveNodeID(c.NodeID)
		_ = c.store.SaveParentID(c.ParentNodeID)
		_ = c.store.SaveDistance(c.Distance)
		c.driver.SetAddress(c.NodeID)
		c.transitionTo(StateReady)
		return
	}

	c.transitionTo(StateFindParent)
}

// --- FindParent ---

func findParentTransition(c *Core) {
	c.candidateFound = false
	c.PreferredParentFound = false

	if c.cfg.StaticParentIDSet {
		c.ParentNodeID = c.cfg.StaticParentID
		c.Distance = 1
		_ = c.store.SaveParentID(c.ParentNodeID)
		_ = c.store.SaveDistance(c.Distance)
		c.transitionTo(StateRequestID)
		return
	}

	c.FindingParent = true
	c.broadcastFindParentRequest()
}

func (c *Core) broadcastFindParentRequest() {
	f := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: protocol.Broadcast,
		Command:     protocol.CmdFindParentRequest,
		Payload:     []byte{protocol.FindParentHopZero},
	}
	c.sendFrame(protocol.Broadcast, f)
}

func findParentUpdate(c *Core) {
	if !c.timedOut() {
		return
	}
	if c.candidateFound {
		c.FindingParent = false
		c.PreferredParentFound = false
		c.ParentNodeID = c.candidateParent
		c.Distance = c.candidateDistance + 1
		_ = c.store.SaveParentID(c.ParentNodeID)
		_ = c.store.SaveDistance(c.Distance)
		c.transitionTo(StateRequestID)
		return
	}
	c.retryOrFail(func() { c.broadcastFindParentRequest() })
}

func (c *Core) handleFindParentRequest(f *protocol.Frame) {
	if c.Distance == protocol.InvalidDistance {
		return
	}
	resp := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: f.Sender,
		Command:     protocol.CmdFindParentResponse,
		Payload:     []byte{c.Distance},
	}
	c.sendFrame(f.Sender, resp)
}

func (c *Core) handleFindParentResponse(f *protocol.Frame) {
	if !c.FindingParent || c.PreferredParentFound || len(f.Payload) == 0 {
		return
	}
	distance := f.Payload[0]
	if distance == protocol.InvalidDistance {
		return
	}

	// A response from the node already persisted as parent wins and stops
	// further candidate churn only if it is at least as good as the best
	// candidate found so far (spec §4.4's "equal or lower distance").
	if f.Sender == c.ParentNodeID && (!c.candidateFound || distance <= c.candidateDistance) {
		c.candidateParent = f.Sender
		c.candidateDistance = distance
		c.candidateFound = true
		c.PreferredParentFound = true
		return
	}

	if !c.candidateFound || distance < c.candidateDistance {
		c.candidateParent = f.Sender
		c.candidateDistance = distance
		c.candidateFound = true
	}
}

// --- RequestId ---

func requestIDTransition(c *Core) {
	c.idAssigned = false
	c.idRejected = false
	if c.nodeIDValid() {
		c.transitionTo(StateVerifyUplink)
		return
	}
	c.sendIDRequest()
}

func (c *Core) sendIDRequest() {
	f := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: protocol.Gateway,
		Command:     protocol.CmdIDRequest,
	}
	c.sendFrame(c.ParentNodeID, f)
}

func requestIDUpdate(c *Core) {
	if c.idRejected {
		c.idRejected = false
		c.retryOrFail(func() { c.sendIDRequest() })
		return
	}
	if c.idAssigned {
		c.NodeID = c.assignedID
		_ = c.store.SaveNodeID(c.NodeID)
		c.driver.SetAddress(c.NodeID)
		c.transitionTo(StateVerifyUplink)
		return
	}
	if c.timedOut() {
		c.retryOrFail(func() { c.sendIDRequest() })
	}
}

func (c *Core) handleIDRequest(f *protocol.Frame) {
	if !c.cfg.IsGateway {
		return
	}
	id := c.gatewayNextFreeID
	if id < protocol.MinNodeID || id > protocol.MaxNodeID {
		c.log.Error("node id pool exhausted")
		return
	}
	c.gatewayNextFreeID++
	if c.gatewayNextFreeID > protocol.MaxNodeID {
		c.gatewayNextFreeID = protocol.MinNodeID
	}
	resp := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: protocol.Broadcast,
		Command:     protocol.CmdIDResponse,
		Payload:     []byte{id},
	}
	c.sendFrame(protocol.Broadcast, resp)
}

func (c *Core) handleIDResponse(f *protocol.Frame) {
	if c.State != StateRequestID || c.nodeIDValid() || len(f.Payload) == 0 {
		return
	}
	id := f.Payload[0]
	if id < protocol.MinNodeID || id > protocol.MaxNodeID {
		c.log.Warn("rejected invalid id assignment", "id", id, "err", protocol.ErrInvalidNodeID)
		c.idRejected = true
		return
	}
	c.assignedID = id
	c.idAssigned = true
}

// --- VerifyUplink ---

func verifyUplinkTransition(c *Core) {
	if c.performUplinkCheck(true) {
		c.transitionTo(StateReady)
	}
}

func verifyUplinkUpdate(c *Core) {
	if c.UplinkOK {
		c.transitionTo(StateReady)
		return
	}
	if c.timedOut() {
		c.retryOrFail(func() { c.performUplinkCheck(true) })
	}
}

// --- Ready ---

func readyTransition(c *Core) {
	c.TransportActive = true
}

func readyUpdate(c *Core) {
	threshold := protocol.FailedUplinkThresholdLeaf
	if c.cfg.Repeater {
		threshold = protocol.FailedUplinkThresholdRepeater
	}
	if c.FailedUplinkTransmissions >= threshold {
		if c.cfg.StaticParentIDSet {
			c.ParentNodeID = c.cfg.StaticParentID
			_ = c.store.SaveParentID(c.ParentNodeID)
			c.FailedUplinkTransmissions = 0
			c.log.Warn("uplink threshold reached, re-enforced static parent")
			return
		}
		c.log.Warn("uplink threshold reached, searching for a new parent")
		c.transitionTo(StateFindParent)
		return
	}
	c.performUplinkCheck(false)
}

// --- Failure ---

func failureTransition(c *Core) {
	c.TransportActive = false
	c.driver.PowerDown()
}

func failureUpdate(c *Core) {
	if c.clock().Sub(c.StateEnteredAt) >= protocol.FailureRecoveryWait {
		c.transitionTo(StateInit)
	}
}

// performUplinkCheck pings the gateway via the parent and blocks
// (transportWait) for up to protocol.UplinkWaitTimeout for the matching
// pong. Used by VerifyUplink (force=true, every attempt) and Ready
// (force=false, rate-limited to protocol.UplinkCheckInterval).
func (c *Core) performUplinkCheck(force bool) bool {
	now := c.clock()
	if !force && now.Sub(c.LastUplinkCheckAt) < protocol.UplinkCheckInterval {
		return c.UplinkOK
	}
	c.LastUplinkCheckAt = now

	c.PingActive = true
	c.pingIsUplinkCheck = true
	c.pongReceived = false
	f := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: protocol.Gateway,
		Command:     protocol.CmdPing,
		Payload:     []byte{0},
	}
	if !c.sendFrame(c.ParentNodeID, f) {
		c.PingActive = false
		c.UplinkOK = false
		c.FailedUplinkTransmissions++
		return false
	}

	ok := c.transportWait(protocol.UplinkWaitTimeout, func() bool { return c.pongReceived })
	c.PingActive = false
	if !ok {
		c.UplinkOK = false
		c.FailedUplinkTransmissions++
		return false
	}

	c.UplinkOK = true
	c.FailedUplinkTransmissions = 0
	if newDistance := c.PingResponse; newDistance != c.Distance && newDistance != protocol.InvalidDistance {
		c.log.Info("uplink distance changed", "old", c.Distance, "new", newDistance)
		c.Distance = newDistance
		_ = c.store.SaveDistance(newDistance)
	}
	return true
}
