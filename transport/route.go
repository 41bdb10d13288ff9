package transport

import "github.com/ystepanoff/meshtransport/protocol"

// nextHopFor resolves the single-hop radio destination for a mesh
// destination: the routing table if this node is repeater-capable and has
// learned a route, else parentNodeId (spec §4.3 — non-repeater nodes
// always fall through to the parent).
func (c *Core) nextHopFor(dest byte) byte {
	if nh, ok := c.routes.Lookup(dest); ok {
		return nh
	}
	return c.ParentNodeID
}

// sendFrame rewrites LastHop, signs if requested, encodes and hands the
// frame to the driver addressed at the single radio hop to (spec §4.2).
func (c *Core) sendFrame(to byte, f *protocol.Frame) bool {
	f.LastHop = c.NodeID
	if f.ProtocolVersion == 0 {
		f.ProtocolVersion = protocol.ProtocolVersion
	}
	if f.SigningRequested {
		sig, err := c.signer.Sign(f.Payload)
		if err != nil {
			c.log.Error("sign outbound frame", "err", err)
		} else {
			f.Signature = sig
			f.SigningPresent = true
		}
	}
	return c.driver.Send(to, protocol.EncodeFrame(f))
}

func clamp4(v int) byte {
	if v > 0x0F {
		return 0x0F
	}
	return byte(v)
}
