//go:build tinygo || baremetal

package nrf

import (
	"github.com/ystepanoff/meshtransport/protocol"

	"device/nrf"
)

// StartHFCLK starts the high-frequency clock the radio peripheral needs.
func StartHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// ConfigureRadio brings the RADIO peripheral up on a fixed channel/address
// scheme shared by every node: the node id occupies the address prefix
// byte, so any two nodes can address each other by id alone.
func ConfigureRadio(channel uint8) error {
	if channel > 125 {
		return protocol.ErrInvalidChannel
	}

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	nrf.RADIO.TXPOWER.Set(nrf.RADIO_TXPOWER_TXPOWER_0dBm)
	nrf.RADIO.FREQUENCY.Set(uint32(channel))

	nrf.RADIO.BASE0.Set(meshBaseAddress)
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(1)

	nrf.RADIO.PCNF0.Set(
		(8 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(uint32(protocol.MaxFrameSize) << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(3 << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Little << nrf.RADIO_PCNF1_ENDIAN_Pos))

	nrf.RADIO.CRCCNF.Set(1)
	nrf.RADIO.CRCINIT.Set(0xFF)
	nrf.RADIO.CRCPOLY.Set(0x107)

	return nil
}

// meshBaseAddress is the fixed shockburst base address for every node;
// per-node addressing happens at PREFIX0, set by SetPrefix.
const meshBaseAddress = 0xE7E7E7E7

// SetPrefix points the radio's single receive pipe at addr — the node id
// this driver should listen and reply as.
func SetPrefix(addr byte) {
	nrf.RADIO.PREFIX0.Set(uint32(addr))
}
