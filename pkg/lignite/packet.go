// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

import "errors"

// Constructor validation errors
var (
	ErrNilRing = errors.New("lignite: nil ring buffer")
)

// Packet is one protocol endpoint. It holds the per-peer configuration, the
// borrowed TX/RX ring buffers, the in-progress receive state and the decoded
// payload storage. A Packet owns no heap memory beyond the payload buffer
// allocated once at construction, and its mutable state must be driven by a
// single goroutine.
type Packet struct {
	opts     Options
	addr     uint32
	txRB     RingBuffer
	rxRB     RingBuffer
	features Feature
	evtFn    EventFunc
	lastRX   uint32

	data []byte // decoded payload storage, fixed capacity MaxDataLen
	m    work   // receive work area, zeroed between frames
}

// work is the receive scratch zone. Its meaning depends on the current
// state: index counts wire bytes for the multi-byte sections, crcRecv
// assembles the received checksum little-endian.
type work struct {
	state   int
	index   int
	from    uint32
	to      uint32
	flags   uint32
	cmd     uint8
	dataLen uint32
	crc     CRC
	crcRecv uint32
}

// New creates a packet instance attached to the given TX and RX ring
// buffers. The rings are borrowed, not owned; the caller guarantees their
// lifetime. Every dynamic feature starts enabled.
func New(txRB, rxRB RingBuffer, opts Options) (*Packet, error) {
	if txRB == nil || rxRB == nil {
		return nil, ErrNilRing
	}
	opts.normalize()
	p := &Packet{
		opts:     opts,
		txRB:     txRB,
		rxRB:     rxRB,
		features: featureAll,
		data:     make([]byte, opts.MaxDataLen),
	}
	p.resetWork()
	return p, nil
}

// SetAddress configures the local node address. In compact addressing mode
// only the low 8 bits go on the wire.
func (p *Packet) SetAddress(addr uint32) {
	p.addr = addr
}

// Address returns the configured local node address.
func (p *Packet) Address() uint32 {
	return p.addr
}

// SetFeature turns one dynamic feature on or off. It has no effect on
// features configured as FeatureOff or FeatureAlways.
func (p *Packet) SetFeature(f Feature, on bool) {
	if on {
		p.features |= f
	} else {
		p.features &^= f
	}
}

// SetEventFunc registers the callback invoked on protocol milestones.
// Pass nil to remove it.
func (p *Packet) SetEventFunc(fn EventFunc) {
	p.evtFn = fn
}

// Reset discards any partially assembled frame and returns the parser to the
// start state.
func (p *Packet) Reset() {
	p.resetWork()
}

func (p *Packet) resetWork() {
	p.m = work{state: stateStart}
}

// setState advances the state machine and clears the multi-byte scratch
// index.
func (p *Packet) setState(s int) {
	p.m.state = s
	p.m.index = 0
}

func (p *Packet) sendEvt(evt Event) {
	if p.evtFn != nil {
		p.evtFn(p, evt)
	}
}

// Feature predicates. The encoder and parser both consult these so the wire
// layout always agrees with itself.

func (p *Packet) useAddr() bool {
	return enabled(p.opts.Addr, p.features, FeatureAddr)
}

func (p *Packet) useAddrExt() bool {
	return p.useAddr() && enabled(p.opts.AddrExt, p.features, FeatureAddrExt)
}

func (p *Packet) useFlags() bool {
	return enabled(p.opts.Flags, p.features, FeatureFlags)
}

func (p *Packet) useCmd() bool {
	return enabled(p.opts.Cmd, p.features, FeatureCmd)
}

func (p *Packet) useCRC() bool {
	return enabled(p.opts.CRC, p.features, FeatureCRC)
}

func (p *Packet) useCRC32() bool {
	return p.useCRC() && enabled(p.opts.CRC32, p.features, FeatureCRC32)
}

// crcLen returns the on-wire checksum width for the current configuration.
func (p *Packet) crcLen() int {
	if !p.useCRC() {
		return 0
	}
	if p.useCRC32() {
		return 4
	}
	return 1
}

// nextSection returns the first enabled wire section at or after s. Disabled
// sections are simply omitted from the wire; LEN is always present.
func (p *Packet) nextSection(s int) int {
	for {
		switch s {
		case stateFrom, stateTo:
			if p.useAddr() {
				return s
			}
			s = stateFlags
		case stateFlags:
			if p.useFlags() {
				return s
			}
			s = stateCmd
		case stateCmd:
			if p.useCmd() {
				return s
			}
			s = stateLen
		case stateCRC:
			if p.useCRC() {
				return s
			}
			s = stateStop
		default:
			return s
		}
	}
}

// Accessors below read the receive work area. It holds the most recently
// decoded frame until the next start byte arrives, and the fields of the
// frame in progress after that. All are safe on a fresh instance, where they
// return zero values (IsForMe reports true there only if the own address is 0).

// From returns the source address of the last decoded frame.
func (p *Packet) From() uint32 {
	return p.m.from
}

// To returns the destination address of the last decoded frame.
func (p *Packet) To() uint32 {
	return p.m.to
}

// Flags returns the user flags of the last decoded frame.
func (p *Packet) Flags() uint32 {
	return p.m.flags
}

// Cmd returns the command byte of the last decoded frame.
func (p *Packet) Cmd() uint8 {
	return p.m.cmd
}

// DataLen returns the payload length of the last decoded frame.
func (p *Packet) DataLen() int {
	return int(p.m.dataLen)
}

// Data returns the payload of the last decoded frame. The slice aliases the
// instance's fixed storage and is overwritten by the next frame.
func (p *Packet) Data() []byte {
	n := int(p.m.dataLen)
	if n > len(p.data) {
		n = len(p.data)
	}
	return p.data[:n]
}

// IsForMe reports whether the last decoded frame is addressed to this node.
func (p *Packet) IsForMe() bool {
	return p.m.to == p.addr
}

// IsBroadcast reports whether the last decoded frame is addressed to the
// broadcast sentinel.
func (p *Packet) IsBroadcast() bool {
	return p.m.to == p.opts.AddrBroadcast
}
