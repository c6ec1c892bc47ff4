// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

// varint7Len returns the number of wire bytes the varint-7 encoding of v
// occupies (1 to 5; zero encodes as a single 0x00 byte).
func varint7Len(v uint32) int {
	n := 1
	for v > 0x7F {
		v >>= 7
		n++
	}
	return n
}

// Write serializes one frame into the TX ring buffer. The to, flags and cmd
// arguments are ignored when the corresponding feature is not enabled for
// this instance; data may be nil for an empty payload.
//
// The exact frame size is computed up front. When the TX ring lacks
// capacity, Write returns ResErrMem without emitting a single byte; after
// the check passes, the frame is written in full.
func (p *Packet) Write(to uint32, flags uint32, cmd uint8, data []byte) Result {
	if p == nil {
		return ResErr
	}
	p.sendEvt(EvtPreWrite)

	// Pre-flight capacity check: start + stop, gated header sections,
	// varint-7 length, payload, checksum.
	need := 2
	if p.useAddr() {
		if p.useAddrExt() {
			need += varint7Len(p.addr) + varint7Len(to)
		} else {
			need += 2
		}
	}
	if p.useFlags() {
		need += varint7Len(flags)
	}
	if p.useCmd() {
		need++
	}
	need += varint7Len(uint32(len(data))) + len(data) + p.crcLen()

	if p.txRB.Free() < need {
		p.sendEvt(EvtPostWrite)
		return ResErrMem
	}

	var crc CRC
	crc.Reset(p.useCRC32())

	// Start byte, not CRC-covered.
	p.txByte(StartByte, nil)

	if p.useAddr() {
		if p.useAddrExt() {
			p.txVarint(p.addr, &crc)
			p.txVarint(to, &crc)
		} else {
			p.txByte(byte(p.addr), &crc)
			p.txByte(byte(to), &crc)
		}
	}
	if p.useFlags() {
		p.txVarint(flags, &crc)
	}
	if p.useCmd() {
		p.txByte(cmd, &crc)
	}
	p.txVarint(uint32(len(data)), &crc)

	if len(data) > 0 {
		p.txRB.Write(data)
		if p.useCRC() {
			for _, b := range data {
				crc.Update(b)
			}
		}
	}

	// Checksum goes out little-endian, then the stop byte. Neither is
	// CRC-covered.
	if n := p.crcLen(); n > 0 {
		sum := crc.Sum()
		for i := 0; i < n; i++ {
			p.txByte(byte(sum>>(8*i)), nil)
		}
	}
	p.txByte(StopByte, nil)

	p.sendEvt(EvtWrite)
	p.sendEvt(EvtPostWrite)
	return ResOK
}

// txByte writes one byte to the TX ring, folding it into crc when the byte
// is CRC-covered.
func (p *Packet) txByte(b byte, crc *CRC) {
	p.txRB.Write([]byte{b})
	if crc != nil && p.useCRC() {
		crc.Update(b)
	}
}

// txVarint writes v in varint-7 encoding: 7 low bits per byte, LSB group
// first, MSB set on every byte except the last.
func (p *Packet) txVarint(v uint32, crc *CRC) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		p.txByte(b, crc)
		if v == 0 {
			break
		}
	}
}
