// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

import (
	"bytes"
	"testing"
)

func TestVarint7Len(t *testing.T) {
	tests := []struct {
		value    uint32
		expected int
	}{
		{0x00, 1},
		{0x01, 1},
		{0x7F, 1},
		{0x80, 2},
		{0x3FFF, 2},
		{0x4000, 3},
		{0x1FFFFF, 3},
		{0x200000, 4},
		{0xFFFFFFF, 4},
		{0x10000000, 5},
		{0xFFFFFFFF, 5},
	}

	for _, tt := range tests {
		if got := varint7Len(tt.value); got != tt.expected {
			t.Errorf("varint7Len(0x%X): expected %d, got %d", tt.value, tt.expected, got)
		}
	}
}

func TestVarint7_AddressBoundaries(t *testing.T) {
	opts := DefaultOptions()
	opts.AddrExt = FeatureAlways

	// Values straddling the 7-bit group boundaries must survive the trip.
	values := []uint32{0x00, 0x7F, 0x80, 0x3FFF, 0x4000, 0xFFFFFFFF}
	for _, v := range values {
		p, tx, rx := newTestPacket(t, opts)
		p.SetAddress(v)
		if res := p.Write(v, 0, 0x01, nil); res != ResOK {
			t.Fatalf("Write(addr=0x%X): expected OK, got %v", v, res)
		}
		feed(t, rx, drain(tx))
		if res := p.Read(); res != ResValid {
			t.Fatalf("Read(addr=0x%X): expected VALID, got %v", v, res)
		}
		if p.From() != v || p.To() != v {
			t.Errorf("addr 0x%X: decoded from=0x%X to=0x%X", v, p.From(), p.To())
		}
	}
}

func TestVarint7_MultiByteLength(t *testing.T) {
	payload := bytes.Repeat([]byte{0x77}, 200)
	frame := encodeFrame(t, DefaultOptions(), 0x12, 0x11, 0, 0x01, payload)

	// 200 = 0xC8: low group 0x48 with continuation bit, then 0x01.
	if frame[4] != 0xC8 || frame[5] != 0x01 {
		t.Errorf("length varint: expected C8 01, got %02X %02X", frame[4], frame[5])
	}

	p, _, rx := newTestPacket(t, DefaultOptions())
	p.SetAddress(0x11)
	feed(t, rx, frame)
	if res := p.Read(); res != ResValid {
		t.Fatalf("Read: expected VALID, got %v", res)
	}
	if p.DataLen() != 200 {
		t.Errorf("DataLen: expected 200, got %d", p.DataLen())
	}
}

func TestWireLayout_SectionOrder(t *testing.T) {
	// With every optional section enabled the wire order is
	// START FROM TO FLAGS CMD LEN DATA CRC STOP.
	opts := Options{
		Addr:  FeatureAlways,
		Flags: FeatureAlways,
		Cmd:   FeatureAlways,
		CRC:   FeatureAlways,
	}
	frame := encodeFrame(t, opts, 0x01, 0x02, 0x03, 0x04, []byte{0x05})

	want := []byte{StartByte, 0x01, 0x02, 0x03, 0x04, 0x01, 0x05}
	if !bytes.Equal(frame[:len(want)], want) {
		t.Errorf("header layout: expected % X, got % X", want, frame[:len(want)])
	}
	if frame[len(frame)-1] != StopByte {
		t.Errorf("missing stop byte: % X", frame)
	}
	covered := frame[1 : len(frame)-2]
	if frame[len(frame)-2] != CRC8(covered) {
		t.Errorf("crc: expected 0x%02X, got 0x%02X", CRC8(covered), frame[len(frame)-2])
	}
}

func TestWireLayout_BareMinimum(t *testing.T) {
	// Everything off: START LEN DATA STOP.
	opts := Options{}
	frame := encodeFrame(t, opts, 0, 0, 0, 0, []byte{0xAB, 0xCD})

	want := []byte{StartByte, 0x02, 0xAB, 0xCD, StopByte}
	if !bytes.Equal(frame, want) {
		t.Errorf("bare frame: expected % X, got % X", want, frame)
	}

	p, _, rx := newTestPacket(t, opts)
	feed(t, rx, frame)
	if res := p.Read(); res != ResValid {
		t.Fatalf("Read: expected VALID, got %v", res)
	}
	if !bytes.Equal(p.Data(), []byte{0xAB, 0xCD}) {
		t.Errorf("payload: got % X", p.Data())
	}
}
