// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

import (
	"strings"
	"testing"
)

func decodeOne(t *testing.T, opts Options, frame []byte) *Packet {
	t.Helper()
	p, _, rx := newTestPacket(t, opts)
	p.SetAddress(0x11)
	feed(t, rx, frame)
	if res := p.Read(); res != ResValid {
		t.Fatalf("Read: expected VALID, got %v", res)
	}
	return p
}

func TestFormatPacket_Header(t *testing.T) {
	frame := encodeFrame(t, DefaultOptions(), 0x12, 0x11, 0, 0x85, []byte("hi"))
	p := decodeOne(t, DefaultOptions(), frame)

	out := FormatPacket(p)
	for _, want := range []string{"from=0x12", "to=0x11", "cmd=0x85", "len=2", "(for me)"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatPacket output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatPacket_Broadcast(t *testing.T) {
	frame := encodeFrame(t, DefaultOptions(), 0x12, 0xFF, 0, 0x01, nil)
	p := decodeOne(t, DefaultOptions(), frame)

	out := FormatPacket(p)
	if !strings.Contains(out, "(broadcast)") {
		t.Errorf("FormatPacket output missing broadcast marker:\n%s", out)
	}
}

func TestFormatPayload_HexFallback(t *testing.T) {
	out := FormatPayload([]byte("Hello World\r\n"))
	if !strings.Contains(out, "48 65 6C 6C 6F") {
		t.Errorf("hex dump missing expected bytes:\n%s", out)
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("hex dump missing ASCII gutter:\n%s", out)
	}
}

func TestFormatPayload_CBOR(t *testing.T) {
	// 0x83 0x01 0x02 0x03 is the canonical CBOR encoding of [1, 2, 3].
	out := FormatPayload([]byte{0x83, 0x01, 0x02, 0x03})
	if !strings.Contains(out, "CBOR") {
		t.Errorf("expected CBOR rendering, got:\n%s", out)
	}
}

func TestHexDump_NonPrintable(t *testing.T) {
	out := hexDump([]byte{0x00, 0x41, 0xFF})
	if !strings.Contains(out, "00 41 FF") {
		t.Errorf("hex bytes missing:\n%s", out)
	}
	if !strings.Contains(out, ".A.") {
		t.Errorf("ASCII gutter should mask non-printables:\n%s", out)
	}
}
