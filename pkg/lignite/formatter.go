// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// FormatPacket formats the most recently decoded frame into a human-readable
// multi-line string.
func FormatPacket(p *Packet) string {
	var sb strings.Builder

	sb.WriteString("packet")
	if p.useAddr() {
		fmt.Fprintf(&sb, " from=0x%02X to=0x%02X", p.From(), p.To())
		if p.IsBroadcast() {
			sb.WriteString(" (broadcast)")
		} else if p.IsForMe() {
			sb.WriteString(" (for me)")
		}
	}
	if p.useFlags() {
		fmt.Fprintf(&sb, " flags=0x%08X", p.Flags())
	}
	if p.useCmd() {
		fmt.Fprintf(&sb, " cmd=0x%02X", p.Cmd())
	}
	fmt.Fprintf(&sb, " len=%d\n", p.DataLen())

	if p.DataLen() > 0 {
		sb.WriteString(FormatPayload(p.Data()))
	}
	return sb.String()
}

// FormatPayload renders a payload for display. Payloads that parse as a
// single well-formed CBOR item other than a byte string are shown decoded;
// everything else falls back to a hex dump with a printable-ASCII column.
func FormatPayload(data []byte) string {
	var v interface{}
	if err := cbor.Unmarshal(data, &v); err == nil {
		if _, ok := v.([]byte); !ok {
			return fmt.Sprintf("  CBOR: %v\n", v)
		}
	}
	return hexDump(data)
}

// hexDump formats data as 16-byte rows of hex with an ASCII gutter.
func hexDump(data []byte) string {
	var sb strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		fmt.Fprintf(&sb, "  %04X  ", off)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(&sb, "%02X ", row[i])
			} else {
				sb.WriteString("   ")
			}
		}
		sb.WriteString(" ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7F {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
