// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

// Package lignite implements the Lignite framed packet protocol.
//
// Lignite is a lightweight binary protocol for point-to-point and multi-drop
// byte-stream links (UART, RS-485, USB CDC, or any reliable byte pipe). Each
// frame carries optional source/destination addresses, optional user flags,
// an optional command byte, a variable-length payload, and an optional CRC.
// Framing relies on an explicit length field, not byte stuffing; payload
// bytes equal to the start or stop marker are permitted.
//
// This package provides the streaming receive state machine, the transmit
// encoder, CRC-8/CRC-32 accumulators, and a byte ring buffer for moving data
// between the protocol core and a transport driver.
package lignite

// Protocol framing bytes
const (
	StartByte = 0xAA
	StopByte  = 0x55
)

// Default numeric options
const (
	DefaultMaxDataLen    = 256
	DefaultAddrBroadcast = 0xFF
	DefaultInProgTimeout = 100 // milliseconds
)

// Receive state machine states (internal)
const (
	stateStart = iota
	stateFrom
	stateTo
	stateFlags
	stateCmd
	stateLen
	stateData
	stateCRC
	stateStop
)

// Result is the status code returned by the read, write and process
// operations.
type Result uint8

// Result values
const (
	ResOK       Result = iota // operation completed
	ResErr                    // hard error: invalid argument or unreachable state
	ResInProg                 // receive in progress, frame not yet complete
	ResValid                  // complete, integrity-verified frame available
	ResErrCRC                 // CRC mismatch, frame discarded
	ResErrStop                // stop byte expected but different byte received
	ResErrMem                 // payload exceeds MaxDataLen or TX ring lacks capacity
	ResWaitData               // parser idle, awaiting start byte
)

// String returns the symbolic name of a result code.
func (r Result) String() string {
	switch r {
	case ResOK:
		return "OK"
	case ResErr:
		return "ERR"
	case ResInProg:
		return "IN_PROGRESS"
	case ResValid:
		return "VALID"
	case ResErrCRC:
		return "CRC_ERROR"
	case ResErrStop:
		return "STOP_ERROR"
	case ResErrMem:
		return "MEMORY_ERROR"
	case ResWaitData:
		return "WAITING_FOR_DATA"
	default:
		return "UNKNOWN"
	}
}

// Event identifies a protocol milestone reported through the event callback.
type Event uint8

// Event values
const (
	EvtPreRead   Event = iota // start of a read invocation
	EvtPostRead               // end of a read invocation, unconditional
	EvtRead                   // end of a read invocation that consumed bytes
	EvtPreWrite               // start of a write invocation, before capacity check
	EvtPostWrite              // end of a write invocation, unconditional
	EvtWrite                  // frame fully written to the TX ring
	EvtPkt                    // valid frame observed by Process
	EvtTimeout                // in-progress frame recycled by the watchdog
)

// String returns the symbolic name of an event.
func (e Event) String() string {
	switch e {
	case EvtPreRead:
		return "PRE_READ"
	case EvtPostRead:
		return "POST_READ"
	case EvtRead:
		return "READ"
	case EvtPreWrite:
		return "PRE_WRITE"
	case EvtPostWrite:
		return "POST_WRITE"
	case EvtWrite:
		return "WRITE"
	case EvtPkt:
		return "PKT"
	case EvtTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// EventFunc is the callback invoked on protocol milestones.
type EventFunc func(p *Packet, evt Event)

// Feature is a bit identifying one runtime-selectable wire-format feature.
// Bits only take effect for features configured as FeatureDynamic; see
// Options.
type Feature uint8

// Feature bits
const (
	FeatureAddr    Feature = 1 << iota // from/to address fields
	FeatureAddrExt                     // varint-7 extended addresses
	FeatureFlags                       // user flags field
	FeatureCmd                         // command byte
	FeatureCRC                         // CRC field
	FeatureCRC32                       // CRC-32 instead of CRC-8
)

// featureAll is the initial per-instance flag set: every dynamic feature on.
const featureAll = FeatureAddr | FeatureAddrExt | FeatureFlags | FeatureCmd | FeatureCRC | FeatureCRC32
