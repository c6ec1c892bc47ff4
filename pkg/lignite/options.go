// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy

package lignite

// FeatureMode decides how a wire-format feature is configured for an
// instance. FeatureOff compiles the field out of the wire entirely;
// FeatureAlways keeps it always present; FeatureDynamic makes presence
// depend on the instance's runtime feature bit.
type FeatureMode uint8

// Feature mode values
const (
	FeatureOff FeatureMode = iota
	FeatureAlways
	FeatureDynamic
)

// String returns the symbolic name of a feature mode.
func (m FeatureMode) String() string {
	switch m {
	case FeatureOff:
		return "off"
	case FeatureAlways:
		return "always"
	case FeatureDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Options selects the wire-format layout and numeric limits for a Packet
// instance. The parser and encoder of two communicating instances must agree
// on the same layout.
type Options struct {
	// MaxDataLen is the fixed capacity of the decoded payload buffer.
	// Defaults to DefaultMaxDataLen when zero.
	MaxDataLen int

	// AddrBroadcast is the destination address identifying a broadcast
	// message. Defaults to DefaultAddrBroadcast when zero.
	AddrBroadcast uint32

	// InProgTimeout is the idle window in milliseconds after which Process
	// recycles an in-progress frame. Defaults to DefaultInProgTimeout when
	// zero.
	InProgTimeout uint32

	Addr    FeatureMode // from/to address fields on the wire
	AddrExt FeatureMode // varint-7 extended addresses instead of single byte
	Flags   FeatureMode // user flags field on the wire
	Cmd     FeatureMode // command byte on the wire
	CRC     FeatureMode // CRC field on the wire
	CRC32   FeatureMode // CRC-32 instead of CRC-8
}

// DefaultOptions returns the canonical layout: compact addressing, command
// byte and CRC-8 always on, flags and extended addressing off.
func DefaultOptions() Options {
	return Options{
		Addr: FeatureAlways,
		Cmd:  FeatureAlways,
		CRC:  FeatureAlways,
	}
}

// normalize fills zero-valued numeric options with their defaults.
func (o *Options) normalize() {
	if o.MaxDataLen <= 0 {
		o.MaxDataLen = DefaultMaxDataLen
	}
	if o.AddrBroadcast == 0 {
		o.AddrBroadcast = DefaultAddrBroadcast
	}
	if o.InProgTimeout == 0 {
		o.InProgTimeout = DefaultInProgTimeout
	}
}

// enabled reports whether a feature is present on the wire for the given
// mode and runtime flag set.
func enabled(mode FeatureMode, set Feature, bit Feature) bool {
	switch mode {
	case FeatureAlways:
		return true
	case FeatureDynamic:
		return set&bit != 0
	default:
		return false
	}
}
