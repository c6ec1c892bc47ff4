// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Calorimet/stoker/pkg/lignite"
)

// Profile is the TOML configuration for one link endpoint. Every field is
// optional; zero values fall back to the protocol defaults.
type Profile struct {
	Address    string `toml:"address"`
	Port       string `toml:"port"`
	Baud       int    `toml:"baud"`
	MaxDataLen int    `toml:"max_data_len"`
	TimeoutMS  uint32 `toml:"timeout_ms"`

	Features featuresConfig `toml:"features"`
}

type featuresConfig struct {
	Addr    string `toml:"addr"`
	AddrExt string `toml:"addr_ext"`
	Flags   string `toml:"flags"`
	Cmd     string `toml:"cmd"`
	CRC     string `toml:"crc"`
	CRC32   string `toml:"crc32"`
}

// defaultProfile matches lignite.DefaultOptions.
func defaultProfile() Profile {
	return Profile{
		Features: featuresConfig{
			Addr: "always",
			Cmd:  "always",
			CRC:  "always",
		},
	}
}

// loadProfile reads a TOML profile from path. An empty path returns the
// default profile.
func loadProfile(path string) (Profile, error) {
	profile := defaultProfile()
	if path == "" {
		return profile, nil
	}
	if _, err := toml.DecodeFile(path, &profile); err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// parseFeatureMode maps a profile string onto a lignite.FeatureMode.
func parseFeatureMode(s string) (lignite.FeatureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "disabled":
		return lignite.FeatureOff, nil
	case "always", "on":
		return lignite.FeatureAlways, nil
	case "dynamic":
		return lignite.FeatureDynamic, nil
	default:
		return lignite.FeatureOff, fmt.Errorf("invalid feature mode %q (off|always|dynamic)", s)
	}
}

// parseAddress accepts decimal or 0x-prefixed hexadecimal node addresses.
func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}

// Options converts the profile into the protocol configuration.
func (p Profile) Options() (lignite.Options, error) {
	opts := lignite.Options{
		MaxDataLen:    p.MaxDataLen,
		InProgTimeout: p.TimeoutMS,
	}

	var err error
	if opts.Addr, err = parseFeatureMode(p.Features.Addr); err != nil {
		return lignite.Options{}, err
	}
	if opts.AddrExt, err = parseFeatureMode(p.Features.AddrExt); err != nil {
		return lignite.Options{}, err
	}
	if opts.Flags, err = parseFeatureMode(p.Features.Flags); err != nil {
		return lignite.Options{}, err
	}
	if opts.Cmd, err = parseFeatureMode(p.Features.Cmd); err != nil {
		return lignite.Options{}, err
	}
	if opts.CRC, err = parseFeatureMode(p.Features.CRC); err != nil {
		return lignite.Options{}, err
	}
	if opts.CRC32, err = parseFeatureMode(p.Features.CRC32); err != nil {
		return lignite.Options{}, err
	}
	return opts, nil
}

// newPacketFromFlags builds a ready-to-use packet instance from the profile
// plus command-line overrides, with freshly allocated rings sized for the
// connection read buffer.
func newPacketFromFlags() (*lignite.Packet, *lignite.Ring, *lignite.Ring, error) {
	profile, err := loadProfile(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if portName == "" && profile.Port != "" {
		portName = profile.Port
	}
	if profile.Baud != 0 && !rootCmd.PersistentFlags().Changed("baud") {
		baudRate = profile.Baud
	}

	opts, err := profile.Options()
	if err != nil {
		return nil, nil, nil, err
	}

	tx := lignite.NewRing(4096)
	rx := lignite.NewRing(4096)
	pkt, err := lignite.New(tx, rx, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	addr := profile.Address
	if ownAddress != "" {
		addr = ownAddress
	}
	if addr != "" {
		a, err := parseAddress(addr)
		if err != nil {
			return nil, nil, nil, err
		}
		pkt.SetAddress(a)
	}
	return pkt, tx, rx, nil
}
