// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Calorimet/stoker/pkg/lignite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile_Defaults(t *testing.T) {
	profile, err := loadProfile("")
	require.NoError(t, err)

	opts, err := profile.Options()
	require.NoError(t, err)
	assert.Equal(t, lignite.FeatureAlways, opts.Addr)
	assert.Equal(t, lignite.FeatureOff, opts.AddrExt)
	assert.Equal(t, lignite.FeatureOff, opts.Flags)
	assert.Equal(t, lignite.FeatureAlways, opts.Cmd)
	assert.Equal(t, lignite.FeatureAlways, opts.CRC)
	assert.Equal(t, lignite.FeatureOff, opts.CRC32)
}

func TestLoadProfile_FullFile(t *testing.T) {
	path := writeTempProfile(t, `
address = "0x12"
port = "/dev/ttyUSB3"
baud = 230400
max_data_len = 512
timeout_ms = 250

[features]
addr = "always"
addr_ext = "always"
flags = "dynamic"
cmd = "off"
crc = "always"
crc32 = "always"
`)

	profile, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "0x12", profile.Address)
	assert.Equal(t, "/dev/ttyUSB3", profile.Port)
	assert.Equal(t, 230400, profile.Baud)

	opts, err := profile.Options()
	require.NoError(t, err)
	assert.Equal(t, 512, opts.MaxDataLen)
	assert.Equal(t, uint32(250), opts.InProgTimeout)
	assert.Equal(t, lignite.FeatureAlways, opts.AddrExt)
	assert.Equal(t, lignite.FeatureDynamic, opts.Flags)
	assert.Equal(t, lignite.FeatureOff, opts.Cmd)
	assert.Equal(t, lignite.FeatureAlways, opts.CRC32)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := loadProfile("/nonexistent/profile.toml")
	assert.Error(t, err)
}

func TestLoadProfile_BadFeatureMode(t *testing.T) {
	path := writeTempProfile(t, `
[features]
crc = "sometimes"
`)
	profile, err := loadProfile(path)
	require.NoError(t, err)

	_, err = profile.Options()
	assert.ErrorContains(t, err, "invalid feature mode")
}

func TestParseFeatureMode(t *testing.T) {
	tests := []struct {
		in       string
		expected lignite.FeatureMode
	}{
		{"", lignite.FeatureOff},
		{"off", lignite.FeatureOff},
		{"disabled", lignite.FeatureOff},
		{"always", lignite.FeatureAlways},
		{"on", lignite.FeatureAlways},
		{"dynamic", lignite.FeatureDynamic},
		{" Always ", lignite.FeatureAlways},
	}
	for _, tt := range tests {
		mode, err := parseFeatureMode(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.expected, mode, "input %q", tt.in)
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("0x12")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12), addr)

	addr, err = parseAddress("255")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF), addr)

	_, err = parseAddress("not-an-address")
	assert.Error(t, err)

	_, err = parseAddress("0x1FFFFFFFF")
	assert.Error(t, err, "addresses wider than 32 bits must be rejected")
}
