// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Protocol flags
	configPath string
	ownAddress string
)

var rootCmd = &cobra.Command{
	Use:   "stoker",
	Short: "Lignite Serial Protocol Analyzer",
	Long: `Stoker - A CLI tool for monitoring, decoding and exercising Lignite
protocol links.

Provides commands for live packet monitoring, a statistics dashboard, frame
transmission and connectivity testing, to help diagnose communication issues
on Lignite byte-stream links.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

The wire layout (addressing, flags field, command byte, checksum) is taken
from a TOML profile (--config); no flag overrides it. The --address flag
overrides only the profile's own node address. For WebSocket
authentication, the password is read from the STOKER_PASSWORD environment
variable, or prompted interactively if not set. The --password flag is
intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Protocol flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML profile with addressing and wire-layout settings")
	rootCmd.PersistentFlags().StringVarP(&ownAddress, "address", "a", "", "Own node address (overrides profile)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
