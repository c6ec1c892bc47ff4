// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calorimet Oy
//
// Stoker - Lignite Serial Protocol Analyzer
//
// A CLI tool for monitoring, decoding and exercising Lignite protocol
// links over serial ports and WebSocket bridges.

package main

import (
	"os"

	"github.com/Calorimet/stoker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
