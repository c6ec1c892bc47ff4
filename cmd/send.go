// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Calorimet/stoker/pkg/lignite"
	"github.com/spf13/cobra"
)

var (
	sendTo    string
	sendCmd   uint8
	sendFlags uint32
	sendHex   string
)

var sendCommand = &cobra.Command{
	Use:   "send [payload]",
	Short: "Encode one frame and transmit it",
	Long: `Encode a single Lignite frame and write it to the connection.

The payload is taken from the positional argument as raw text, or from
--hex as hexadecimal bytes. An absent payload sends an empty frame.

Examples:
  stoker send --port /dev/ttyUSB0 --address 0x12 --to 0x11 --cmd 0x85 "Hello World"
  stoker send --port /dev/ttyUSB0 --to 0xFF --cmd 0x01 --hex "DE AD BE EF"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCommand)
	sendCommand.Flags().StringVar(&sendTo, "to", "", "Destination address (decimal or 0x hex)")
	sendCommand.Flags().Uint8Var(&sendCmd, "cmd", 0, "Command byte")
	sendCommand.Flags().Uint32Var(&sendFlags, "flags", 0, "User flags value")
	sendCommand.Flags().StringVar(&sendHex, "hex", "", "Payload as hex bytes instead of text")
}

func runSend(cmd *cobra.Command, args []string) error {
	pkt, tx, _, err := newPacketFromFlags()
	if err != nil {
		return err
	}

	var to uint32
	if sendTo != "" {
		if to, err = parseAddress(sendTo); err != nil {
			return err
		}
	}

	var payload []byte
	switch {
	case sendHex != "":
		cleaned := strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(sendHex)
		payload, err = hex.DecodeString(cleaned)
		if err != nil {
			return fmt.Errorf("invalid hex payload: %w", err)
		}
	case len(args) == 1:
		payload = []byte(args[0])
	}

	if res := pkt.Write(to, sendFlags, sendCmd, payload); res != lignite.ResOK {
		return fmt.Errorf("encode frame: %s", res)
	}

	frame := make([]byte, tx.Len())
	tx.Read(frame)

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	fmt.Printf("Sent %d bytes to %s\n", len(frame), connInfo)
	fmt.Printf("  to=0x%02X cmd=0x%02X payload=%d bytes\n", to, sendCmd, len(payload))
	return nil
}
