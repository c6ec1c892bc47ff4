// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Calorimet/stoker/pkg/lignite"
	"github.com/spf13/cobra"
)

var linkTestTimeout int

var linkTestCmd = &cobra.Command{
	Use:   "link_test",
	Short: "Test connection by waiting for a valid Lignite packet",
	Long: `Wait for a valid Lignite packet on the connection until timeout.

This command connects to a serial port or WebSocket bridge and waits for any
complete frame that passes the integrity check. Stray bytes are ignored;
broken frames are counted and otherwise ignored.

Exit codes:
  0 - Packet received before timeout
  1 - Timeout reached without receiving a valid packet
  2 - Connection error`,
	RunE: runLinkTest,
}

func init() {
	rootCmd.AddCommand(linkTestCmd)
	linkTestCmd.Flags().IntVar(&linkTestTimeout, "timeout", 10, "Timeout in seconds to wait for a packet")
}

func runLinkTest(cmd *cobra.Command, args []string) error {
	pkt, _, rx, err := newPacketFromFlags()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Stoker - Link Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", linkTestTimeout)
	fmt.Printf("Waiting for valid Lignite packet...\n\n")

	packetChan := make(chan struct{}, 1)
	errChan := make(chan error, 1)

	go func() {
		badFrames := 0
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}
			rx.Write(buf[:n])
			for rx.Len() > 0 {
				switch res := pkt.Read(); res {
				case lignite.ResValid:
					if badFrames > 0 {
						fmt.Printf("(discarded %d broken frames before sync)\n", badFrames)
					}
					packetChan <- struct{}{}
					return
				case lignite.ResErrCRC, lignite.ResErrStop, lignite.ResErrMem:
					badFrames++
				}
			}
		}
	}()

	select {
	case <-packetChan:
		fmt.Printf("SUCCESS: Received valid packet\n")
		fmt.Printf("  From: 0x%02X\n", pkt.From())
		fmt.Printf("  To: 0x%02X\n", pkt.To())
		fmt.Printf("  Cmd: 0x%02X\n", pkt.Cmd())
		fmt.Printf("  Length: %d bytes\n", pkt.DataLen())
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(linkTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid packet received within %d seconds\n", linkTestTimeout)
		os.Exit(1)
	}

	return nil
}
