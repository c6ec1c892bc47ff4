// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"fmt"
	"time"

	"github.com/Calorimet/stoker/pkg/lignite"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var monitorShowErrors bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display decoded packets in human-readable format",
	Long: `Continuously decode and display Lignite protocol packets as they arrive.

Each valid frame is printed with its addresses, flags, command and payload.
Frame-scoped errors (CRC, stop byte, overflow) and watchdog timeouts are
reported on stderr and never stop the monitor.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowErrors, "show-errors", true, "Report frame errors on stderr")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	pkt, _, rx, err := newPacketFromFlags()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Stoker - Packet Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := lignite.NewStatistics()
	pkt.SetEventFunc(func(_ *lignite.Packet, evt lignite.Event) {
		stats.ObserveEvent(evt)
		if evt == lignite.EvtTimeout && monitorShowErrors {
			log.Warn("partial frame recycled by watchdog")
		}
	})

	start := time.Now()
	buf := make([]byte, 256)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err == ErrConnectionClosed {
				log.Info("connection closed", "stats", stats.Summary())
				return nil
			}
			log.Error("read error", "err", err)
			continue
		}

		off := 0
		for off < n {
			off += rx.Write(buf[off:n])

			// Drain the ring through the parser before feeding the rest.
			for rx.Len() > 0 {
				res := pkt.Process(uint32(time.Since(start).Milliseconds()))
				stats.Observe(res)
				switch res {
				case lignite.ResValid:
					timestamp := time.Now().Format("15:04:05.000")
					fmt.Printf("[%s] %s", timestamp, lignite.FormatPacket(pkt))
				case lignite.ResErrCRC, lignite.ResErrStop, lignite.ResErrMem:
					if monitorShowErrors {
						log.Warn("frame error", "result", res.String())
					}
				}
			}
		}
	}
}
