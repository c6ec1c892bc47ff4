// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Calorimet/stoker/pkg/lignite"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard with packet log and link statistics",
	Long: `Full-screen dashboard for a Lignite link.

Shows a scrolling log of decoded packets next to live statistics: packet and
error rates, CRC failures, stop-byte errors, overflow errors and watchdog
timeouts. Press q to quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// Messages. All statistics mutation happens in Update so the reader
// goroutine never shares state with the renderer.
type tickMsg time.Time

type resultMsg struct {
	result lignite.Result
	line   string // formatted packet, set when result is VALID
}

type timeoutMsg struct{}

type connErrorMsg struct {
	err error
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type watchModel struct {
	connInfo string
	stats    *lignite.Statistics
	log      viewport.Model
	lines    []string
	maxLines int
	ready    bool
	width    int
	height   int
	lastErr  error
	quitting bool
}

func newWatchModel(connInfo string) watchModel {
	return watchModel{
		connInfo: connInfo,
		stats:    lignite.NewStatistics(),
		maxLines: 500,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tickCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 8
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.log = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.log.Width = m.width - 4
			m.log.Height = logHeight
		}
		m.refreshLog()

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case resultMsg:
		m.stats.Observe(msg.result)
		switch msg.result {
		case lignite.ResValid:
			m.appendLine(msg.line)
		case lignite.ResErrCRC, lignite.ResErrStop, lignite.ResErrMem:
			m.appendLine(errStyle.Render(fmt.Sprintf("! %s", msg.result)))
		}

	case timeoutMsg:
		m.stats.ObserveEvent(lignite.EvtTimeout)
		m.appendLine(errStyle.Render("! watchdog timeout, partial frame discarded"))

	case connErrorMsg:
		m.lastErr = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *watchModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > m.maxLines {
		m.lines = m.lines[len(m.lines)-m.maxLines:]
	}
	m.refreshLog()
}

func (m *watchModel) refreshLog() {
	if !m.ready {
		return
	}
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "initializing..."
	}

	header := titleStyle.Render("Stoker") + "  " + m.connInfo

	stats := fmt.Sprintf("valid %d  |  crc %d  stop %d  mem %d  timeout %d  |  %s",
		m.stats.ValidPackets,
		m.stats.CRCErrors, m.stats.StopErrors, m.stats.MemoryErrors, m.stats.Timeouts,
		statStyle.Render(fmt.Sprintf("%.1f pkt/s  %.2f err/s", m.stats.PacketRate, m.stats.ErrorRate)))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		borderStyle.Render(stats),
		borderStyle.Render(m.log.View()),
		"q: quit",
	)
}

func runWatch(cmd *cobra.Command, args []string) error {
	pkt, _, rx, err := newPacketFromFlags()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	program := tea.NewProgram(newWatchModel(connInfo), tea.WithAltScreen())

	pkt.SetEventFunc(func(_ *lignite.Packet, evt lignite.Event) {
		if evt == lignite.EvtTimeout {
			program.Send(timeoutMsg{})
		}
	})

	// Reader goroutine feeds the parser and forwards results for display.
	go func() {
		start := time.Now()
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				program.Send(connErrorMsg{err: err})
				return
			}
			rx.Write(buf[:n])
			for rx.Len() > 0 {
				res := pkt.Process(uint32(time.Since(start).Milliseconds()))
				msg := resultMsg{result: res}
				if res == lignite.ResValid {
					msg.line = fmt.Sprintf("[%s] %s",
						time.Now().Format("15:04:05.000"),
						strings.TrimRight(lignite.FormatPacket(pkt), "\n"))
				}
				program.Send(msg)
			}
		}
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(watchModel); ok {
		if m.lastErr != nil && m.lastErr != ErrConnectionClosed {
			return m.lastErr
		}
		fmt.Println(m.stats.Summary())
	}
	return nil
}
