// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Calorimet Oy

package cmd

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"syscall"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"
)

// Connection provides a common interface for reading/writing bytes from
// serial or WebSocket transports.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = fmt.Errorf("websocket connection closed")

// SerialConnection wraps a serial port
type SerialConnection struct {
	port serial.Port
}

func (s *SerialConnection) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialConnection) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialConnection) Close() error {
	return s.port.Close()
}

// WebSocketConnection wraps a WebSocket connection for byte-level reading.
// Binary messages are buffered so callers can consume them in arbitrary
// chunk sizes; non-binary messages are skipped.
type WebSocketConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (w *WebSocketConnection) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}

	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.buf = data
		w.bufOffset = copy(p, data)
		return w.bufOffset, nil
	}
}

func (w *WebSocketConnection) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		w.closed = true
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketConnection) Close() error {
	w.closed = true
	return w.conn.Close()
}

// OpenConnection opens the transport selected by the persistent flags and
// returns it with a printable description.
func OpenConnection() (Connection, string, error) {
	switch {
	case wsURL != "":
		return openWebSocket()
	case portName != "":
		return openSerial()
	default:
		return nil, "", fmt.Errorf("no connection specified: use --port or --url")
	}
}

func openSerial() (Connection, string, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, "", fmt.Errorf("open serial port %s: %w", portName, err)
	}
	info := fmt.Sprintf("%s @ %d baud", portName, baudRate)
	return &SerialConnection{port: port}, info, nil
}

func openWebSocket() (Connection, string, error) {
	dialer := websocket.DefaultDialer
	if wsNoSSLVerify {
		dialer = &websocket.Dialer{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	header := http.Header{}
	if wsUsername != "" {
		password, err := readPassword()
		if err != nil {
			return nil, "", err
		}
		cred := base64.StdEncoding.EncodeToString([]byte(wsUsername + ":" + password))
		header.Set("Authorization", "Basic "+cred)
	}

	conn, resp, err := dialer.Dial(wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, "", fmt.Errorf("dial %s: %w (HTTP %d)", wsURL, err, resp.StatusCode)
		}
		return nil, "", fmt.Errorf("dial %s: %w", wsURL, err)
	}
	return &WebSocketConnection{conn: conn}, wsURL, nil
}

// readPassword takes the WebSocket password from the environment or prompts
// on the terminal without echo.
func readPassword() (string, error) {
	if pw := os.Getenv("STOKER_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", wsUsername)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
