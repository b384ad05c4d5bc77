package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"

	"snekctl/internal/system"
)

// wsUpgrader upgrades HTTP connections to WebSocket.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The server binds to localhost; cross-origin pages on the same machine
	// are the user's own.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// terminalWSHandler launches the interactive shell inside the activated dev
// shell environment on a PTY and bridges it over WebSocket.
//
// Client protocol:
// - Plain text messages are shell input.
// - Control messages are JSON: {"type":"resize","cols":<int>,"rows":<int>}
//   and {"type":"input","data":<string>}.
// - Server sends PTY output as text messages.
func terminalWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("upgrade failed: %v", err), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	sh, shArgs := system.DefaultShell()
	cmd := exec.Command(sh, shArgs...)

	// Inherit working dir from server process; allow overriding via ?cwd=
	if q := r.URL.Query().Get("cwd"); q != "" {
		cmd.Dir = q
	}

	// Activate the dev shell for the child when the lock is usable; a bare
	// shell with a note is better than no terminal at all.
	cmd.Env = append(os.Environ(), system.NestGuardVar+"=1", "TERM=xterm-256color")
	if env, envErr := assembleEnv(); envErr == nil {
		cmd.Env = append(env.Environ(os.Environ()), system.NestGuardVar+"=1", "TERM=xterm-256color")
	} else {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("dev shell not activated: "+envErr.Error()+"\r\n"))
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start shell: "+err.Error()))
		return
	}
	defer func() { _ = ptmx.Close() }() // Best-effort close; will kill the child

	// Optional initial size from query
	if cols, _ := strconv.Atoi(r.URL.Query().Get("cols")); cols > 0 {
		if rows, _ := strconv.Atoi(r.URL.Query().Get("rows")); rows > 0 {
			_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
		}
	}

	// Writer: PTY -> WS
	go func() {
		reader := bufio.NewReader(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := reader.Read(buf)
			if n > 0 {
				_ = conn.WriteMessage(websocket.TextMessage, buf[:n])
			}
			if readErr != nil {
				if !errors.Is(readErr, io.EOF) {
					_ = conn.WriteMessage(websocket.TextMessage, []byte("\r\n[pty closed]: "+readErr.Error()+"\r\n"))
				}
				// If the command is still running, give it a moment to exit.
				time.Sleep(50 * time.Millisecond)
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "pty closed"))
				_ = conn.Close()
				return
			}
		}
	}()

	// Reader: WS -> PTY
	type controlMsg struct {
		Type string `json:"type"`
		Cols int    `json:"cols"`
		Rows int    `json:"rows"`
		Data string `json:"data"`
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			// client closed
			break
		}
		switch mt {
		case websocket.TextMessage, websocket.BinaryMessage:
			// Try JSON first for control frames
			var cm controlMsg
			if json.Unmarshal(data, &cm) == nil && cm.Type != "" {
				if cm.Type == "resize" && cm.Cols > 0 && cm.Rows > 0 {
					_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(cm.Cols), Rows: uint16(cm.Rows)})
					continue
				}
				if cm.Type == "input" && cm.Data != "" {
					_, _ = ptmx.Write([]byte(cm.Data))
					continue
				}
			}
			// Treat as raw input
			if len(data) > 0 {
				_, _ = ptmx.Write(data)
			}
		case websocket.CloseMessage:
			return
		default:
			// ignore other frames
		}
	}
}
