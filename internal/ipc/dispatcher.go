package ipc

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// CmdHandler processes a decoded CMD payload (one of quit/restart/hide/
// show/toggle) and returns a short reply string or an error.
type CmdHandler func(cmd string) (string, error)

// ActionHandler processes a decoded ACTION payload in "#module.action.data"
// form (or a legacy bare command string) and returns a short reply or an
// error.
type ActionHandler func(ref string) (string, error)

// RuntimeDir returns the directory the daemon's socket lives under:
// $XDG_RUNTIME_DIR/polybar if that variable is set, otherwise
// /tmp/polybar-<uid>.
func RuntimeDir() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "polybar")
	}
	return fmt.Sprintf("/tmp/polybar-%d", os.Getuid())
}

// SocketPath returns the UNIX-domain socket path for the daemon process
// identified by pid.
func SocketPath(pid int) string {
	return filepath.Join(RuntimeDir(), fmt.Sprintf("ipc.%d.sock", pid))
}

// LegacyFIFOPath returns the deprecated named-pipe path for pid, kept for
// backward compatibility with older bar-msg clients.
func LegacyFIFOPath(pid int) string {
	return fmt.Sprintf("/tmp/polybar_mqueue.%d", pid)
}

// Dispatcher binds the daemon's IPC socket, accepts connections, and routes
// each decoded message to the appropriate handler.
type Dispatcher struct {
	OnCmd    CmdHandler
	OnAction ActionHandler
	// OnDeprecated, if set, is called once per legacy FIFO message
	// received, so the daemon can log a deprecation warning without this
	// package depending on a concrete logger.
	OnDeprecated func(path string)

	ln         net.Listener
	socketPath string

	mu     sync.Mutex
	closed bool
}

// NewDispatcher returns a Dispatcher with the given handlers installed.
func NewDispatcher(onCmd CmdHandler, onAction ActionHandler) *Dispatcher {
	return &Dispatcher{OnCmd: onCmd, OnAction: onAction}
}

// Listen resolves the socket path for pid, creates its parent directory
// with 0700 permissions, unlinks a stale socket left by a dead process,
// and binds the listener. Call Serve afterward to start accepting.
func (d *Dispatcher) Listen(pid int) error {
	dir := RuntimeDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("ipc: create runtime dir %q: %w", dir, err)
	}
	path := SocketPath(pid)
	unlinkStaleSocket(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("ipc: listen on %q: %w", path, err)
	}
	if err := os.Chmod(path, 0700); err != nil {
		ln.Close()
		return fmt.Errorf("ipc: chmod %q: %w", path, err)
	}
	d.ln = ln
	d.socketPath = path
	return nil
}

// unlinkStaleSocket removes path if connecting to it fails (no live
// listener), so a crashed daemon's leftover socket doesn't block a new
// bind.
func unlinkStaleSocket(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	conn, err := net.Dial("unix", path)
	if err == nil {
		conn.Close()
		return
	}
	os.Remove(path)
}

// Serve accepts connections until the listener is closed, handling each on
// its own goroutine. It returns nil once Close has been called.
func (d *Dispatcher) Serve() error {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			d.mu.Lock()
			closed := d.closed
			d.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("ipc: accept: %w", err)
		}
		go d.handleConn(conn)
	}
}

// handleConn decodes exactly one message from conn, dispatches it, writes
// back a single encoded response, and closes the connection.
func (d *Dispatcher) handleConn(conn net.Conn) {
	defer conn.Close()

	var reply []byte
	dec := NewDecoder(func(version uint8, typ Type, payload []byte) {
		reply = d.dispatch(typ, payload)
	})

	buf := make([]byte, 4096)
	for reply == nil && !dec.Closed() {
		n, err := conn.Read(buf)
		if n > 0 {
			dec.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	if reply == nil {
		reply = Encode(TypeErr, []byte("malformed or incomplete message"))
	}
	conn.Write(reply)
}

func (d *Dispatcher) dispatch(typ Type, payload []byte) []byte {
	switch typ {
	case TypeCmd:
		if d.OnCmd == nil {
			return Encode(TypeErr, []byte("no command handler installed"))
		}
		out, err := d.OnCmd(string(payload))
		if err != nil {
			return Encode(TypeErr, []byte(err.Error()))
		}
		return Encode(TypeOK, []byte(out))
	case TypeAction:
		if d.OnAction == nil {
			return Encode(TypeErr, []byte("no action handler installed"))
		}
		out, err := d.OnAction(string(payload))
		if err != nil {
			return Encode(TypeErr, []byte(err.Error()))
		}
		return Encode(TypeOK, []byte(out))
	default:
		return Encode(TypeErr, []byte(fmt.Sprintf("unexpected message type %s", typ)))
	}
}

// Close stops accepting new connections and removes the socket file.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	if d.ln == nil {
		return nil
	}
	err := d.ln.Close()
	os.Remove(d.socketPath)
	return err
}

// ServeLegacyFIFO creates (if needed) and reads the deprecated named pipe
// for pid, dispatching "cmd:", "action:", and "hook:module-name<index>"
// prefixed lines with the same semantics as the socket protocol. It blocks
// until the pipe is closed or removed out from under it.
func (d *Dispatcher) ServeLegacyFIFO(pid int) error {
	path := LegacyFIFOPath(pid)
	if _, err := os.Stat(path); err != nil {
		if err := unix.Mkfifo(path, 0600); err != nil {
			return fmt.Errorf("ipc: mkfifo %q: %w", path, err)
		}
	}

	for {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			return fmt.Errorf("ipc: open fifo %q: %w", path, err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if d.OnDeprecated != nil {
				d.OnDeprecated(path)
			}
			d.handleLegacyLine(scanner.Text())
		}
		f.Close()

		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if closed {
			return nil
		}
		// A writer closing its end produces EOF; reopen and keep serving
		// the next writer, mirroring a FIFO's multi-writer lifetime.
	}
}

func (d *Dispatcher) handleLegacyLine(line string) {
	switch {
	case strings.HasPrefix(line, "cmd:"):
		if d.OnCmd != nil {
			d.OnCmd(strings.TrimPrefix(line, "cmd:"))
		}
	case strings.HasPrefix(line, "action:"):
		if d.OnAction != nil {
			d.OnAction(strings.TrimPrefix(line, "action:"))
		}
	case strings.HasPrefix(line, "hook:"):
		if d.OnAction != nil {
			d.OnAction(strings.TrimPrefix(line, "hook:"))
		}
	}
}

// parseModuleIndex splits a legacy "module-name<index>" hook target into
// its name and numeric suffix, returning ok=false if no trailing digits
// are present.
func parseModuleIndex(target string) (name string, index int, ok bool) {
	i := len(target)
	for i > 0 && target[i-1] >= '0' && target[i-1] <= '9' {
		i--
	}
	if i == len(target) {
		return target, 0, false
	}
	n, err := strconv.Atoi(target[i:])
	if err != nil {
		return target, 0, false
	}
	return target[:i], n, true
}
