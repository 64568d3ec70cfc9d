// Command bar-msg is the external CLI companion that delivers one IPC
// message to one or all running bard daemons (spec.md §6). Usage:
//
//	bar-msg <action|cmd|hook> <payload> [extra...]
//
// extra arguments are joined onto payload with a space, matching the
// legacy FIFO's single-line message convention. Exit code is 0 if the
// message was delivered to at least one daemon, non-zero otherwise.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/polybar-go/bard/internal/ipc"
)

const dialTimeout = 500 * time.Millisecond

func main() {
	pidFlag := flag.Int("pid", 0, "target only the daemon with this pid (default: broadcast to every running daemon)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bar-msg [-pid N] <action|cmd|hook> <payload> [extra...]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	kind, payload, extra := args[0], args[1], args[2:]
	if len(extra) > 0 {
		payload = strings.Join(append([]string{payload}, extra...), " ")
	}

	pids, err := discoverPids(*pidFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bar-msg: %v\n", err)
		os.Exit(1)
	}
	if len(pids) == 0 {
		fmt.Fprintln(os.Stderr, "bar-msg: no running daemon found")
		os.Exit(1)
	}

	delivered := 0
	for _, pid := range pids {
		var err error
		switch kind {
		case "cmd":
			err = sendSocket(pid, ipc.TypeCmd, payload)
		case "action":
			err = sendSocket(pid, ipc.TypeAction, payload)
		case "hook":
			err = sendLegacyFIFO(pid, payload)
		default:
			fmt.Fprintf(os.Stderr, "bar-msg: unknown message kind %q (want action, cmd, or hook)\n", kind)
			os.Exit(2)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "bar-msg: pid %d: %v\n", pid, err)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		os.Exit(1)
	}
}

// discoverPids returns [only] if it's nonzero, otherwise every pid with a
// live IPC socket under RuntimeDir().
func discoverPids(only int) ([]int, error) {
	if only != 0 {
		return []int{only}, nil
	}
	dir := ipc.RuntimeDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runtime dir %q: %w", dir, err)
	}
	var pids []int
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "ipc.") || !strings.HasSuffix(name, ".sock") {
			continue
		}
		mid := strings.TrimSuffix(strings.TrimPrefix(name, "ipc."), ".sock")
		pid, err := strconv.Atoi(mid)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// sendSocket dials pid's IPC socket, sends one (typ, payload) message, and
// waits for the daemon's reply, surfacing a TYPE_ERR reply as an error.
func sendSocket(pid int, typ ipc.Type, payload string) error {
	path := ipc.SocketPath(pid)
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %q: %w", path, err)
	}
	defer conn.Close()

	if _, err := conn.Write(ipc.Encode(typ, []byte(payload))); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	return replyError(buf[:n])
}

func replyError(b []byte) error {
	if len(b) < ipc.HeaderSize {
		return fmt.Errorf("short reply (%d bytes)", len(b))
	}
	replyType := ipc.Type(b[12])
	payload := b[ipc.HeaderSize:]
	if replyType == ipc.TypeErr {
		return fmt.Errorf("daemon error: %s", payload)
	}
	return nil
}

// sendLegacyFIFO appends one "hook:<payload>" line to pid's deprecated
// named pipe.
func sendLegacyFIFO(pid int, payload string) error {
	path := ipc.LegacyFIFOPath(pid)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("fifo %q: %w", filepath.Clean(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open fifo %q: %w", path, err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "hook:%s\n", payload)
	return err
}
