package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polybar-go/bard/internal/ipc"
)

func TestDiscoverPidsHonorsExplicitPid(t *testing.T) {
	pids, err := discoverPids(1234)
	if err != nil {
		t.Fatalf("discoverPids: %v", err)
	}
	if len(pids) != 1 || pids[0] != 1234 {
		t.Errorf("pids = %v, want [1234]", pids)
	}
}

func TestDiscoverPidsScansRuntimeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	runtimeDir := ipc.RuntimeDir()
	if err := os.MkdirAll(runtimeDir, 0700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, name := range []string{"ipc.111.sock", "ipc.222.sock", "not-a-socket"} {
		if err := os.WriteFile(filepath.Join(runtimeDir, name), nil, 0600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	pids, err := discoverPids(0)
	if err != nil {
		t.Fatalf("discoverPids: %v", err)
	}
	got := map[int]bool{}
	for _, p := range pids {
		got[p] = true
	}
	if !got[111] || !got[222] || len(got) != 2 {
		t.Errorf("pids = %v, want [111 222]", pids)
	}
}

func TestDiscoverPidsReturnsNilWhenRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(t.TempDir(), "does-not-exist"))
	pids, err := discoverPids(0)
	if err != nil {
		t.Fatalf("discoverPids: %v", err)
	}
	if len(pids) != 0 {
		t.Errorf("pids = %v, want none", pids)
	}
}

func TestReplyErrorSurfacesTypeErr(t *testing.T) {
	reply := ipc.Encode(ipc.TypeErr, []byte("boom"))
	err := replyError(reply)
	if err == nil {
		t.Fatal("expected error for TYPE_ERR reply")
	}
}

func TestReplyErrorAcceptsOK(t *testing.T) {
	reply := ipc.Encode(ipc.TypeOK, []byte("ok"))
	if err := replyError(reply); err != nil {
		t.Errorf("replyError: %v", err)
	}
}

func TestReplyErrorRejectsShortReply(t *testing.T) {
	if err := replyError([]byte("short")); err == nil {
		t.Error("expected error for short reply")
	}
}

func TestSendLegacyFIFORequiresExistingPipe(t *testing.T) {
	if err := sendLegacyFIFO(999999, "payload"); err == nil {
		t.Error("expected error when fifo does not exist")
	}
}
