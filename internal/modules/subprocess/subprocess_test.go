package subprocess

import (
	"strings"
	"testing"
	"time"
)

func TestSubprocessPublishesStdoutLines(t *testing.T) {
	m := New("sub", Config{Command: "/bin/sh", Args: []string{"-c", "echo line-one; sleep 5"}})

	updates := make(chan string, 4)
	m.OnUpdate(func(string) { updates <- m.Contents() })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	select {
	case got := <-updates:
		if !strings.Contains(got, "line-one") {
			t.Errorf("Contents() = %q, want to contain line-one", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for subprocess output")
	}
}

func TestSubprocessFailsAfterMaxRestarts(t *testing.T) {
	m := New("sub", Config{Command: "/bin/sh", Args: []string{"-c", "true"}, MaxRestarts: 1})

	var stopErr error
	stopped := make(chan struct{})
	m.OnStop(func(name string, err error) {
		stopErr = err
		close(stopped)
	})

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for module to fail after exceeding MaxRestarts")
	}
	if stopErr == nil {
		t.Error("OnStop error = nil, want non-nil after exceeding MaxRestarts")
	}
}
