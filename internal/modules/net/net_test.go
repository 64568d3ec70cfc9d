package net

import (
	"strings"
	"testing"
	"time"

	gopsutilnet "github.com/shirou/gopsutil/v3/net"

	"github.com/polybar-go/bard/internal/drawtypes"
)

func connectedLabel() *drawtypes.Label {
	text, tokens := drawtypes.ParseLabelText("%downspeed% %upspeed%")
	l := drawtypes.NewLabel(text)
	l.Tokens = tokens
	return l
}

func TestUpdateDerivesSpeedFromDelta(t *testing.T) {
	tick := 0
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	update := Update(Config{
		Interface:      "eth0",
		LabelConnected: connectedLabel(),
		Now:            func() time.Time { return clock },
		IOCounters: func(pernic bool) ([]gopsutilnet.IOCountersStat, error) {
			tick++
			if tick == 1 {
				return []gopsutilnet.IOCountersStat{{Name: "eth0", BytesRecv: 1000, BytesSent: 500}}, nil
			}
			return []gopsutilnet.IOCountersStat{{Name: "eth0", BytesRecv: 2000, BytesSent: 1500}}, nil
		},
	})

	if _, err := update(); err != nil {
		t.Fatalf("first update() error = %v", err)
	}
	clock = clock.Add(time.Second)
	out, err := update()
	if err != nil {
		t.Fatalf("second update() error = %v", err)
	}
	if !strings.Contains(out, "1.0 kB/s") {
		t.Errorf("output = %q, want download speed ~1.0 kB/s", out)
	}
}

func TestUpdateFallsBackToDisconnectedLabel(t *testing.T) {
	text, tokens := drawtypes.ParseLabelText("offline")
	disconnected := drawtypes.NewLabel(text)
	disconnected.Tokens = tokens

	update := Update(Config{
		Interface:         "eth0",
		LabelDisconnected: disconnected,
		IOCounters: func(pernic bool) ([]gopsutilnet.IOCountersStat, error) {
			return []gopsutilnet.IOCountersStat{{Name: "wlan0"}}, nil
		},
	})

	out, err := update()
	if err != nil {
		t.Fatalf("update() error = %v", err)
	}
	if !strings.Contains(out, "offline") {
		t.Errorf("output = %q, want to contain offline", out)
	}
}
