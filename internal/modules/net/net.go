// Package net implements the network-throughput producer, grounded on the
// original's network_module (see
// _examples/original_source/include/modules/network.hpp): rx/tx byte
// counters sampled each tick, with speed derived from the delta against
// the previous reading divided by elapsed wall time (the Go equivalent of
// its boost::posix_time last_update bookkeeping).
package net

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
)

// IOCountersFunc matches gopsutil/v3 net.IOCounters's per-interface
// signature (pernic=true).
type IOCountersFunc func(pernic bool) ([]net.IOCountersStat, error)

// Config wires the interface and labels a net module renders with.
type Config struct {
	Interface         string
	LabelConnected    *drawtypes.Label // tokens: %downspeed%, %upspeed%
	LabelDisconnected *drawtypes.Label
	RampSignal        *drawtypes.Ramp
	IOCounters        IOCountersFunc // defaults to net.IOCounters
	Now               func() time.Time
}

// Update returns a closure suitable for module.NewTimer that derives
// transfer speed from the delta against the previous reading.
func Update(cfg Config) func() (string, error) {
	counters := cfg.IOCounters
	if counters == nil {
		counters = net.IOCounters
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	b := builder.New(true)

	var lastRx, lastTx uint64
	var lastAt time.Time
	first := true

	return func() (string, error) {
		stats, err := counters(true)
		if err != nil {
			return "", fmt.Errorf("net: read io counters: %w", err)
		}

		var stat *net.IOCountersStat
		for i := range stats {
			if stats[i].Name == cfg.Interface {
				stat = &stats[i]
				break
			}
		}
		if stat == nil {
			if cfg.LabelDisconnected != nil {
				b.Node(cfg.LabelDisconnected, false)
			}
			return b.Flush(), nil
		}

		t := now()
		var downBps, upBps float64
		if !first {
			elapsed := t.Sub(lastAt).Seconds()
			if elapsed > 0 {
				downBps = float64(stat.BytesRecv-lastRx) / elapsed
				upBps = float64(stat.BytesSent-lastTx) / elapsed
			}
		}
		lastRx, lastTx, lastAt, first = stat.BytesRecv, stat.BytesSent, t, false

		if cfg.LabelConnected != nil {
			l := cfg.LabelConnected.Clone()
			l.ReplaceToken("%downspeed%", humanize.Bytes(uint64(downBps))+"/s")
			l.ReplaceToken("%upspeed%", humanize.Bytes(uint64(upBps))+"/s")
			b.Node(l, false)
		}
		if cfg.RampSignal != nil {
			b.NodeRamp(cfg.RampSignal, 100, false)
		}
		return b.Flush(), nil
	}
}
