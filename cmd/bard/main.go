// Command bard is the daemon entrypoint: it wires a fixed demo module set
// into an Aggregator, serves the IPC socket, and drives a Bubble Tea
// program whose Update/View loop plays the role of a renderer the way the
// teacher's tea.Program drives fetchStats/statsTick (SPEC_FULL.md §2.5).
// Argument parsing for the daemon's own configuration is out of scope
// (SPEC_FULL.md §5 Non-goals); every knob below is a fixed demo value.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polybar-go/bard/internal/aggregator"
	"github.com/polybar-go/bard/internal/barlog"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/element"
	"github.com/polybar-go/bard/internal/format/dispatcher"
	"github.com/polybar-go/bard/internal/ipc"
	"github.com/polybar-go/bard/internal/modules/clock"
	"github.com/polybar-go/bard/internal/modules/counter"
	"github.com/polybar-go/bard/internal/modules/cpu"
	"github.com/polybar-go/bard/internal/modules/mem"
	"github.com/polybar-go/bard/internal/modules/text"
	"github.com/polybar-go/bard/internal/module"
	"github.com/polybar-go/bard/internal/replay"
	"github.com/polybar-go/bard/internal/settings"
)

// stdoutRenderer satisfies dispatcher.Renderer by tracking a running pixel
// cursor per alignment and converting each Color it's handed to a
// lipgloss.Color for the demo's View, the way the teacher's model applies
// lipgloss styles to fetched stats rather than raw ANSI codes.
type stdoutRenderer struct {
	x map[element.Alignment]float64
}

func newStdoutRenderer() *stdoutRenderer {
	return &stdoutRenderer{x: make(map[element.Alignment]float64)}
}

func (r *stdoutRenderer) RenderText(ctx *dispatcher.Context, text string) {
	r.x[ctx.Alignment] += float64(len(text))
}

func (r *stdoutRenderer) RenderOffset(ctx *dispatcher.Context, pixels int) {
	r.x[ctx.Alignment] += float64(pixels)
}

func (r *stdoutRenderer) ChangeAlignment(ctx *dispatcher.Context) {}

func (r *stdoutRenderer) GetX(ctx *dispatcher.Context) float64 { return r.x[ctx.Alignment] }

func (r *stdoutRenderer) GetAlignmentStart(align element.Alignment) float64 { return 0 }

// lipglossColor converts a dispatcher-resolved Color to a lipgloss color
// via Color.Colorful's go-colorful hex round trip (SPEC_FULL.md §3 assigns
// go-colorful to exactly this conversion).
func lipglossColor(c element.Color) lipgloss.Color {
	if !c.IsSet() {
		return lipgloss.Color("")
	}
	return lipgloss.Color(c.Colorful().Hex())
}

// frameMsg carries one throttled composite string from the aggregator to
// the Bubble Tea program, mirroring the teacher's statsMsg payload.
type frameMsg string

type barModel struct {
	frames chan string
	line   string
}

func (m barModel) Init() tea.Cmd { return m.waitForFrame }

func (m barModel) waitForFrame() tea.Msg {
	return frameMsg(<-m.frames)
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case frameMsg:
		m.line = string(msg)
		return m, m.waitForFrame
	}
	return m, nil
}

func (m barModel) View() string {
	style := lipgloss.NewStyle().Foreground(lipglossColor(element.Color{}))
	return style.Render(m.line) + "\n(press q to quit)\n"
}

func buildDemoModules(log *barlog.Logger) []struct {
	align element.Alignment
	mod   module.Module
} {
	cpuText, cpuTokens := drawtypes.ParseLabelText("CPU %percentage%%")
	cpuLabel := drawtypes.NewLabel(cpuText)
	cpuLabel.Tokens = cpuTokens

	memText, memTokens := drawtypes.ParseLabelText("MEM %percentage_used%% (%gb_used%/%gb_total%)")
	memLabel := drawtypes.NewLabel(memText)
	memLabel.Tokens = memTokens

	counterText, counterTokens := drawtypes.ParseLabelText("tick %counter%")
	counterLabel := drawtypes.NewLabel(counterText)
	counterLabel.Tokens = counterTokens

	clockMod := clock.New("clock", time.Second, "15:04:05", "Mon Jan 2", time.Now)
	cpuMod := module.NewTimer("cpu", 2*time.Second, cpu.Update(cpu.Config{Label: cpuLabel}))
	memMod := module.NewTimer("mem", 5*time.Second, mem.Update(mem.Config{Label: memLabel}))
	counterMod := counter.New("counter", time.Second, counterLabel)
	textMod := text.New("label", drawtypes.NewLabel("bard"))

	log.Info("demo module set: label, clock, cpu, mem, counter")

	return []struct {
		align element.Alignment
		mod   module.Module
	}{
		{element.AlignLeft, textMod},
		{element.AlignLeft, cpuMod},
		{element.AlignLeft, memMod},
		{element.AlignCenter, clockMod},
		{element.AlignRight, counterMod},
	}
}

func main() {
	log := barlog.New(os.Stderr, barlog.LevelInfo)

	bar := settings.DefaultBarSettings()
	bar.Separator = " | "
	renderer := newStdoutRenderer()
	defaults := dispatcher.Defaults{}

	agg := aggregator.New(bar, renderer, defaults, func(err error) {
		log.Warn("parse error: %v", err)
	})
	agg.OnModuleError = func(name string, err error) {
		log.Err("module %q failed to start: %v", name, err)
	}

	for _, m := range buildDemoModules(log) {
		agg.AddModule(m.align, m.mod)
	}

	frames := make(chan string, 1)
	var replayLog *replay.Logger
	if path := os.Getenv("BARD_REPLAY_LOG"); path != "" {
		l, err := replay.New(path)
		if err != nil {
			log.Err("open replay log %q: %v", path, err)
		} else {
			replayLog = l
			log.Info("recording frames to %s", path)
		}
	}

	agg.OnCompose = func(contents string) {
		select {
		case frames <- contents:
		default:
			select {
			case <-frames:
			default:
			}
			frames <- contents
		}
		if replayLog != nil {
			_ = replayLog.WriteFrame(replay.Frame{Composite: contents})
		}
	}

	pid := os.Getpid()
	disp := ipc.NewDispatcher(
		func(cmd string) (string, error) {
			log.Info("cmd: %s", cmd)
			switch cmd {
			case "quit":
				agg.Stop()
				return "ok", nil
			default:
				return "", fmt.Errorf("unknown command %q", cmd)
			}
		},
		func(ref string) (string, error) {
			log.Info("action: %s", ref)
			if err := agg.Dispatch(ref); err != nil {
				return "", err
			}
			return "ok", nil
		},
	)
	if err := disp.Listen(pid); err != nil {
		log.Err("ipc listen: %v", err)
	} else {
		log.Info("ipc socket: %s", ipc.SocketPath(pid))
		go func() {
			if err := disp.Serve(); err != nil {
				log.Err("ipc serve: %v", err)
			}
		}()
		defer disp.Close()
	}

	agg.Start()
	defer agg.Stop()

	prog := tea.NewProgram(barModel{frames: frames})
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "bard: %v\n", err)
		log.Flush()
		os.Exit(1)
	}
	if replayLog != nil {
		_ = replayLog.Close()
	}
	log.Flush()
}
