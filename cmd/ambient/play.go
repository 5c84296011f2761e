package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cwbudde/algo-ambient/dsp/graph"
	"github.com/cwbudde/algo-ambient/engine"
	"github.com/cwbudde/algo-ambient/output"
	"golang.org/x/term"
)

var errNoTerminal = errors.New("play needs an interactive terminal")

func runPlay(args []string, stderr io.Writer) error {
	c := newCommand("play", "", stderr)
	logFile := c.fs.String("log-file", "", "write logs to this file instead of discarding them")
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNoTerminal
	}

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	if err := c.resolve(logOut); err != nil {
		return err
	}

	cfg := c.cfg
	eng := engine.New(
		engine.WithLogger(c.log),
		engine.WithOutput(output.Config{
			Backend:    cfg.Backend,
			SampleRate: cfg.SampleRate,
			Latency:    cfg.Latency(),
		}),
		engine.WithMasterLevel(cfg.MasterLevel),
		engine.WithSmoothing(seconds(cfg.Smoothing)),
		engine.WithBlockSize(cfg.BlockSize),
	)
	defer eng.Close()

	idle := eng.Heartbeat(
		engine.WithIdleThreshold(seconds(cfg.Idle.Threshold)),
		engine.WithIdleRamp(seconds(cfg.Idle.Ramp)),
	)

	_, err := tea.NewProgram(newPlayModel(eng, idle), tea.WithAltScreen()).Run()
	return err
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// player is the slice of *engine.Engine the TUI drives.
type player interface {
	Initialize() error
	Initialized() bool
	Trigger(engine.Effect, ...float64)
	HoverGlitch()
	ToggleMute() bool
	Muted() bool
	Stats() graph.Stats
}

type idleTickMsg time.Time

func idleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return idleTickMsg(t) })
}

type playModel struct {
	eng    player
	idle   *engine.IdleMonitor
	last   string
	err    error
	width  int
	booted bool
}

func newPlayModel(eng player, idle *engine.IdleMonitor) playModel {
	return playModel{eng: eng, idle: idle, last: "press any key to power on"}
}

func (m playModel) Init() tea.Cmd {
	return idleTick()
}

var keyEffects = map[string]engine.Effect{
	"b": engine.Boot,
	"h": engine.Hover,
	"g": engine.Glitch,
	"k": engine.Knock,
	"s": engine.Scare,
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case idleTickMsg:
		if m.booted {
			if fired, intensity := m.idle.Tick(); fired {
				m.last = fmt.Sprintf("heartbeat %.2f", intensity)
			}
		}
		return m, idleTick()

	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			return m, tea.Quit
		}
		m.idle.Touch()

		if !m.booted {
			m.booted = true
			if err := m.eng.Initialize(); err != nil {
				m.err = err
				m.last = "audio unavailable"
				return m, nil
			}
			m.eng.Trigger(engine.Boot)
			m.last = "boot"
			return m, nil
		}

		switch key {
		case "m":
			if m.eng.ToggleMute() {
				m.last = "muted"
			} else {
				m.last = "unmuted"
			}
		case "c":
			m.eng.HoverGlitch()
			m.last = "hover + glitch"
		default:
			if fx, ok := keyEffects[key]; ok {
				m.eng.Trigger(fx)
				m.last = fx.String()
			}
		}
	}
	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	muteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	liveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("52")).Padding(0, 2)
)

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AMBIENT"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("silent: " + m.err.Error()))
	case !m.eng.Initialized():
		b.WriteString(dimStyle.Render("off"))
	case m.eng.Muted():
		b.WriteString(muteStyle.Render("● MUTED"))
	default:
		b.WriteString(liveStyle.Render("● LIVE"))
	}
	st := m.eng.Stats()
	fmt.Fprintf(&b, "  voices %d  nodes %d  idle %ds\n", st.LiveVoices, st.LiveNodes, m.idle.IdleSeconds())
	fmt.Fprintf(&b, "last: %s\n\n", m.last)
	b.WriteString(dimStyle.Render("b boot  h hover  g glitch  c corrupt  k knock  s scare  m mute  q quit"))

	return boxStyle.Render(b.String())
}
