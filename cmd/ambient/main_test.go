package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwbudde/algo-ambient/dsp/effects"
	"github.com/cwbudde/algo-ambient/engine"
	"github.com/cwbudde/algo-ambient/output"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{nil, 2},
		{[]string{"help"}, 0},
		{[]string{"whistle"}, 2},
		{[]string{"render"}, 1},
		{[]string{"render", "whistle"}, 1},
		{[]string{"render", "-bits", "8", "-o", "-", "hover"}, 1},
		{[]string{"list", "-h"}, 0},
		{[]string{"list", "-master-level", "3"}, 1},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.code {
				t.Fatalf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestList(t *testing.T) {
	code, out, stderr := runCLI(t, "list")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	for _, name := range effects.DefaultRegistry().Names() {
		if !strings.Contains(out, name) {
			t.Fatalf("list output missing %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "loop") {
		t.Fatalf("drone should be listed as a loop:\n%s", out)
	}
}

func TestRenderWritesFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knock.flac")
	code, out, stderr := runCLI(t, "render", "-o", path, "-seed", "4", "-log-level", "warn", "knock")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("stdout = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("fLaC")) {
		t.Fatal("render output is not FLAC")
	}
}

func TestRenderToStdout(t *testing.T) {
	code, out, stderr := runCLI(t, "render", "-o", "-", "-sample-rate", "22050", "hover")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if !strings.HasPrefix(out, "fLaC") {
		t.Fatal("stdout is not a FLAC stream")
	}
}

func TestInspect(t *testing.T) {
	code, out, stderr := runCLI(t, "inspect", "-intensity", "1", "boot", "hover")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, rule and 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "boot") || !strings.HasPrefix(lines[3], "hover") {
		t.Fatalf("unexpected rows:\n%s", out)
	}
}

func TestInspectNoise(t *testing.T) {
	code, out, stderr := runCLI(t, "inspect", "-duration", "1", "pink", "white")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if !strings.Contains(out, "pink") || !strings.Contains(out, "white") || !strings.Contains(out, "Low/High") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRenderWithDrone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hover.flac")
	code, _, stderr := runCLI(t, "render", "-drone", "-duration", "0.5", "-o", path, "hover")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("render output missing: %v", err)
	}
}

func newTestModel(t *testing.T) (playModel, *engine.Engine, *output.Null) {
	t.Helper()
	dev := output.NewNull(48000)
	eng := engine.New(engine.WithOpener(func() (output.Device, error) { return dev, nil }))
	t.Cleanup(func() { _ = eng.Close() })
	return newPlayModel(eng, eng.Heartbeat()), eng, dev
}

func press(m playModel, key string) (playModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(playModel), cmd
}

func TestPlayModelFirstKeyBoots(t *testing.T) {
	m, eng, _ := newTestModel(t)
	if eng.Initialized() {
		t.Fatal("engine initialized before a key press")
	}
	m, _ = press(m, "x")
	if !eng.Initialized() {
		t.Fatal("first key did not initialize the engine")
	}
	if st := eng.Stats(); st.Scheduled != 2 {
		t.Fatalf("Scheduled = %d, want drone and boot", st.Scheduled)
	}
	if m.last != "boot" {
		t.Fatalf("last = %q", m.last)
	}
}

func TestPlayModelKeys(t *testing.T) {
	m, eng, _ := newTestModel(t)
	m, _ = press(m, " ")

	for _, key := range []string{"h", "g", "k", "s", "b", "c"} {
		m, _ = press(m, key)
	}
	if st := eng.Stats(); st.Scheduled != 2+5+2 {
		t.Fatalf("Scheduled = %d, want 9", st.Scheduled)
	}

	m, _ = press(m, "m")
	if !eng.Muted() || m.last != "muted" {
		t.Fatalf("mute key: muted=%v last=%q", eng.Muted(), m.last)
	}
	if !strings.Contains(m.View(), "MUTED") {
		t.Fatal("view does not show the mute state")
	}
	m, _ = press(m, "m")
	if eng.Muted() {
		t.Fatal("second mute key did not unmute")
	}

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestPlayModelIdleHeartbeat(t *testing.T) {
	m, eng, _ := newTestModel(t)
	var next tea.Model = m
	for range 6 {
		next, _ = next.Update(idleTickMsg{})
	}
	if st := eng.Stats(); st.Scheduled != 0 {
		t.Fatal("heartbeat fired before power on")
	}

	m, _ = press(next.(playModel), "x")
	next = m
	for range 6 {
		next, _ = next.Update(idleTickMsg{})
	}
	m = next.(playModel)
	if st := eng.Stats(); st.Scheduled != 3 {
		t.Fatalf("Scheduled = %d, want drone, boot and one heartbeat", st.Scheduled)
	}
	if !strings.HasPrefix(m.last, "heartbeat") {
		t.Fatalf("last = %q", m.last)
	}

	m, _ = press(m, "h")
	if m.idle.IdleSeconds() != 0 {
		t.Fatal("key press did not reset idle time")
	}
}

func TestPlayModelUnavailable(t *testing.T) {
	eng := engine.New(engine.WithOpener(func() (output.Device, error) { return nil, output.ErrUnavailable }))
	m := newPlayModel(eng, eng.Heartbeat())
	m, _ = press(m, "x")
	if m.err == nil || !strings.Contains(m.View(), "silent") {
		t.Fatal("device failure not shown")
	}
	m, _ = press(m, "h")
	if eng.Stats().Scheduled != 0 {
		t.Fatal("failed engine scheduled an effect")
	}
}
