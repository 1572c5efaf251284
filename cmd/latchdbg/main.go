// Command latchdbg is an interactive single-step debugger for a loaded
// bytecode program: step one instruction at a time, or run to completion,
// while watching PC/SP/flags/frame state update live.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/latchvm/latchvm/engine"
)

const historyViewportHeight = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	mnemonicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	flagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	haltStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type debugModel struct {
	filename string
	program  []byte
	eng      *engine.Engine
	halted   bool
	lastErr  error
	history  []string
	viewport viewport.Model
	ready    bool
}

func newDebugModel(filename string, program []byte) *debugModel {
	eng := engine.New()
	m := &debugModel{filename: filename, program: program, eng: eng}
	if err := eng.Load(program); err != nil {
		m.lastErr = err
	}
	return m
}

func (m *debugModel) Init() tea.Cmd { return nil }

func (m *debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, historyViewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
		}
		m.refreshHistory()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "s", " ":
			m.step()
			return m, nil

		case "r":
			for !m.halted && m.lastErr == nil {
				m.step()
			}
			return m, nil

		case "ctrl+r":
			m.eng.Reset()
			m.halted = false
			m.lastErr = nil
			m.history = nil
			m.refreshHistory()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *debugModel) step() {
	if m.halted || m.lastErr != nil {
		return
	}
	text, _, err := engine.Disassemble(m.program, m.eng.PC())
	if err == nil {
		m.history = append(m.history, text)
	}
	m.refreshHistory()

	status := m.eng.Step()
	if status.Halted() {
		m.halted = true
		return
	}
	if !status.OK() {
		m.lastErr = status
	}
}

// refreshHistory feeds the full, unbounded instruction history into the
// scrollable viewport and snaps it to the newest instruction -- replacing
// the fixed-window slice the rest of this model used to render by hand.
func (m *debugModel) refreshHistory() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(mnemonicStyle.Render(strings.Join(m.history, "\n")))
	m.viewport.GotoBottom()
}

func (m *debugModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("latchdbg"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("pc=%-6d sp=%-3d ", m.eng.PC(), m.eng.SP()))
	f := m.eng.CurrentFlags()
	b.WriteString(flagStyle.Render(fmt.Sprintf("Z=%v L=%v G=%v", f.Zero, f.Less, f.Greater)))
	b.WriteString("\n\n")

	b.WriteString("recent instructions:\n")
	if m.ready {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	frame := m.eng.CurrentFrame()
	b.WriteString("current frame, non-void stack-vars:\n")
	for i, v := range frame.StackVars {
		if !v.IsVoid() {
			b.WriteString(fmt.Sprintf("  s%-2d = %s\n", i, v))
		}
	}
	b.WriteString("current frame, non-void locals:\n")
	for i, v := range frame.Locals {
		if !v.IsVoid() {
			b.WriteString(fmt.Sprintf("  l%-2d = %s\n", i, v))
		}
	}
	b.WriteString("\n")

	switch {
	case m.halted:
		b.WriteString(haltStyle.Render("halted.") + "\n\n")
	case m.lastErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("trapped: %v", m.lastErr)) + "\n\n")
	}

	b.WriteString(helpStyle.Render("s/space step • r run to completion • ctrl+r reset • q quit"))
	return b.String()
}

func main() {
	log.SetFlags(0)
	filename := flag.String("f", "", "bytecode file to load")
	flag.Parse()
	if *filename == "" {
		log.Fatal("usage: latchdbg -f <bytecode-file>")
	}

	program, err := os.ReadFile(*filename)
	if err != nil {
		log.Fatalf("latchdbg: %v", err)
	}

	p := tea.NewProgram(newDebugModel(*filename, program), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("latchdbg: %v", err)
	}
}
