package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"rustris/internal/board"
	"rustris/internal/game"
	"rustris/internal/rustomino"
)

var (
	borderStyle  = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("8"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	overlayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	ghostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// blockStyles maps each rustomino type to its block color. Colors are a
// rendering concern only; the core never sees them.
var blockStyles = map[rustomino.Type]lipgloss.Style{
	rustomino.TypeI: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	rustomino.TypeO: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	rustomino.TypeT: lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	rustomino.TypeS: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	rustomino.TypeZ: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	rustomino.TypeJ: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	rustomino.TypeL: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	Hold      key.Binding
	Confirm   key.Binding
	Escape    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
		RotateCW:  key.NewBinding(key.WithKeys("up", "x"), key.WithHelp("↑/x", "rotate cw")),
		RotateCCW: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "rotate ccw")),
		SoftDrop:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
		HardDrop:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "hard drop")),
		Hold:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hold")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start / play again")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "pause / resume")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type tickMsg time.Time

// 60 updates a second; the session consumes the measured elapsed time, not
// the nominal interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	session  *game.Session
	keys     keyMap
	lastTick time.Time
}

func newModel(opts game.Options, log zerolog.Logger) *model {
	return &model{
		session:  game.NewSession(opts, log),
		keys:     defaultKeyMap(),
		lastTick: time.Now(),
	}
}

func (m *model) Init() tea.Cmd {
	return tickCmd()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.lastTick).Seconds()
		m.lastTick = now
		// A stalled terminal must not dump a pile of gravity at once.
		if dt > 0.25 {
			dt = 0.25
		}
		m.session.Update(dt)
		return m, tickCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
	}
	return m, nil
}

// handleKey maps a key press to a session action. Terminals deliver no
// key-release events; held keys arrive as autorepeated presses, so every
// press is fed to the session as a tap.
func (m *model) handleKey(msg tea.KeyMsg) {
	switch m.session.Phase() {
	case game.PhaseMenu:
		if key.Matches(msg, m.keys.Confirm) {
			m.session.Start()
		}
	case game.PhasePaused:
		if key.Matches(msg, m.keys.Escape) {
			m.session.Resume()
		}
	case game.PhaseGameOver:
		if key.Matches(msg, m.keys.Confirm) {
			m.session.Restart()
		}
	case game.PhasePlaying:
		if key.Matches(msg, m.keys.Escape) {
			m.session.Pause()
			return
		}
		for action, binding := range map[game.Action]key.Binding{
			game.ActionLeft:      m.keys.Left,
			game.ActionRight:     m.keys.Right,
			game.ActionRotateCW:  m.keys.RotateCW,
			game.ActionRotateCCW: m.keys.RotateCCW,
			game.ActionSoftDrop:  m.keys.SoftDrop,
			game.ActionHardDrop:  m.keys.HardDrop,
			game.ActionHold:      m.keys.Hold,
		} {
			if key.Matches(msg, binding) {
				m.session.HandleAction(action)
				m.session.ReleaseAction(action)
				return
			}
		}
	}
}

func (m *model) View() string {
	snap := m.session.Snapshot()

	boardView := borderStyle.Render(renderSlots(snap.Slots))
	side := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(labelStyle.Render("NEXT")+"\n"+renderPreview(snap.Next)),
		panelStyle.Render(labelStyle.Render("HOLD")+"\n"+renderPreview(snap.Held)),
		panelStyle.Render(renderStats(snap)),
	)
	view := lipgloss.JoinHorizontal(lipgloss.Top, boardView, " ", side)

	switch snap.Phase {
	case game.PhaseMenu:
		return view + "\n" + overlayStyle.Render("Welcome to Rustris!") + "\n" +
			hintStyle.Render("Press Enter to start, q to quit")
	case game.PhasePaused:
		return view + "\n" + overlayStyle.Render("Paused") + "\n" +
			hintStyle.Render("Press Esc to resume")
	case game.PhaseGameOver:
		return view + "\n" + overlayStyle.Render(fmt.Sprintf("Game Over! Score: %d", snap.Score)) + "\n" +
			hintStyle.Render("Press Enter to play again, q to quit")
	}
	return view + "\n" + hintStyle.Render("←/→ move · ↑/x/z rotate · ↓ soft · space hard · c hold · esc pause")
}

// renderSlots draws the visible playfield, top row first. The buffer rows
// above the visible height are never drawn.
func renderSlots(slots board.Slots) string {
	var sb strings.Builder
	for y := board.VisibleHeight - 1; y >= 0; y-- {
		for x := 0; x < board.Width; x++ {
			slot := slots[y][x]
			switch slot.State {
			case board.SlotOccupied, board.SlotLocked:
				sb.WriteString(blockStyles[slot.Type].Render("██"))
			case board.SlotGhost:
				sb.WriteString(ghostStyle.Render("░░"))
			default:
				sb.WriteString("  ")
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderPreview draws a rustomino at its spawn orientation in a small box.
func renderPreview(r *rustomino.Rustomino) string {
	if r == nil {
		var sb strings.Builder
		for y := 0; y < 3; y++ {
			sb.WriteString(strings.Repeat("  ", 4))
			if y < 2 {
				sb.WriteByte('\n')
			}
		}
		return sb.String()
	}

	cells := map[rustomino.Vec]bool{}
	for _, b := range r.Blocks() {
		cells[b] = true
	}
	style := blockStyles[r.Type]

	var sb strings.Builder
	for y := 2; y >= 0; y-- {
		for x := 0; x < 4; x++ {
			if cells[rustomino.Vec{X: x, Y: y}] {
				sb.WriteString(style.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderStats(snap game.Snapshot) string {
	return fmt.Sprintf("%s %d\n%s %d\n%s %d",
		labelStyle.Render("SCORE"), snap.Score,
		labelStyle.Render("LEVEL"), snap.Level,
		labelStyle.Render("LINES"), snap.LinesCleared,
	)
}

// seedFlag accepts an integer seed or the word "random".
type seedFlag struct {
	value  int64
	random bool
}

func (s *seedFlag) String() string {
	if s.random {
		return "random"
	}
	return strconv.FormatInt(s.value, 10)
}

func (s *seedFlag) Set(v string) error {
	if v == "random" {
		s.random = true
		return nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q (use an integer or 'random')", v)
	}
	s.value = parsed
	s.random = false
	return nil
}

func main() {
	seed := seedFlag{random: true}
	level := flag.Int("level", 1, "Starting level")
	debug := flag.Bool("debug", false, "Write a debug log")
	logPath := flag.String("log", "rustris.log", "Debug log path")
	flag.Var(&seed, "seed", "Bag randomizer seed (integer or 'random')")
	flag.Parse()

	logger := zerolog.Nop()
	if *debug {
		f, err := os.OpenFile(*logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = zerolog.New(f).With().Timestamp().Logger()
	}

	opts := game.Options{StartLevel: *level}
	if !seed.random {
		opts.Source = rand.NewSource(seed.value)
	}

	p := tea.NewProgram(newModel(opts, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running the program: %v\n", err)
		os.Exit(1)
	}
}
