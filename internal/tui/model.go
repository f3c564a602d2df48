package tui

import (
	"fmt"
	"log"
	"math"
	"time"

	atclip "github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Danondso/melodia/internal/compose"
	"github.com/Danondso/melodia/internal/config"
	"github.com/Danondso/melodia/internal/melody"
)

// Player plays a rendered container, blocking until done.
type Player interface {
	Play(data []byte) error
}

// Saver persists a rendered container and returns its path.
type Saver interface {
	Save(id string, data []byte) (string, error)
}

// State represents the application state.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StatePlaying
	StateError
)

// durationStep is the +/- increment in seconds.
const durationStep = 0.25

// Messages sent through the Bubble Tea update loop.

type GeneratedMsg struct {
	Result *compose.Result
}

type PlaybackDoneMsg struct {
	Err error
}

type SavedMsg struct {
	Path string
}

type CopiedMsg struct{}

type ErrorMsg struct {
	Err error
}

type errorTimeoutMsg struct{}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "generate", "player", "store"
	Message  string
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

// Model is the Bubble Tea model for the melodia TUI.
type Model struct {
	State        State
	Duration     float64
	MaxDuration  float64
	ExportRate   int
	ThemeKey     string
	Last         *compose.Result
	LastSaved    string
	LastError    string
	Player       Player
	Saver        Saver
	Source       melody.Source
	Copy         func(string) error
	Logger       *log.Logger
	DebugMode    bool
	DebugEntries []DebugEntry
}

// NewModel creates a new TUI model. player and saver may be nil.
func NewModel(cfg *config.Config, p Player, s Saver, src melody.Source, logger *log.Logger, debug bool) Model {
	RegisterCustomThemes(cfg.CustomThemes)
	applyTheme(LoadTheme(cfg.Theme))
	return Model{
		State:       StateIdle,
		Duration:    cfg.Generation.DefaultDurationSec,
		MaxDuration: cfg.Generation.MaxDurationSec,
		ExportRate:  cfg.Export.SampleRate,
		ThemeKey:    cfg.Theme,
		Player:      p,
		Saver:       s,
		Source:      src,
		Copy:        atclip.WriteAll,
		Logger:      logger,
		DebugMode:   debug,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case GeneratedMsg:
		m.State = StateIdle
		m.Last = msg.Result
		m.LastSaved = ""
		m.Logger.Printf("generate: notes=%d samples=%d", len(msg.Result.Melody), msg.Result.Samples)
		return m, nil

	case PlaybackDoneMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.State = StateIdle
		return m, nil

	case SavedMsg:
		m.LastSaved = msg.Path
		m.Logger.Printf("store: saved %s", msg.Path)
		return m, nil

	case CopiedMsg:
		m.Logger.Printf("clipboard: copied %s", m.LastSaved)
		return m, nil

	case ErrorMsg:
		return m.fail(msg.Err)

	case errorTimeoutMsg:
		m.State = StateIdle
		m.LastError = ""

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "+", "=", "up":
		m.Duration = math.Min(m.Duration+durationStep, m.MaxDuration)
	case "-", "down":
		m.Duration = math.Max(m.Duration-durationStep, 0)
	case "t":
		m.ThemeKey = NextThemeKey(m.ThemeKey)
		applyTheme(LoadTheme(m.ThemeKey))
	case "g", "enter":
		if m.State == StateGenerating || m.State == StatePlaying {
			return m, nil
		}
		m.State = StateGenerating
		m.LastError = ""
		return m, m.generateCmd()
	case "p":
		if m.State != StateIdle || m.Last == nil || m.Player == nil {
			return m, nil
		}
		m.State = StatePlaying
		return m, playCmd(m.Player, m.Last.WAV)
	case "s":
		if m.Last == nil || m.Saver == nil {
			return m, nil
		}
		return m, saveCmd(m.Saver, m.Last.WAV)
	case "c":
		if m.LastSaved == "" || m.Copy == nil {
			return m, nil
		}
		return m, copyCmd(m.Copy, m.LastSaved)
	}
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.State = StateError
	m.LastError = err.Error()
	m.Logger.Printf("error: %v", err)
	return m, scheduleErrorTimeout()
}

func (m Model) generateCmd() tea.Cmd {
	duration := m.Duration
	src := m.Source
	rate := m.ExportRate
	return func() tea.Msg {
		res, err := compose.Compose(duration, src)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if rate != 0 {
			exported, err := res.Resampled(rate)
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return GeneratedMsg{Result: exported}
		}
		return GeneratedMsg{Result: res}
	}
}

func playCmd(p Player, data []byte) tea.Cmd {
	return func() tea.Msg {
		return PlaybackDoneMsg{Err: p.Play(data)}
	}
}

func saveCmd(s Saver, data []byte) tea.Cmd {
	return func() tea.Msg {
		path, err := s.Save(uuid.NewString(), data)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("save: %w", err)}
		}
		return SavedMsg{Path: path}
	}
}

func copyCmd(write func(string) error, path string) tea.Cmd {
	return func() tea.Msg {
		if err := write(path); err != nil {
			return ErrorMsg{Err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return CopiedMsg{}
	}
}

func scheduleErrorTimeout() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return errorTimeoutMsg{}
	})
}
