package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/registry"
	"github.com/vovakirdan/battlesim/internal/storage"
)

// Model is the Bubble Tea model for watching a battle.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	palette    *Palette
	quitting   bool
	saved      bool // Whether the current battle has been recorded
}

// NewModel creates a new Bubble Tea model for the given battle.
// The bottom row of the terminal is reserved for key help.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		palette:    NewPalette(nil),
	}
}

// WithRenderer styles output for the terminal behind r.
func (m Model) WithRenderer(r *lipgloss.Renderer) Model {
	m.palette = NewPalette(r)
	return m
}

// WithLogger reports storage failures through logger.
func (m Model) WithLogger(logger *log.Logger) Model {
	m.logger = logger
	return m
}

// Init initializes the model and starts the battle.
func (m Model) Init() tea.Cmd {
	// Reset mutates the game behind the interface, so the value receiver is fine.
	m.game.Reset(m.config)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Restart only applies to a concluded battle.
	if m.inputFrame.Has(core.ActionRestart) && !m.gameState.GameOver {
		delete(m.inputFrame.Actions, core.ActionRestart)
	}

	return m, nil
}

// handleResize processes window resize events.
// The battle keeps running; only the view is rescaled.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 0))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Fresh seed for a new battle
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.saved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Record the battle once it concludes
	if m.gameState.GameOver && !m.saved {
		m.saveBattle()
		m.saved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveBattle stores the concluded battle. Failures never stop the viewer.
func (m Model) saveBattle() {
	if m.store == nil {
		return
	}

	id, err := m.store.SaveBattle(storage.BattleRecord{
		Scenario: m.game.ID(),
		Seed:     m.config.Seed,
		Winner:   m.gameState.Winner,
		Reason:   m.gameState.Reason,
		Rounds:   m.gameState.Tick,
	})
	if m.logger == nil {
		return
	}
	if err != nil {
		m.logger.Warn("could not record battle", "scenario", m.game.ID(), "error", err)
		return
	}
	m.logger.Info("battle recorded", "id", id, "scenario", m.game.ID(), "winner", m.gameState.Winner)
}

// State returns the last observed battle state.
func (m Model) State() core.GameState {
	return m.gameState
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	return m.palette.Render(m.screen) + "\n" + m.palette.Help(m.help.View(m.keyMapper.Keys()))
}

// Run starts the Bubble Tea program with the given battle.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
