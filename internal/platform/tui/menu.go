package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chocodash/internal/core"
	"github.com/vovakirdan/chocodash/internal/glucose"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/storage"
)

// MenuItem is one runner variant on the menu.
type MenuItem struct {
	GameID string
	Title  string
	Rules  string
	Best   int
}

// MenuModel lets the player pick a variant. It also greets a known player
// with their last checkpoint reading.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	player         string
	lastReading    *storage.Reading
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates the menu. player may be empty before registration.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, player string) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title, Rules: g.Description}
		if store != nil {
			//nolint:errcheck // A missing best score just shows as zero
			item.Best, _ = store.HighScore(g.ID)
		}
		items = append(items, item)
	}

	m := MenuModel{
		items:     items,
		player:    player,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil && player != "" {
		if rs, err := store.Readings(player, 1); err == nil && len(rs) == 1 {
			m.lastReading = &rs[0]
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = max(min(m.cursor+1, len(m.items)-1), 0)
		case MenuActionSelect:
			if len(m.items) > 0 {
				item := m.items[m.cursor]
				m.selected = &item
				return m, tea.Quit
			}
		case MenuActionScoreboard:
			m.openScoreboard = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130")).MarginBottom(1)
	menuItemStyle     = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 2).Width(44)
	menuSelectedStyle = menuItemStyle.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208"))
	menuRulesStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{menuTitleStyle.Render("C H O C O   D A S H"), m.greeting(), ""}
	for i, item := range m.items {
		body := fmt.Sprintf("%-24s best %d\n%s", item.Title, item.Best, menuRulesStyle.Render(item.Rules))
		if i == m.cursor {
			parts = append(parts, menuSelectedStyle.Render(body))
		} else {
			parts = append(parts, menuItemStyle.Render(body))
		}
	}
	parts = append(parts, "", helpStyle.Render("↑/↓ choose  enter run  tab scores & readings  q quit"))

	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// greeting names the player and their last reading, if any.
func (m MenuModel) greeting() string {
	if m.player == "" {
		return "Dodge the chocolate, grab the apples and syringes."
	}
	var b strings.Builder
	b.WriteString("Playing as " + m.player)
	if r := m.lastReading; r != nil {
		c := glucose.Category(r.Category)
		b.WriteString("\nLast check: ")
		b.WriteString(categoryStyles[c].Render(fmt.Sprintf("%s mg/dL (%s)", r.BloodGlucose.StringFixed(0), c)))
		b.WriteString(r.RecordedAt.Local().Format("  Jan 02 15:04"))
	}
	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu as its own program and returns the choice.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, player string) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, cfg, player), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config(), WantsScoreboard: m.WantsScoreboard()}
	switch {
	case result.WantsScoreboard:
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
