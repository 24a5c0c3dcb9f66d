package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chocodash/internal/glucose"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/storage"
)

const boardRows = 50 // rows loaded per pane

// boardPane is what the scoreboard is listing.
type boardPane int

const (
	paneLeaders boardPane = iota
	paneMine
	paneReadings
)

func (p boardPane) String() string {
	switch p {
	case paneLeaders:
		return "Leaderboard"
	case paneMine:
		return "My runs"
	case paneReadings:
		return "Readings"
	default:
		return "?"
	}
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Pane    key.Binding
	Variant key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pane, k.Variant, k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pane, k.Variant}, {k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Pane:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
		Variant: key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "mode")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the leaderboard of a variant, the player's own runs
// and the logged glucose readings.
type ScoreboardModel struct {
	store      *storage.Store
	player     string // "" hides the "My runs" pane and lists every reading
	variants   []registry.GameInfo
	variant    int
	pane       boardPane
	table      table.Model
	stats      *storage.GameStats
	empty      string
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
	standalone bool // Runs as its own program, so back and quit end it
}

// NewScoreboardModel creates the scoreboard. player may be empty.
func NewScoreboardModel(store *storage.Store, player string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:    store,
		player:   player,
		variants: registry.List(),
		help:     help.New(),
		keys:     DefaultScoreboardKeyMap(),
		width:    width,
		height:   height,
	}
	m.reload()
	return m
}

// panes lists the panes available for the current player.
func (m ScoreboardModel) panes() []boardPane {
	if m.player == "" {
		return []boardPane{paneLeaders, paneReadings}
	}
	return []boardPane{paneLeaders, paneMine, paneReadings}
}

func (m *ScoreboardModel) nextPane() {
	panes := m.panes()
	for i, p := range panes {
		if p == m.pane {
			m.pane = panes[(i+1)%len(panes)]
			return
		}
	}
	m.pane = panes[0]
}

func (m *ScoreboardModel) shiftVariant(step int) {
	if len(m.variants) == 0 {
		return
	}
	m.variant = (m.variant + step + len(m.variants)) % len(m.variants)
}

// selectGame shows the leaderboard of gameID, if it is listed.
func (m *ScoreboardModel) selectGame(gameID string) {
	for i, g := range m.variants {
		if g.ID == gameID {
			m.variant = i
			m.pane = paneLeaders
			m.reload()
			return
		}
	}
}

func (m ScoreboardModel) variantID() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.variant].ID
}

// reload rebuilds the table for the current pane.
func (m *ScoreboardModel) reload() {
	var (
		cols []table.Column
		rows []table.Row
		err  error
	)
	m.stats = nil

	switch m.pane {
	case paneLeaders:
		cols, rows, err = m.leaderRows()
		m.empty = "No runs on this mode yet. Finish one to claim the top spot!"
	case paneMine:
		cols, rows, err = m.mineRows()
		m.empty = "You have not finished a run yet."
	case paneReadings:
		cols, rows, err = m.readingRows()
		m.empty = "No glucose readings logged yet. They are taken at checkpoints."
	}
	if m.store == nil {
		m.empty = "Scores are unavailable without a database."
	} else if err != nil {
		m.empty = "Could not load: " + err.Error()
		rows = nil
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("130")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("94"))
	t.SetStyles(styles)
	m.table = t
}

func (m *ScoreboardModel) leaderRows() ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Date", Width: 13},
	}
	if m.store == nil || len(m.variants) == 0 {
		return cols, nil, nil
	}
	id := m.variantID()
	scores, err := m.store.TopScores(id, boardRows)
	if err != nil {
		return cols, nil, err
	}
	//nolint:errcheck // Stats are a caption; the table still renders without them
	m.stats, _ = m.store.GetGameStats(id)

	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{fmt.Sprint(i + 1), s.Player, fmt.Sprint(s.Score), s.CreatedAt.Local().Format("Jan 02 15:04")}
	}
	return cols, rows, nil
}

func (m *ScoreboardModel) mineRows() ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Mode", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Run", Width: 8},
		{Title: "Date", Width: 13},
	}
	if m.store == nil {
		return cols, nil, nil
	}
	scores, err := m.store.PlayerScores(m.player, boardRows)
	if err != nil {
		return cols, nil, err
	}

	titles := make(map[string]string, len(m.variants))
	for _, v := range m.variants {
		titles[v.ID] = v.Title
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		mode := titles[s.GameID]
		if mode == "" {
			mode = s.GameID
		}
		rows[i] = table.Row{mode, fmt.Sprint(s.Score), shortRunID(s.RunID), s.CreatedAt.Local().Format("Jan 02 15:04")}
	}
	return cols, rows, nil
}

func (m *ScoreboardModel) readingRows() ([]table.Column, []table.Row, error) {
	cols := []table.Column{
		{Title: "Player", Width: 14},
		{Title: "mg/dL", Width: 6},
		{Title: "mmol/L", Width: 6},
		{Title: "Range", Width: 7},
		{Title: "Score", Width: 6},
		{Title: "Date", Width: 13},
	}
	if m.store == nil {
		return cols, nil, nil
	}
	readings, err := m.store.Readings(m.player, boardRows)
	if err != nil {
		return cols, nil, err
	}

	rows := make([]table.Row, len(readings))
	for i, r := range readings {
		rows[i] = table.Row{
			r.Player,
			r.BloodGlucose.StringFixed(0),
			glucose.ToMmol(r.BloodGlucose).StringFixed(1),
			r.Category,
			fmt.Sprint(r.GameScore),
			r.RecordedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return cols, rows, nil
}

// shortRunID keeps the first block of a UUID.
func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// exit ends a standalone program; an embedded board just reports its flags.
func (m ScoreboardModel) exit() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return nil
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.exit()
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, m.exit()
		case key.Matches(msg, m.keys.Pane):
			m.nextPane()
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Variant):
			if m.pane != paneLeaders {
				return m, nil
			}
			step := 1
			if s := msg.String(); s == "left" || s == "h" {
				step = -1
			}
			m.shiftVariant(step)
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("94")).Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("130")).Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	tabs := make([]string, 0, 3)
	for _, p := range m.panes() {
		if p == m.pane {
			tabs = append(tabs, boardActiveTab.Render(p.String()))
		} else {
			tabs = append(tabs, boardTabStyle.Render(p.String()))
		}
	}

	body := m.table.View()
	if len(m.table.Rows()) == 0 {
		body = boardEmptyStyle.Render(m.empty)
	}

	parts := []string{
		boardTitleStyle.Render("C H O C O   D A S H"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		m.caption(),
		boardFrameStyle.Render(body),
		helpStyle.Render(m.help.View(m.keys)),
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// caption describes what the current pane shows.
func (m ScoreboardModel) caption() string {
	switch m.pane {
	case paneLeaders:
		if len(m.variants) == 0 {
			return ""
		}
		line := "← " + m.variants[m.variant].Title + " →"
		if m.stats != nil && m.stats.GamesCount > 0 {
			line += fmt.Sprintf("   %d runs, best %d, average %.0f", m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore)
		}
		return line
	case paneMine:
		return "Recent runs of " + m.player
	default:
		if m.player == "" {
			return "Checkpoint readings of every player"
		}
		return "Checkpoint readings of " + m.player
	}
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen on its own.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, player string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, player, width, height)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
