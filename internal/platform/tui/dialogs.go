package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chocodash/internal/glucose"
	"github.com/vovakirdan/chocodash/internal/storage"
)

// Dialog styles
var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("130")).
			Padding(1, 3)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dialogHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dialogErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	categoryStyles = map[glucose.Category]lipgloss.Style{
		glucose.Low:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		glucose.Normal: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		glucose.High:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

func placeDialog(width, height int, body string) string {
	box := dialogStyle.Render(body)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// RegistrationModel asks the player for a name before the first run.
type RegistrationModel struct {
	input  textinput.Model
	err    error
	name   string
	done   bool
	width  int
	height int
}

// NewRegistrationModel creates the name prompt, pre-filled with suggested.
func NewRegistrationModel(suggested string, width, height int) RegistrationModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 32
	ti.Width = 24
	ti.SetValue(suggested)
	ti.Focus()

	return RegistrationModel{input: ti, width: width, height: height}
}

// Update handles messages for the name prompt.
func (m RegistrationModel) Update(msg tea.Msg) (RegistrationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			name, err := storage.NormalizeName(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.name = name
			m.done = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the name prompt.
func (m RegistrationModel) View() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("C H O C O   D A S H"))
	b.WriteString("\n\n")
	b.WriteString("Dodge the chocolate, grab the apples and syringes.\n\n")
	b.WriteString("Who is playing?\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(dialogErrorStyle.Render(fmt.Sprintf("Name must be at least %d characters.", storage.MinNameLength)))
	}
	b.WriteString("\n")
	b.WriteString(dialogHintStyle.Render("enter: continue  ctrl+c: quit"))
	return placeDialog(m.width, m.height, b.String())
}

// Done reports whether a valid name was entered.
func (m RegistrationModel) Done() bool {
	return m.done
}

// Name returns the accepted player name.
func (m RegistrationModel) Name() string {
	return m.name
}

// CheckpointModel asks for a blood glucose reading while the run is paused.
type CheckpointModel struct {
	input   textinput.Model
	score   int
	result  *glucose.Result
	err     error
	done    bool
	skipped bool
	width   int
	height  int
}

// NewCheckpointModel creates the reading prompt for a run at score.
func NewCheckpointModel(score, width, height int) CheckpointModel {
	ti := textinput.New()
	ti.Placeholder = "mg/dL"
	ti.CharLimit = 16
	ti.Width = 12
	ti.Focus()

	return CheckpointModel{input: ti, score: score, width: width, height: height}
}

// Update handles messages for the reading prompt. The first enter evaluates
// the reading, the second one closes the dialog.
func (m CheckpointModel) Update(msg tea.Msg) (CheckpointModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			m.skipped = m.result == nil
			m.done = true
			return m, nil
		case tea.KeyEnter:
			if m.result != nil {
				m.done = true
				return m, nil
			}
			res, err := glucose.Evaluate(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.result = &res
			m.input.Blur()
			return m, nil
		}
	}

	if m.result != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the reading prompt or its result.
func (m CheckpointModel) View() string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render("CHECKPOINT"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score so far: %d\n\n", m.score))

	if m.result == nil {
		b.WriteString("Time to test your blood sugar.\n")
		b.WriteString("Blood glucose: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(dialogErrorStyle.Render("Enter a number, e.g. 95 or 5.4 mmol/L"))
		}
		b.WriteString("\n")
		b.WriteString(dialogHintStyle.Render("enter: submit  esc: skip"))
		return placeDialog(m.width, m.height, b.String())
	}

	style := categoryStyles[m.result.Category]
	b.WriteString(fmt.Sprintf("%s mg/dL (%s mmol/L)\n", m.result.Value.String(), glucose.ToMmol(m.result.Value).String()))
	b.WriteString(style.Render(m.result.Message))
	b.WriteString("\n\n")
	b.WriteString(dialogHintStyle.Render("enter: keep running"))
	return placeDialog(m.width, m.height, b.String())
}

// Done reports whether the dialog was closed.
func (m CheckpointModel) Done() bool {
	return m.done
}

// Result returns the evaluated reading, or nil when the player skipped.
func (m CheckpointModel) Result() *glucose.Result {
	if m.skipped {
		return nil
	}
	return m.result
}
