// Package tui is the full-screen front end: a scrolling transcript, a roster
// panel that tracks patients and doctors, and a command line with recall and
// name completion.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/fieldmed/cli"
	"github.com/nathoo/fieldmed/engine"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// Model is the Bubble Tea model for the fieldmed TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	log      transcript
	roster   roster
	recall   recall

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	saveDir  string
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.ShowSuggestions = true
	ti.Focus()

	m := Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		saveDir: cli.DefaultSaveDir(),
	}
	m.log.add(tonePlain, intro(defs.Campaign)...)
	m.log.gap()
	m.sync()
	return m
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs) error {
	_, err := tea.NewProgram(New(eng, defs), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func intro(c types.CampaignDef) []string {
	lines := []string{fmt.Sprintf("%s v%s by %s", c.Title, c.Version, c.Author)}
	if c.Intro != "" {
		lines = append(lines, "", c.Intro)
	}
	return append(lines, "", "Type /help for commands.")
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "up":
			if cmd, ok := m.recall.older(m.engine.CommandLog); ok {
				m.input.SetValue(cmd)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			cmd, _ := m.recall.newer(m.engine.CommandLog)
			m.input.SetValue(cmd)
			m.input.CursorEnd()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the input line: "again" repeats the engine's last command,
// a leading slash is a meta-command, anything else goes to the engine.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.recall.reset()
	if input == "" {
		return m, nil
	}

	m.log.echo(input)
	switch lower := strings.ToLower(input); {
	case strings.HasPrefix(input, "/"):
		lines, quit := m.handleMeta(input)
		m.log.system(lines...)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
	case lower == "again" || lower == "g":
		n := len(m.engine.CommandLog)
		if n == 0 {
			m.log.system("Nothing to repeat.")
			break
		}
		m.log.result(m.engine.Step(m.engine.CommandLog[n-1]), m.trace)
	default:
		m.log.result(m.engine.Step(input), m.trace)
	}

	m.sync()
	return m, nil
}

// sync rebuilds everything derived from the roster and redraws.
func (m *Model) sync() {
	m.roster = snapshot(m.engine.Roster)
	m.input.SetSuggestions(suggestions(m.engine.Roster))
	m.refresh()
}

// layout sizes the viewport around the panel, status bar and input line.
func (m *Model) layout() {
	w, h := m.transcriptWidth(), max(m.height-2, 1)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = w, h
	}
	m.refresh()
}

func (m Model) showPanel() bool { return m.width >= panelMinTerm }

func (m Model) transcriptWidth() int {
	if m.showPanel() {
		return m.width - panelWidth
	}
	return m.width
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.log.render(m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	body := m.viewport.View()
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.roster.view(m.viewport.Height))
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta runs a slash command and reports whether to quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		if err := cli.SaveTo(m.engine, m.saveDir, arg); err != nil {
			return []string{fmt.Sprintf("Save failed: %v", err)}, false
		}
		return []string{fmt.Sprintf("Campaign saved to %s.", saveName(arg))}, false
	case "/load":
		day, err := cli.LoadFrom(m.engine, m.saveDir, arg)
		if err != nil {
			return []string{fmt.Sprintf("Load failed: %v", err)}, false
		}
		return []string{fmt.Sprintf("Campaign loaded from %s (day %d).", saveName(arg), day)}, false
	case "/help":
		return append(cli.HelpLines(), "",
			"PgUp/PgDn scroll, Up/Down recall commands, Tab completes a name."), false
	case "/state":
		return cli.StateLines(m.engine), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func saveName(name string) string {
	if name == "" {
		return "quicksave"
	}
	return name
}

// suggestions lists the commands worth completing against the current
// roster: inspection for everybody alive, care for patients, and every
// doctor-patient pairing.
func suggestions(r *state.Roster) []string {
	var out []string
	patients := r.Patients()
	for _, p := range r.All() {
		if p.Status() == types.StatusDead {
			out = append(out, "history "+p.ID)
			continue
		}
		out = append(out, "status "+p.ID, "history "+p.ID, "combat "+p.ID+" ")
	}
	for _, p := range patients {
		if p.Status() == types.StatusDead {
			continue
		}
		out = append(out, "preview "+p.ID)
		if p.DoctorPerson() != nil {
			out = append(out, "release "+p.ID)
		}
		for _, d := range r.Doctors() {
			if d != p && d != p.DoctorPerson() {
				out = append(out, "assign "+d.ID+" to "+p.ID)
			}
		}
	}
	return out
}

// viewportKeyMap leaves Up/Down to command recall.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
