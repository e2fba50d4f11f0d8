package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabOverview tab = iota
	tabIndicators
	tabHistory
	tabChat
)

var tabNames = []string{"Overview", "Indicators", "History", "Chat"}

type chatLine struct {
	fromUser bool
	text     string
}

// AppModel is the root bubbletea model for one SSH session.
type AppModel struct {
	svc Services

	active tab
	width  int
	height int

	loading bool
	err     error
	view    *dashboardState
	history historyState

	input      textinput.Model
	spin       spinner.Model
	transcript []chatLine
	waiting    bool
}

func NewAppModel(svc Services) *AppModel {
	input := textinput.New()
	input.Placeholder = "Ask about the market..."
	input.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	return &AppModel{
		svc:     svc,
		loading: true,
		input:   input,
		spin:    spin,
	}
}

// SetSize is called before the program starts with the PTY dimensions.
func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(fetchDashboard(m.svc), fetchHistory(m.svc), m.spin.Tick)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardMsg:
		m.loading = false
		m.err = nil
		m.view = newDashboardState(msg.view)
		return m, nil

	case historyMsg:
		m.history = newHistoryState(msg.records)
		return m, nil

	case advisorMsg:
		m.waiting = false
		m.transcript = append(m.transcript, chatLine{text: msg.reply})
		return m, nil

	case errMsg:
		m.loading = false
		m.waiting = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	typing := m.active == tabChat && m.input.Focused()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !typing {
			return m, tea.Quit
		}
	case "tab":
		m.setTab((m.active + 1) % tab(len(tabNames)))
		return m, nil
	case "shift+tab":
		m.setTab((m.active + tab(len(tabNames)) - 1) % tab(len(tabNames)))
		return m, nil
	case "1", "2", "3", "4":
		if !typing {
			m.setTab(tab(int(msg.String()[0] - '1')))
			return m, nil
		}
	case "r":
		if !typing {
			m.loading = true
			return m, tea.Batch(fetchDashboard(m.svc), fetchHistory(m.svc))
		}
	case "esc":
		if typing {
			m.input.Blur()
			return m, nil
		}
	case "enter":
		if typing {
			return m.submitQuestion()
		}
		if m.active == tabChat {
			return m, m.input.Focus()
		}
	}

	if m.active == tabChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) setTab(t tab) {
	m.active = t
	if t == tabChat {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *AppModel) submitQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.waiting {
		return m, nil
	}
	if m.svc.Advisor == nil {
		m.transcript = append(m.transcript, chatLine{text: "The advisor is not configured on this server."})
		m.input.SetValue("")
		return m, nil
	}

	m.transcript = append(m.transcript, chatLine{fromUser: true, text: question})
	m.input.SetValue("")
	m.waiting = true
	return m, tea.Batch(askAdvisor(m.svc, question), m.spin.Tick)
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spin.View() + " Loading market data...")
	case m.err != nil && m.view == nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	default:
		switch m.active {
		case tabOverview:
			b.WriteString(m.renderOverview())
		case tabIndicators:
			b.WriteString(m.renderIndicators())
		case tabHistory:
			b.WriteString(m.renderHistory())
		case tabChat:
			b.WriteString(m.renderChat())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab/1-4: switch  r: refresh  q: quit"))
	return b.String()
}

func (m *AppModel) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.active {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
