package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/engine"
	"github.com/jwebster45206/life-engine/pkg/session"
)

type uiState int

const (
	statePickCatalog uiState = iota
	statePickCharacter
	statePlaying
	stateEnded
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config *ConsoleConfig
	client *http.Client

	state    uiState
	logView  viewport.Model
	ready    bool
	width    int
	height   int
	err      error
	loading  bool
	quitting bool

	// Catalog selection state
	catalogs        []string
	selectedCatalog int
	catalogName     string

	// Character selection state
	characters        []catalog.Character
	selectedCharacter int

	// Play state
	snap           *session.Snapshot
	turn           *TurnResponse
	selectedOption int
	log            []string

	// Ending state
	ending *engine.EndingResult
	copied bool
}

type catalogsLoadedMsg struct {
	catalogs []string
	err      error
}

type charactersLoadedMsg struct {
	cat *catalog.Catalog
	err error
}

type sessionCreatedMsg struct {
	snap *session.Snapshot
	err  error
}

type turnMsg struct {
	turn *TurnResponse
	err  error
}

type choiceMsg struct {
	resp *ChoiceResponse
	err  error
}

type copiedMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	feedbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:  cfg,
		client:  client,
		state:   statePickCatalog,
		logView: vp,
		loading: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadCatalogs()
}

func (m ConsoleUI) loadCatalogs() tea.Cmd {
	return func() tea.Msg {
		catalogs, err := listCatalogs(m.client, m.config.APIBaseURL)
		return catalogsLoadedMsg{catalogs, err}
	}
}

func (m ConsoleUI) loadCharacters(name string) tea.Cmd {
	return func() tea.Msg {
		cat, err := getCatalog(m.client, m.config.APIBaseURL, name)
		return charactersLoadedMsg{cat, err}
	}
}

func (m ConsoleUI) startSession(catalogName, characterID string) tea.Cmd {
	return func() tea.Msg {
		snap, err := createSession(m.client, m.config.APIBaseURL, catalogName, characterID)
		return sessionCreatedMsg{snap, err}
	}
}

func (m ConsoleUI) fetchNextEvent() tea.Cmd {
	return func() tea.Msg {
		turn, err := getNextEvent(m.client, m.config.APIBaseURL, m.snap.Meta.ID)
		return turnMsg{turn, err}
	}
}

func (m ConsoleUI) submitChoice(eventID string, optionIndex int) tea.Cmd {
	return func() tea.Msg {
		resp, err := postChoice(m.client, m.config.APIBaseURL, m.snap.Meta.ID, eventID, optionIndex)
		return choiceMsg{resp, err}
	}
}

func (m ConsoleUI) copySummary() tea.Cmd {
	summary := m.ending.Summary
	return func() tea.Msg {
		return copiedMsg{clipboard.WriteAll(summary)}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = m.width - 4
		m.logView.Height = m.height - 14
		if m.logView.Height < 5 {
			m.logView.Height = 5
		}
		m.ready = true
		m.refreshLog()

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd

	case catalogsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else if len(msg.catalogs) == 0 {
			m.err = fmt.Errorf("no catalogs available")
		} else {
			m.catalogs = msg.catalogs
		}

	case charactersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.characters = msg.cat.Characters
			m.state = statePickCharacter
			if len(m.characters) == 0 {
				// No authored characters: start with engine defaults.
				m.loading = true
				return m, m.startSession(m.catalogName, "")
			}
		}

	case sessionCreatedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.snap = msg.snap
		m.state = statePlaying
		return m, m.fetchNextEvent()

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.turn.Finished {
			m.ending = msg.turn.Ending
			m.state = stateEnded
			return m, nil
		}
		m.turn = msg.turn
		m.selectedOption = 0
		m.refreshLog()

	case choiceMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.appendChoiceResult(msg.resp)
		if msg.resp.Finished {
			m.loading = false
			m.ending = msg.resp.Ending
			m.state = stateEnded
			return m, nil
		}
		m.turn = nil
		return m, m.fetchNextEvent()

	case copiedMsg:
		m.copied = msg.err == nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.quitting = true
		return m, tea.Quit
	}

	if m.loading {
		return m, nil
	}

	switch m.state {
	case statePickCatalog:
		switch msg.Type {
		case tea.KeyUp:
			if m.selectedCatalog > 0 {
				m.selectedCatalog--
			}
		case tea.KeyDown:
			if m.selectedCatalog < len(m.catalogs)-1 {
				m.selectedCatalog++
			}
		case tea.KeyEnter:
			if len(m.catalogs) > 0 {
				m.catalogName = m.catalogs[m.selectedCatalog]
				m.loading = true
				return m, m.loadCharacters(m.catalogName)
			}
		}

	case statePickCharacter:
		switch msg.Type {
		case tea.KeyUp:
			if m.selectedCharacter > 0 {
				m.selectedCharacter--
			}
		case tea.KeyDown:
			if m.selectedCharacter < len(m.characters)-1 {
				m.selectedCharacter++
			}
		case tea.KeyEnter:
			if len(m.characters) > 0 {
				m.loading = true
				return m, m.startSession(m.catalogName, m.characters[m.selectedCharacter].ID)
			}
		}

	case statePlaying:
		if m.turn == nil || m.turn.Event == nil {
			return m, nil
		}
		options := m.turn.Event.Options
		switch msg.Type {
		case tea.KeyUp:
			if m.selectedOption > 0 {
				m.selectedOption--
			}
		case tea.KeyDown:
			if m.selectedOption < len(options)-1 {
				m.selectedOption++
			}
		case tea.KeyEnter:
			if len(options) == 0 {
				return m, nil
			}
			view := options[m.selectedOption]
			if !view.Available {
				return m, nil
			}
			m.loading = true
			return m, m.submitChoice(m.turn.Event.Event.ID, view.Index)
		}

	case stateEnded:
		switch msg.String() {
		case "c", "C":
			if m.ending != nil {
				return m, m.copySummary()
			}
		case "q", "Q":
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// appendChoiceResult records feedback and attribute changes in the
// scrollback log.
func (m *ConsoleUI) appendChoiceResult(resp *ChoiceResponse) {
	if resp.Result == nil {
		return
	}
	if resp.Result.Feedback != "" {
		m.log = append(m.log, feedbackStyle.Render(resp.Result.Feedback))
	}
	for _, ch := range resp.Result.Changes {
		m.log = append(m.log, promptStyle.Render(fmt.Sprintf("%s: %+.0f (now %.0f)", ch.Attribute, ch.Delta, ch.New)))
	}
	m.refreshLog()
}

func (m *ConsoleUI) refreshLog() {
	width := m.logView.Width - 2
	if width <= 0 {
		width = 58
	}

	var content strings.Builder
	for _, line := range m.log {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}

	if m.turn != nil && m.turn.Event != nil {
		ev := m.turn.Event.Event
		content.WriteString("\n" + separatorStyle.Render(strings.Repeat("─", width)) + "\n")
		content.WriteString(titleStyle.Render(ev.Title) + "\n\n")
		content.WriteString(eventStyle.Render(wordwrap.String(ev.Text, width)) + "\n")
	}

	m.logView.SetContent(content.String())
	m.logView.GotoBottom()
}

func (m ConsoleUI) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v\n\n", m.err)) +
			promptStyle.Render("  Press Ctrl+C to exit")
	}
	if m.loading {
		return loadingStyle.Render("\n  Loading...")
	}

	switch m.state {
	case statePickCatalog:
		return m.renderPicker("Select a Catalog", m.catalogNames(), m.selectedCatalog)
	case statePickCharacter:
		return m.renderPicker("Select a Character", m.characterNames(), m.selectedCharacter)
	case statePlaying:
		return m.renderPlaying()
	case stateEnded:
		return m.renderEnding()
	}
	return ""
}

func (m ConsoleUI) catalogNames() []string {
	return m.catalogs
}

func (m ConsoleUI) characterNames() []string {
	names := make([]string, len(m.characters))
	for i, ch := range m.characters {
		names[i] = ch.Name
		if names[i] == "" {
			names[i] = ch.ID
		}
		if ch.Description != "" {
			names[i] = fmt.Sprintf("%s - %s", names[i], ch.Description)
		}
	}
	return names
}

func (m ConsoleUI) renderPicker(title string, items []string, selected int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n\n")

	for i, item := range items {
		if i == selected {
			content.WriteString(selectedItemStyle.Render(fmt.Sprintf("▶ %s", item)))
		} else {
			content.WriteString(fmt.Sprintf("  %s", item))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(content.String())
}

func (m ConsoleUI) renderPlaying() string {
	var header string
	if m.turn != nil {
		header = titleStyle.Render("LIFE ENGINE") +
			promptStyle.Render(fmt.Sprintf("   Day %d, period %d", m.turn.Day, m.turn.Period))
	}

	var options strings.Builder
	if m.turn != nil && m.turn.Event != nil {
		for i, view := range m.turn.Event.Options {
			label := view.Text
			if !view.Available {
				label = fmt.Sprintf("%s (locked: %s)", label, view.LockedReason)
			}
			switch {
			case i == m.selectedOption && view.Available:
				options.WriteString(selectedItemStyle.Render(fmt.Sprintf("▶ %s", label)))
			case i == m.selectedOption:
				options.WriteString(lockedStyle.Render(fmt.Sprintf("▶ %s", label)))
			case !view.Available:
				options.WriteString(lockedStyle.Render(fmt.Sprintf("  %s", label)))
			default:
				options.WriteString(fmt.Sprintf("  %s", label))
			}
			options.WriteString("\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.logView.View(),
		"",
		separatorStyle.Render(strings.Repeat("─", max(m.width-4, 10))),
		options.String(),
		promptStyle.Render("↑/↓ select, Enter choose, Ctrl+C quit"),
	)
}

func (m ConsoleUI) renderEnding() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("THE END") + "\n\n")

	if m.ending != nil {
		if m.ending.Ending != nil {
			content.WriteString(titleStyle.Render(m.ending.Ending.Title) + "\n\n")
			if m.ending.Ending.Text != "" {
				content.WriteString(eventStyle.Render(wordwrap.String(m.ending.Ending.Text, max(m.width-8, 30))) + "\n\n")
			}
		}
		content.WriteString(fmt.Sprintf("Final score: %d\n\n", m.ending.Score))
		content.WriteString(wordwrap.String(m.ending.Summary, max(m.width-8, 30)) + "\n\n")
	}

	if m.copied {
		content.WriteString(feedbackStyle.Render("Summary copied to clipboard!") + "\n")
	}
	content.WriteString(promptStyle.Render("Press C to copy the summary, Q to quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(content.String())
}
