package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

const PlaceHolderText = "Type an action, or /help for commands..."

var genders = []string{"Female", "Male", "Non-Binary"}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	gameState     *state.GameState
	journal       []state.LogEntry
	actions       []world.SpecialAction
	journalVp     viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Character creation state
	showStartModal bool
	checkingSave   bool
	nameEntered    bool
	heroName       string
	selectedGender int

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnMsg struct {
	turn *TurnResponse
	err  error
}

type saveLoadedMsg struct {
	gameState *state.GameState
	journal   []state.LogEntry
	err       error
}

type gameStartedMsg struct {
	turn *TurnResponse
	err  error
}

type actionsMsg struct {
	actions []world.SpecialAction
}

type progressTickMsg struct{}

var (
	journalPanelStyle = lipgloss.NewStyle().
				PaddingTop(2).
				PaddingBottom(1).
				PaddingLeft(3).
				PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	storyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	combatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209")) // orange

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	journalVp := viewport.New(50, 20)
	journalVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		journalVp:      journalVp,
		metaViewport:   metaVp,
		ready:          false,
		showStartModal: true,
		checkingSave:   true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadSave()
}

func (m ConsoleUI) loadSave() tea.Cmd {
	return func() tea.Msg {
		gs, err := loadGame(m.client, m.config.APIBaseURL)
		if err != nil {
			return saveLoadedMsg{err: err}
		}
		logs, _ := getJournal(m.client, m.config.APIBaseURL)
		return saveLoadedMsg{gameState: gs, journal: logs}
	}
}

func (m ConsoleUI) startGame(name, gender string) tea.Cmd {
	return func() tea.Msg {
		turn, err := newGame(m.client, m.config.APIBaseURL, name, gender)
		return gameStartedMsg{turn, err}
	}
}

func (m ConsoleUI) refreshActions() tea.Cmd {
	return func() tea.Msg {
		actions, err := getActions(m.client, m.config.APIBaseURL)
		if err != nil {
			return actionsMsg{}
		}
		return actionsMsg{actions: actions}
	}
}

// renderLog styles one journal line by its kind.
func renderLog(entry state.LogEntry, width int) string {
	wrapped := wordwrap.String(entry.Text, width)
	switch entry.Kind {
	case state.LogAction:
		return actionStyle.Render(wrapped)
	case state.LogCombat:
		return combatStyle.Render(wrapped)
	default:
		return storyStyle.Render(wrapped)
	}
}

// writeJournalContent rebuilds the journal pane for the current width.
func (m *ConsoleUI) writeJournalContent() {
	journalWidth := m.journalVp.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("DREAMBOUND") + "\n\n")
	content.WriteString("Type your actions below, or /help for commands.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(journalWidth-6, 1))) + "\n\n")

	for _, entry := range m.journal {
		content.WriteString(renderLog(entry, journalWidth) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.journalVp.SetContent(content.String())
	m.journalVp.GotoBottom()
}

func writeMetadata(gs *state.GameState, actions []world.SpecialAction) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("PARTY") + "\n\n")

	for i := range gs.Party {
		c := &gs.Party[i]
		content.WriteString(fmt.Sprintf("%s (Lv %d %s)\n", c.Name, c.Level, c.Class))
		content.WriteString(fmt.Sprintf("  HP %d/%d  EP %d/%d\n", c.HP, c.MaxHP, c.EP, c.MaxEP))
	}
	content.WriteString(fmt.Sprintf("\nGold: %d\n", gs.Gold))
	content.WriteString(fmt.Sprintf("Turn: %d\n", gs.TurnCount))
	content.WriteString(fmt.Sprintf("Position: (%d, %d)\n", gs.PlayerPos.X, gs.PlayerPos.Y))
	if cell, ok := gs.WorldMap[world.PosKey(gs.PlayerPos.X, gs.PlayerPos.Y)]; ok {
		content.WriteString(cell.Name + "\n")
	}

	if gs.Combat != nil && len(gs.Combat.ActiveEnemies) > 0 {
		content.WriteString("\n" + titleStyle.Render("COMBAT") + "\n")
		for _, e := range gs.Combat.ActiveEnemies {
			content.WriteString(fmt.Sprintf("%s  HP %d/%d\n", e.Name, e.HP, e.MaxHP))
		}
	}

	content.WriteString("\n" + titleStyle.Render("QUESTS") + "\n")
	active := 0
	for _, q := range gs.Quests {
		if !q.IsActive() {
			continue
		}
		active++
		content.WriteString(fmt.Sprintf("• %s (%d/%d)\n", q.Title, q.Progress, q.Target))
	}
	if active == 0 {
		content.WriteString("None active\n")
	}

	content.WriteString("\n" + titleStyle.Render("INVENTORY") + "\n")
	if len(gs.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range gs.Inventory {
			content.WriteString("• " + item + "\n")
		}
	}

	if len(actions) > 0 {
		content.WriteString("\n" + titleStyle.Render("HERE") + "\n")
		for i, a := range actions {
			content.WriteString(fmt.Sprintf("%d. %s\n", i+1, a.Label))
		}
	}

	if gs.CurrentSuggestion.Text != "" {
		content.WriteString("\n" + titleStyle.Render("HINT") + "\n")
		content.WriteString(gs.CurrentSuggestion.Text + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")

	return content.String()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showStartModal {
		return m.updateStartModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.journalVp, vpCmd = m.journalVp.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.writeJournalContent()
		if m.gameState != nil {
			m.metaViewport.SetContent(writeMetadata(m.gameState, m.actions))
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if m.loading {
				// Cancel is the one command that must get through while a
				// turn is still resolving.
				if strings.EqualFold(input, "/cancel") {
					m.textarea.Reset()
					return m.handleCommand(input)
				}
				return m, nil
			}
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.loading = true
			m.progressTick = 0
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "> " + input})
			m.writeJournalContent()
			return m, tea.Batch(m.doTurn(func() (*TurnResponse, error) {
				return sendAction(m.client, m.config.APIBaseURL, input)
			}), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Error: " + msg.err.Error()})
			m.writeJournalContent()
			return m, nil
		}
		m.applyTurn(msg.turn)
		return m, m.refreshActions()

	case saveLoadedMsg, gameStartedMsg, actionsMsg:
		// Handled by the start modal; actions can arrive after any turn.
		if am, ok := msg.(actionsMsg); ok {
			m.actions = am.actions
			if m.gameState != nil {
				m.metaViewport.SetContent(writeMetadata(m.gameState, m.actions))
			}
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeJournalContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.journalVp, vpCmd = m.journalVp.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resizePanels() {
	journalWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - journalWidth - 6

	m.journalVp.Width = journalWidth - 2
	m.journalVp.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(journalWidth - 4)
}

// applyTurn folds a turn envelope into the model.
func (m *ConsoleUI) applyTurn(turn *TurnResponse) {
	m.journal = append(m.journal, turn.Logs...)
	if turn.State != nil {
		m.gameState = turn.State
	}
	m.writeJournalContent()
	if m.gameState != nil {
		m.metaViewport.SetContent(writeMetadata(m.gameState, m.actions))
	}
	m.journalVp.GotoBottom()
}

// doTurn wraps an API call into a turn message command.
func (m ConsoleUI) doTurn(call func() (*TurnResponse, error)) tea.Cmd {
	return func() tea.Msg {
		turn, err := call()
		return turnMsg{turn, err}
	}
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	var call func() (*TurnResponse, error)

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /n /s /e /w - Walk one tile
• /do <number> - Use a location action from the HERE list
• /attack /defend /flee - Combat round
• /skill <id> - Use a skill
• /use <item> - Use an inventory item
• /equip <item> - Equip a weapon or armor
• /appraise <item> - Pay 10 gold to identify an item
• /yes /no - Answer a recruitment offer
• /focus <quest id> - Track a quest
• /abandon <quest id> - Give up a quest
• /copy - Copy the latest story entry to the clipboard
• /cancel - Abandon a slow narration
• Ctrl+C - Quit

Anything without a leading slash is narrated as your action.
`
		m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: strings.TrimSpace(helpText)})
		m.writeJournalContent()
		return m, nil

	case "/n":
		call = func() (*TurnResponse, error) { return sendMove(m.client, m.config.APIBaseURL, 0, 1) }
	case "/s":
		call = func() (*TurnResponse, error) { return sendMove(m.client, m.config.APIBaseURL, 0, -1) }
	case "/e":
		call = func() (*TurnResponse, error) { return sendMove(m.client, m.config.APIBaseURL, 1, 0) }
	case "/w":
		call = func() (*TurnResponse, error) { return sendMove(m.client, m.config.APIBaseURL, -1, 0) }

	case "/do":
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 1 || idx > len(m.actions) {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Usage: /do <number> from the HERE list"})
			m.writeJournalContent()
			return m, nil
		}
		action := m.actions[idx-1]
		call = func() (*TurnResponse, error) { return sendSpecial(m.client, m.config.APIBaseURL, action) }

	case "/attack", "/defend", "/flee":
		combatAction := strings.ToUpper(strings.TrimPrefix(cmd, "/"))
		call = func() (*TurnResponse, error) { return sendCombat(m.client, m.config.APIBaseURL, combatAction) }

	case "/skill":
		call = func() (*TurnResponse, error) { return sendSkill(m.client, m.config.APIBaseURL, arg) }
	case "/use":
		call = func() (*TurnResponse, error) { return sendUseItem(m.client, m.config.APIBaseURL, arg) }
	case "/equip":
		call = func() (*TurnResponse, error) { return sendEquipItem(m.client, m.config.APIBaseURL, arg, "player") }
	case "/appraise":
		call = func() (*TurnResponse, error) { return sendAppraise(m.client, m.config.APIBaseURL, arg) }

	case "/yes":
		call = func() (*TurnResponse, error) { return sendRecruit(m.client, m.config.APIBaseURL, true) }
	case "/no":
		call = func() (*TurnResponse, error) { return sendRecruit(m.client, m.config.APIBaseURL, false) }

	case "/focus":
		call = func() (*TurnResponse, error) { return sendFocusQuest(m.client, m.config.APIBaseURL, arg) }
	case "/abandon":
		call = func() (*TurnResponse, error) { return sendAbandonQuest(m.client, m.config.APIBaseURL, arg) }

	case "/copy":
		var latest string
		for i := len(m.journal) - 1; i >= 0; i-- {
			if m.journal[i].Kind == state.LogStory {
				latest = m.journal[i].Text
				break
			}
		}
		if latest == "" {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Nothing to copy yet."})
		} else if err := clipboard.WriteAll(latest); err != nil {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Copy failed: " + err.Error()})
		} else {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Copied the latest story entry."})
		}
		m.writeJournalContent()
		return m, nil

	case "/cancel":
		if err := sendCancel(m.client, m.config.APIBaseURL); err != nil {
			m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Error: " + err.Error()})
			m.writeJournalContent()
		}
		return m, nil

	default:
		m.journal = append(m.journal, state.LogEntry{Kind: state.LogAction, Text: "Unknown command. Try /help."})
		m.writeJournalContent()
		return m, nil
	}

	m.loading = true
	m.progressTick = 0
	m.writeJournalContent()
	return m, tea.Batch(m.doTurn(call), progressTick())
}

func (m ConsoleUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case saveLoadedMsg:
		m.checkingSave = false
		if msg.err == nil && msg.gameState != nil {
			m.gameState = msg.gameState
			m.journal = msg.journal
			if len(m.journal) == 0 && m.gameState.LastEventSummary != "" {
				m.journal = []state.LogEntry{{Kind: state.LogStory, Text: m.gameState.LastEventSummary}}
			}
			m.showStartModal = false
			m.finishStart()
			return m, tea.Batch(textarea.Blink, m.refreshActions())
		}
		// No save; fall through to character creation.

	case gameStartedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameState = msg.turn.State
		m.journal = append([]state.LogEntry(nil), msg.turn.Logs...)
		m.showStartModal = false
		m.finishStart()
		return m, tea.Batch(textarea.Blink, m.refreshActions())

	case tea.KeyMsg:
		if m.checkingSave || m.loading {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.nameEntered && m.selectedGender > 0 {
				m.selectedGender--
			}
		case tea.KeyDown:
			if m.nameEntered && m.selectedGender < len(genders)-1 {
				m.selectedGender++
			}

		case tea.KeyEnter:
			if !m.nameEntered {
				name := strings.TrimSpace(m.textarea.Value())
				if name == "" {
					return m, nil
				}
				m.heroName = name
				m.nameEntered = true
				m.textarea.Reset()
				return m, nil
			}
			m.loading = true
			return m, m.startGame(m.heroName, genders[m.selectedGender])

		case tea.KeyBackspace:
			if m.nameEntered {
				// Step back to the name prompt.
				m.nameEntered = false
				m.textarea.SetValue(m.heroName)
				return m, nil
			}
		}

		if !m.nameEntered {
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// finishStart sizes the main panels once a session exists.
func (m *ConsoleUI) finishStart() {
	if m.width > 0 && m.height > 0 {
		m.resizePanels()
	}
	m.writeJournalContent()
	if m.gameState != nil {
		m.metaViewport.SetContent(writeMetadata(m.gameState, m.actions))
	}
	m.textarea.Placeholder = PlaceHolderText
	m.textarea.Focus()
	m.ready = true
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved automatically.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.checkingSave:
		content.WriteString(modalTitleStyle.Render("Dreambound"))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Looking for a saved dream..."))

	case m.loading:
		content.WriteString(modalTitleStyle.Render("Entering the Dream..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The narrator is setting the scene..."))

	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to start: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")

	case !m.nameEntered:
		content.WriteString(modalTitleStyle.Render("Name Your Dreamer"))
		content.WriteString("\n\n")
		content.WriteString(m.textarea.View())
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Enter to continue, Ctrl+C to exit"))

	default:
		content.WriteString(modalTitleStyle.Render("Choose a Gender"))
		content.WriteString("\n\n")
		for i, g := range genders {
			if i == m.selectedGender {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", g)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", g)))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to choose, Enter to begin, Backspace to rename"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showStartModal {
		return m.renderStartModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	journalWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - journalWidth - 6

	journalPanel := journalPanelStyle.Width(journalWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.journalVp.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(journalWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, journalPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.journalVp.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
