package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/engine/save"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// rawLine stores an unstyled output line with its category, so we can
// re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	style   types.Style
	isInput bool // true for echoed player input
	isMeta  bool // true for client-side messages
}

// Model is the Bubble Tea model for the templecore TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History
	hud      hud

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input         string // echoed player input (empty for intro)
	lines         []types.TextOutput
	notifications []types.Notification
	isMeta        bool // true for meta-command output
}

// New creates a TUI model wired to the given engine. Saves go to saveDir.
func New(eng *engine.Engine, defs *state.Defs, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		history: NewHistory(100),
		hud:     hud{sheet: eng.Player.Sheet()},
		saveDir: saveDir,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, saveDir string) error {
	m := New(eng, defs, saveDir)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the title and intro.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		title := m.defs.Game.Title
		if m.defs.Game.Version != "" {
			title += " v" + m.defs.Game.Version
		}
		if m.defs.Game.Author != "" {
			title += " by " + m.defs.Game.Author
		}

		result := m.engine.Intro()
		lines := append([]types.TextOutput{
			{Text: title, Style: types.StyleSystem},
			{},
		}, result.Output...)

		return gameOutputMsg{lines: lines, notifications: result.Notifications}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(metaOutput(input, []string{"Nothing to repeat."}))
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(metaOutput(input, output))
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		for _, line := range formatTrace(result) {
			output = append(output, types.TextOutput{Text: line})
		}
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output, notifications: result.Notifications})
	return m, nil
}

// metaOutput wraps client-side lines for display.
func metaOutput(input string, lines []string) gameOutputMsg {
	out := make([]types.TextOutput, len(lines))
	for i, l := range lines {
		out[i] = types.TextOutput{Text: l, Style: types.StyleSystem}
	}
	return gameOutputMsg{input: input, lines: out, isMeta: true}
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: line.Text, style: line.Style, isMeta: msg.isMeta})
	}
	for _, n := range msg.notifications {
		m.hud = m.hud.apply(n)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wordWrap(rl.text, width)))
		case rl.isMeta:
			styled = append(styled, styledMetaMsg(wordWrap(rl.text, width)))
		default:
			// System blocks such as the quest log keep their own line breaks.
			for _, part := range strings.Split(rl.text, "\n") {
				styled = append(styled, renderLine(wordWrap(part, width), rl.style))
			}
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

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

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(m.engine)
	if errors.Is(err, save.ErrInCombat) {
		return []string{"You cannot save in the middle of a fight."}
	}
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	save.ApplySave(m.engine, sd)
	m.hud = hud{sheet: m.engine.Player.Sheet()}

	output := []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn)}
	for _, line := range m.engine.Step("look").Output {
		output = append(output, line.Text)
	}
	return output
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l) [npc]             — Describe the room or someone in it",
		"  go <dir>                   — Move (or just type n/s/e/w/u)",
		"  attack (a), defend (d)     — Fight whatever ambushed you",
		"  heal (h), flee (f)         — Recover or run",
		"  fight <creature>           — Challenge a creature (orc, demon, ...)",
		"  use <item>                 — Use or consume something you carry",
		"  talk <npc> [about <topic>] — Speak with someone",
		"  quests (q) [active|completed|all]",
		"  accept / abandon / questinfo <quest>",
		"  status, inventory (i), class <name>",
		"  wait (z)                   — Let time pass",
		"  again (g)                  — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	e := m.engine
	p := e.Player
	output := []string{
		fmt.Sprintf("Turn: %d", e.TurnCount),
		fmt.Sprintf("Location: %s", p.Location),
		fmt.Sprintf("Items: %v", p.Items),
	}
	if len(p.Flags) > 0 {
		output = append(output, fmt.Sprintf("Flags: %v", p.Flags))
	}
	for _, q := range e.Quests.ActiveQuests() {
		output = append(output, fmt.Sprintf("Quest: %s (%s)", q.ID(), q.Status))
	}
	if here := e.RoomEncounters(); len(here) > 0 {
		output = append(output, fmt.Sprintf("Encounters here: %s", strings.Join(here, ", ")))
	}
	output = append(output, fmt.Sprintf("RNG: seed %d, position %d", e.RNG.Seed(), e.RNG.Position()))
	return output
}

// formatTrace lists every non-text notification of a step.
func formatTrace(result types.Result) []string {
	var lines []string
	for _, n := range result.Notifications {
		if n.Kind == types.KindText {
			continue
		}
		payload, err := json.Marshal(n.Payload)
		if err != nil {
			payload = []byte(err.Error())
		}
		lines = append(lines, fmt.Sprintf("[trace] %s %s", n.Kind, payload))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
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
