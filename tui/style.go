package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/templecore/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusEnemy = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("203")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")).
			Bold(true)

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleMeta = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// styleFor maps a narrated line's category to its look.
func styleFor(s types.Style) lipgloss.Style {
	switch s {
	case types.StyleSystem:
		return styleSystem
	case types.StyleSuccess:
		return styleSuccess
	case types.StyleWarning:
		return styleWarning
	case types.StyleError:
		return styleError
	case types.StyleCombat:
		return styleCombat
	default:
		return styleNarrative
	}
}

// lineKind refines narrative lines that get their own look.
type lineKind int

const (
	kindPlain lineKind = iota
	kindYouSee
	kindExits
	kindDialogue
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "You see:"):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"):
		return kindExits
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		return kindPlain
	}
}

// containsQuotedSpeech checks if a line contains NPC dialogue in double quotes.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// renderLine styles one wrapped line of engine output.
func renderLine(line string, style types.Style) string {
	switch classifyLine(line) {
	case kindTrace:
		return styleTrace.Render(line)
	case kindYouSee:
		return styledYouSee(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	}
	return styleFor(style).Render(line)
}

// styledYouSee renders "You see: a, b." with the names bold.
func styledYouSee(line string) string {
	const prefix = "You see: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarrative.Render(line)
	}
	return styleNarrative.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}

// styledMetaMsg renders a client-side message in gray with brackets.
func styledMetaMsg(text string) string {
	return styleMeta.Render("[" + text + "]")
}
