// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for a single-player templecore session.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/engine/save"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// DefaultSaveDir is where single-player saves go unless configured.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".templecore", "saves")
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: DefaultSaveDir(),
	}
}

// Run starts the game loop. It shows the intro and the starting room,
// then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printResult(c.Engine.Intro())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine)
	if errors.Is(err, save.ErrInCombat) {
		c.printSystem("You cannot save in the middle of a fight.")
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.ApplySave(c.Engine, sd)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn))

	// Show current room after loading.
	c.printResult(c.Engine.Step("look"))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle notification trace output",
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	e := c.Engine
	p := e.Player
	c.printSystem(fmt.Sprintf("Turn: %d", e.TurnCount))
	c.printSystem(fmt.Sprintf("Location: %s", p.Location))
	c.printSystem(fmt.Sprintf("Level %d, XP %d/%d, HP %d/%d, shekels %d",
		p.Level, p.XP, p.XPToNext, p.HP, p.MaxHP, p.Currency))
	if len(p.Items) > 0 {
		c.printSystem(fmt.Sprintf("Items: %v", p.Items))
	}
	if len(p.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", p.Flags))
	}
	for _, q := range e.Quests.ActiveQuests() {
		c.printSystem(fmt.Sprintf("Quest: %s (%s)", q.ID(), q.Status))
	}
	if here := e.RoomEncounters(); len(here) > 0 {
		c.printSystem(fmt.Sprintf("Encounters here: %s", strings.Join(here, ", ")))
	}
	if disabled := e.Encounters.Disabled(); len(disabled) > 0 {
		c.printSystem(fmt.Sprintf("Retired encounters: %v", disabled))
	}
	c.printSystem(fmt.Sprintf("RNG: seed %d, position %d", e.RNG.Seed(), e.RNG.Position()))
}

// printTrace dumps every non-text notification of a step as JSON.
func (c *CLI) printTrace(result types.Result) {
	for _, n := range result.Notifications {
		if n.Kind == types.KindText {
			continue
		}
		payload, err := json.Marshal(n.Payload)
		if err != nil {
			payload = []byte(err.Error())
		}
		c.printSystem(fmt.Sprintf("[trace] %s %s", n.Kind, payload))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		switch line.Style {
		case types.StyleError:
			c.printLine("! " + line.Text)
		case types.StyleWarning:
			c.printLine("* " + line.Text)
		default:
			c.printLine(line.Text)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
