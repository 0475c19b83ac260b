// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the fieldmed engine.
package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rodaine/table"

	"github.com/nathoo/fieldmed/engine"
	"github.com/nathoo/fieldmed/engine/state"
	"github.com/nathoo/fieldmed/types"
)

// CLI handles terminal interaction with the operator.
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

// DefaultSaveDir is where saves go when no other directory is configured.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fieldmed", "saves")
}

// Run starts the command loop. It shows the intro and the patient summary,
// then loops: prompt, input, dispatch, output.
func (c *CLI) Run() {
	if c.Defs.Campaign.Intro != "" {
		c.printLine(c.Defs.Campaign.Intro)
		c.printLine("")
	}

	result := c.Engine.Step("status")
	c.printResult(result)

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

		// "again" / "g" repeats the last command.
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

// handleMeta dispatches meta-commands. Returns true if the session should end.
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
		for _, line := range HelpLines() {
			c.printLine(line)
		}

	case "/state":
		for _, line := range StateLines(c.Engine) {
			c.printSystem(line)
		}

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
	if err := SaveTo(c.Engine, c.SaveDir, name); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Campaign saved to %s.", saveName(name)))
}

func (c *CLI) cmdLoad(name string) {
	day, err := LoadFrom(c.Engine, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Campaign loaded from %s (day %d).", saveName(name), day))
	c.printResult(c.Engine.Step("status"))
}

func saveName(name string) string {
	if name == "" {
		return "quicksave"
	}
	return name
}

// SaveTo writes the engine state to <dir>/<name>.json.
func SaveTo(eng *engine.Engine, dir, name string) error {
	data, err := eng.Save()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, saveName(name)+".json"), data, 0o644)
}

// LoadFrom restores the engine from <dir>/<name>.json and returns the
// restored day.
func LoadFrom(eng *engine.Engine, dir, name string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dir, saveName(name)+".json"))
	if err != nil {
		return 0, err
	}
	sd, err := eng.Load(data)
	if err != nil {
		return 0, err
	}
	return sd.Day, nil
}

// HelpLines lists the meta-commands and engine commands.
func HelpLines() []string {
	return []string{
		"System:",
		"  /save [name]   Save the campaign (default: quicksave)",
		"  /load [name]   Load a campaign save (default: quicksave)",
		"  /quit          Exit",
		"  /help          Show this help",
		"  /state         Debug: dump the roster",
		"  /trace         Toggle effect and event tracing",
		"",
		"Commands:",
		"  day [n] (d, z, next day)        Advance one or n days",
		"  combat <person> <hits> (hit)    Resolve hits taken in combat",
		"  assign <doctor> to <patient>    Put a patient under a doctor's care",
		"  treat <patient> with <doctor>   Same as assign",
		"  release <patient> (send home)   Take a patient off their doctor's care",
		"  preview <person> (forecast)     Show what tomorrow holds for someone",
		"  status [person] (x, look)       Patients under care, or one person in detail",
		"  roster (ls, who)                Everybody in the unit",
		"  history <person> [n] (log)      Recent medical events for someone",
		"  catalog (types)                 Known injury types",
		"  again (g)                       Repeat your last command",
	}
}

// StateLines dumps the roster and RNG position for debugging.
func StateLines(eng *engine.Engine) []string {
	lines := []string{
		fmt.Sprintf("Day: %d", eng.Roster.Day),
		fmt.Sprintf("RNG: seed %d, position %d", eng.RNG.Seed(), eng.RNG.Position()),
	}

	var buf bytes.Buffer
	tbl := table.New("ID", "Status", "Injuries", "Doctor", "Wait", "Edge", "Tasks", "XP").WithWriter(&buf)
	for _, p := range eng.Roster.All() {
		doctor := "-"
		if d := p.DoctorPerson(); d != nil {
			doctor = d.ID
		}
		tbl.AddRow(p.ID, p.Status(), len(p.Injuries()), doctor, p.WaitDays(), p.Edge(), p.Tasks(), p.XP())
	}
	tbl.Print()
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}

// TraceLines formats the applied effects and emitted events of a result.
func TraceLines(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, "[trace] Effects: "+strconv.Itoa(len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, "[trace]   "+e)
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, "[trace] Events: "+strconv.Itoa(len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range TraceLines(result) {
		c.printSystem(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
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
