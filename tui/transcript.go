package tui

import (
	"strings"

	"github.com/nathoo/fieldmed/cli"
	"github.com/nathoo/fieldmed/types"
)

// entry is one unstyled transcript line. Styling waits until render so a
// resize can re-wrap everything.
type entry struct {
	text string
	tone tone
}

// transcript is the scrollback: echoed commands, engine narration and
// meta-command replies.
type transcript struct {
	entries []entry
}

func (t *transcript) echo(input string) {
	t.entries = append(t.entries, entry{text: "> " + input, tone: toneEcho})
}

// result adds an engine step. Narrated days and combats are coloured by
// their events; everything else is plain.
func (t *transcript) result(r types.Result, trace bool) {
	if len(r.Lines) > 0 {
		for _, l := range r.Lines {
			t.entries = append(t.entries, entry{text: l.Text, tone: lineTone(l)})
		}
	} else {
		t.add(tonePlain, r.Output...)
	}
	if trace {
		t.add(toneTrace, cli.TraceLines(r)...)
	}
	t.gap()
}

// system adds meta-command replies in brackets.
func (t *transcript) system(lines ...string) {
	for _, l := range lines {
		if l != "" {
			l = "[" + l + "]"
		}
		t.entries = append(t.entries, entry{text: l, tone: toneSystem})
	}
	t.gap()
}

func (t *transcript) add(tn tone, lines ...string) {
	for _, l := range lines {
		t.entries = append(t.entries, entry{text: l, tone: tn})
	}
}

func (t *transcript) gap() {
	t.entries = append(t.entries, entry{})
}

// render styles and wraps every entry to width.
func (t *transcript) render(width int) string {
	width = max(width, 10)
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		if e.text == "" {
			continue
		}
		out[i] = toneStyles[e.tone].Width(width).Render(e.text)
	}
	return strings.Join(out, "\n")
}
