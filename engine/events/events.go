// Package events implements single-pass event handler dispatch.
// Handlers announce events; they never emit further events.
package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/fieldmed/types"
)

// Dispatch runs handlers against the emitted events in a single pass and
// returns the announcement lines of every match, in event order.
func Dispatch(events []types.Event, handlers []types.EventHandler) []string {
	var result []string

	for _, event := range events {
		for _, handler := range handlers {
			if handler.EventType != event.Type || handler.Say == "" {
				continue
			}
			result = append(result, Render(handler.Say, event))
		}
	}

	return result
}

// Render fills {key} placeholders in text from the event's data. Unknown
// placeholders are left as written.
func Render(text string, event types.Event) string {
	if len(event.Data) == 0 {
		return text
	}
	keys := make([]string, 0, len(event.Data))
	for k := range event.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(event.Data[k]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
