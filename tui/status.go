package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar draws the bottom bar: campaign and day on the left,
// the roster tallies on the right, shortened when space runs out.
func (m Model) renderStatusBar() string {
	s := m.roster
	left := fmt.Sprintf(" %s | Day %d", m.defs.Campaign.Title, s.day)
	right := fmt.Sprintf("Patients: %d (%d untreated) | Doctors: %d | KIA: %d ",
		len(s.patients), s.untreated, len(s.doctors), s.dead)
	if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
		right = fmt.Sprintf("P:%d U:%d Dr:%d KIA:%d ", len(s.patients), s.untreated, len(s.doctors), s.dead)
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
