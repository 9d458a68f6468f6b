package prompt

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	hintStyle = lipgloss.NewStyle().
			Faint(true)
)

// renderQuestion formats a question for the operator's terminal with a
// hint showing how long they have to answer.
func renderQuestion(question string, timeout time.Duration) string {
	hint := fmt.Sprintf("(%.0fs to answer)", timeout.Seconds())
	return questionStyle.Render("? "+question) + " " + hintStyle.Render(hint)
}
