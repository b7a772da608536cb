package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizterm/internal/ui/theme"
)

// OptionList renders one question's options with a movement cursor and
// the candidate's current response. Single-answer questions show radio
// marks, multiple-answer questions show checkboxes. The list never
// knows which option is correct; it only mirrors the ledger.
type OptionList struct {
	Prompt  string
	Options []string
	Multi   bool
	Cursor  int
	Chosen  map[int]bool
}

// NewOptionList creates an OptionList for the given question content.
func NewOptionList(prompt string, options []string, multi bool) OptionList {
	return OptionList{
		Prompt:  prompt,
		Options: options,
		Multi:   multi,
		Chosen:  map[int]bool{},
	}
}

// Update handles cursor movement. Selection itself is owned by the
// quiz screen, which routes it through the state machine.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	}

	return o, nil
}

// View renders the prompt and options. Option labels are 1-based for
// display; indices stay 0-based everywhere else.
func (o OptionList) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := promptStyle.Render(o.Prompt) + "\n\n"

	for i, opt := range o.Options {
		mark := "( )"
		if o.Multi {
			mark = "[ ]"
		}
		if o.Chosen[i] {
			if o.Multi {
				mark = "[x]"
			} else {
				mark = "(•)"
			}
		}

		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		switch {
		case i == o.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case o.Chosen[i]:
			s += theme.Answered.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
