package components

import "charm.land/bubbles/v2/key"

// ChoiceKeys are the bindings a multiple-choice question responds to.
type ChoiceKeys struct {
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Pick   [4]key.Binding
}

// DefaultChoiceKeys returns arrows/vim movement, enter to submit and
// a–d or 1–4 to answer directly.
func DefaultChoiceKeys() ChoiceKeys {
	return ChoiceKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		Pick: [4]key.Binding{
			key.NewBinding(key.WithKeys("a", "1"), key.WithHelp("a-d", "pick")),
			key.NewBinding(key.WithKeys("b", "2")),
			key.NewBinding(key.WithKeys("c", "3")),
			key.NewBinding(key.WithKeys("d", "4")),
		},
	}
}
