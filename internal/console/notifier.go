package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rezkam/newsdesk/internal/domain"
)

// viewChangedMsg delivers a controller view change to the model.
type viewChangedMsg struct {
	view domain.ViewState[domain.Item]
}

// Notifier bridges controller change callbacks into the bubbletea loop.
// Only the latest view is kept; a slow screen skips intermediate states.
type Notifier struct {
	ch chan domain.ViewState[domain.Item]
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan domain.ViewState[domain.Item], 1)}
}

// Notify never blocks. It is passed to listing.WithOnChange.
func (n *Notifier) Notify(view domain.ViewState[domain.Item]) {
	for {
		select {
		case n.ch <- view:
			return
		default:
		}
		select {
		case <-n.ch:
		default:
		}
	}
}

// listen blocks until the next view change.
func (n *Notifier) listen() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		return viewChangedMsg{view: <-n.ch}
	}
}
