package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// eventBuffer bounds queued callback events.
const eventBuffer = 16

// feed carries engine output into the update loop. States are coalesced so
// only the latest snapshot waits; callback events queue in order.
// Publishers never block.
type feed struct {
	states chan domain.AggregateState
	events chan tea.Msg
}

func newFeed() *feed {
	return &feed{
		states: make(chan domain.AggregateState, 1),
		events: make(chan tea.Msg, eventBuffer),
	}
}

// publish replaces any pending snapshot with state.
func (f *feed) publish(state domain.AggregateState) {
	for {
		select {
		case f.states <- state:
			return
		default:
		}
		select {
		case <-f.states:
		default:
		}
	}
}

// event queues msg, dropping it when the buffer is full.
func (f *feed) event(msg tea.Msg) {
	select {
	case f.events <- msg:
	default:
		logger.Warn("tui: dropped %T, event buffer full", msg)
	}
}

// listen waits for the next snapshot or event. Each delivered message must
// be followed by another listen.
func (f *feed) listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.events:
			return msg
		case state := <-f.states:
			return messages.StateChanged{State: state}
		case <-ctx.Done():
			return nil
		}
	}
}
