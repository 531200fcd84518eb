package services

import (
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// Flatten concatenates the items of the categories in view, in declared
// category order.
func Flatten(state domain.AggregateState, view domain.Category) []domain.Item {
	var out []domain.Item
	for _, st := range state.Ordered(domain.ViewCategories(view)) {
		out = append(out, st.Items...)
	}
	return out
}

// Navigator keeps the highlighted position of the flattened result list in
// step with the aggregate state and maps navigation keys to callbacks.
type Navigator struct {
	mu          sync.Mutex
	open        bool
	items       []domain.Item
	highlighted int
	identity    string

	onSelect func(domain.Item)
	onClose  func()
}

// NewNavigator creates a closed navigator. Either callback may be nil.
func NewNavigator(onSelect func(domain.Item), onClose func()) *Navigator {
	return &Navigator{onSelect: onSelect, onClose: onClose}
}

// Open makes key handling active.
func (n *Navigator) Open() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = true
}

// Close makes key handling inert.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = false
}

// IsOpen reports whether keys are handled.
func (n *Navigator) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}

// Sync recomputes the flattened list. The highlight returns to 0 when the
// list identity changed (new search, category switch, page append) and is
// clamped into range otherwise.
func (n *Navigator) Sync(state domain.AggregateState, view domain.Category) {
	items := Flatten(state, view)
	identity := listIdentity(state, view)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = items
	if identity != n.identity {
		n.identity = identity
		n.highlighted = 0
	}
	n.clamp()
}

// Reset empties the list and zeroes the highlight.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
	n.identity = ""
	n.highlighted = 0
}

// Items returns a copy of the flattened list.
func (n *Navigator) Items() []domain.Item {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Item(nil), n.items...)
}

// Highlighted returns the highlighted index.
func (n *Navigator) Highlighted() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.highlighted
}

// Current returns the highlighted item, if any.
func (n *Navigator) Current() (domain.Item, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.highlighted < 0 || n.highlighted >= len(n.items) {
		return domain.Item{}, false
	}
	return n.items[n.highlighted], true
}

// HandleKey applies a navigation key. It reports whether the key was
// consumed; every key is ignored while the navigator is closed.
// Callbacks run without the lock held.
func (n *Navigator) HandleKey(key domain.Key) bool {
	n.mu.Lock()
	if !n.open {
		n.mu.Unlock()
		return false
	}

	switch key {
	case domain.KeyUp:
		n.highlighted--
		n.clamp()
		n.mu.Unlock()
		return true

	case domain.KeyDown:
		n.highlighted++
		n.clamp()
		n.mu.Unlock()
		return true

	case domain.KeyEnter:
		var (
			item domain.Item
			ok   bool
		)
		if n.highlighted >= 0 && n.highlighted < len(n.items) {
			item, ok = n.items[n.highlighted], true
		}
		onSelect := n.onSelect
		n.mu.Unlock()
		if ok && onSelect != nil {
			onSelect(item)
		}
		return ok

	case domain.KeyEscape:
		onClose := n.onClose
		n.mu.Unlock()
		if onClose != nil {
			onClose()
		}
		return true

	default:
		n.mu.Unlock()
		return false
	}
}

// clamp keeps highlighted in [0, len-1], or 0 when empty. Caller must hold mu.
func (n *Navigator) clamp() {
	if n.highlighted >= len(n.items) {
		n.highlighted = len(n.items) - 1
	}
	if n.highlighted < 0 {
		n.highlighted = 0
	}
}

// listIdentity fingerprints the visible lists: the view plus, per category,
// the query, length and first item.
func listIdentity(state domain.AggregateState, view domain.Category) string {
	var b strings.Builder
	b.WriteString(string(view))
	for _, st := range state.Ordered(domain.ViewCategories(view)) {
		b.WriteByte('|')
		b.WriteString(string(st.Category))
		b.WriteByte(':')
		b.WriteString(st.Query)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(st.Items)))
		if len(st.Items) > 0 {
			b.WriteByte(':')
			b.WriteString(st.Items[0].ID)
		}
	}
	return b.String()
}
