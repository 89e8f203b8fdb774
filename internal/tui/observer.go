package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/nomnom/internal/store"
)

// ChannelNotifier adapts domain.Notifier to a channel for Bubble Tea.
type ChannelNotifier struct {
	ch chan string
}

// NewChannelNotifier creates a notifier buffering up to size messages
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan string, size)}
}

// Notify sends the message to the channel (non-blocking if full).
func (n *ChannelNotifier) Notify(message string) {
	select {
	case n.ch <- message:
	default: // Non-blocking if channel full
	}
}

// C returns the receive side
func (n *ChannelNotifier) C() <-chan string {
	return n.ch
}

// WaitForNotificationCmd blocks until the next notification
func WaitForNotificationCmd(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Message: msg}
	}
}

// WaitForRecipesCmd blocks until the store publishes the next snapshot
func WaitForRecipesCmd(sub *store.Subscription) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub.C()
		if !ok {
			return nil
		}
		return RecipesChangedMsg{Recipes: snap}
	}
}
