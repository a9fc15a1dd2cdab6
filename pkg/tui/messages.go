package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/taxo-terminal/pkg/state"
)

// StateChangedMsg carries a committed store change into the update loop
type StateChangedMsg struct {
	Change state.Change
}

// LocaleChangedMsg reports a changed file in the locale override directory
type LocaleChangedMsg struct {
	Path string
}

// waitForStateChange blocks until the store publishes a change or done closes
func waitForStateChange(changes <-chan state.Change, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case change := <-changes:
			return StateChangedMsg{Change: change}
		case <-done:
			return nil
		}
	}
}

// waitForLocaleChange blocks until the watcher reports a locale file
func waitForLocaleChange(changes <-chan string, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			return LocaleChangedMsg{Path: path}
		case <-done:
			return nil
		}
	}
}
