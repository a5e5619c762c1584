package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/wrkout/internal/app"
)

// RunSessionTUI runs the session screen for the service's bound session.
// Terminal focus changes and ctrl+z map onto background/foreground.
func RunSessionTUI(svc *app.Service, ticks <-chan time.Duration) error {
	model := NewSessionModel(svc, ticks)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(SessionModel); ok {
		if m.err != nil && m.exit != exitSubmitted {
			fmt.Printf("❌ Error: %v\n", m.err)
		}
		if summary := m.summary(); summary != "" {
			fmt.Println(summary)
		}
	}

	return nil
}
