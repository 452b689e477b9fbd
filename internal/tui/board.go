package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"sunrise/internal/engine"
)

// RunBoard runs the dashboard until the user quits. Service events reach the
// model as messages, in order, once the program is running.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))

	done := make(chan struct{})
	defer close(done)
	events := make(chan engine.Event, 64)
	defer svc.Subscribe(func(e engine.Event) {
		select {
		case events <- e:
		case <-done:
		}
	})()
	go func() {
		for {
			select {
			case e := <-events:
				p.Send(eventMsg{event: e})
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}
