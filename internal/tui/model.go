package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sunrise/internal/catalog"
	"sunrise/internal/engine"
	"sunrise/internal/storage"
	"sunrise/internal/ui"
)

const (
	maxNotices = 3
	tickEvery  = time.Second
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	dash     engine.Dashboard
	loaded   bool
	selected int

	lastLog string
	notices []string

	// timer counts down the selected timer task. Only a countdown that
	// reaches zero marks the task done.
	timer    *runningTimer
	timerSeq int
	now      func() time.Time
	tick     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

type runningTimer struct {
	seq      int
	task     engine.TaskStatus
	deadline time.Time
}

type timerTickMsg struct {
	seq int
	at  time.Time
}

type loadedMsg struct {
	dash engine.Dashboard
}

// eventMsg carries a service event into the update loop.
type eventMsg struct {
	event engine.Event
}

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		lastLog: "Loaded.",
		now:     time.Now,
		tick:    tea.Tick,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{dash: m.svc.Dashboard()}
	}
}

func (m boardModel) setProgressCmd(t engine.TaskStatus, p storage.Progress) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.UpdateTaskProgress(m.ctx, t.Task.ID, p)
		return actionMsg{log: fmt.Sprintf("%s: %s", t.Task.Description, p), err: err}
	}
}

func (m boardModel) tickCmd() tea.Cmd {
	seq := m.timer.seq
	return m.tick(tickEvery, func(at time.Time) tea.Msg {
		return timerTickMsg{seq: seq, at: at}
	})
}

// toggleTimer starts the countdown of t, or stops it if it is running.
// Finished timers stay finished.
func (m boardModel) toggleTimer(t engine.TaskStatus) (boardModel, tea.Cmd) {
	switch {
	case t.Progress.Done():
		m.lastLog = t.Task.Description + " is already done."
		return m, nil
	case m.timer != nil && m.timer.task.Task.ID == t.Task.ID:
		m.timer = nil
		m.lastLog = t.Task.Description + ": timer stopped."
		return m, nil
	}
	m.timerSeq++
	m.timer = &runningTimer{
		seq:      m.timerSeq,
		task:     t,
		deadline: m.now().Add(time.Duration(t.Task.Target * float64(time.Minute))),
	}
	m.lastLog = fmt.Sprintf("%s: timer started (%s).", t.Task.Description, formatRemaining(m.timer.deadline.Sub(m.now())))
	return m, m.tickCmd()
}

func formatRemaining(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}

func (m boardModel) levelUpCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.LevelUp(m.ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		switch {
		case res.Blocked != nil:
			return actionMsg{log: "Not yet: " + res.Blocked.Error()}
		case res.Final:
			return actionMsg{log: fmt.Sprintf("Level %d is the last level.", res.LevelAfter)}
		default:
			return actionMsg{log: fmt.Sprintf("Level up! %d → %d", res.LevelBefore, res.LevelAfter)}
		}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.dash = msg.dash
		m.loaded = true
		if m.selected >= len(m.dash.Tasks) {
			m.selected = max(len(m.dash.Tasks)-1, 0)
		}
		return m, nil
	case eventMsg:
		switch msg.event.Kind {
		case engine.EventAchievementUnlocked:
			m.notice(ui.IconTrophy + " Achievement unlocked: " + msg.event.Achievement.Name)
		case engine.EventPersistWarning:
			m.notice(ui.IconWarn + " Not saved: " + msg.event.Err.Error())
		}
		return m, nil
	case timerTickMsg:
		if m.timer == nil || msg.seq != m.timer.seq {
			return m, nil
		}
		if msg.at.Before(m.timer.deadline) {
			return m, m.tickCmd()
		}
		t := m.timer.task
		m.timer = nil
		return m, m.setProgressCmd(t, storage.Checked(true))
	case actionMsg:
		if msg.err != nil {
			m.lastLog = "Failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.dash.Tasks)-1 {
				m.selected++
			}
			return m, nil
		case "enter", " ", "x", "+", "=":
			t, ok := m.current()
			if !ok {
				return m, nil
			}
			switch t.Task.Type {
			case catalog.TaskNumber:
				return m, m.setProgressCmd(t, storage.Count(t.Progress.Value()+1))
			case catalog.TaskTimer:
				return m.toggleTimer(t)
			}
			return m, m.setProgressCmd(t, storage.Checked(!t.Progress.Done()))
		case "-":
			t, ok := m.current()
			if !ok || t.Task.Type != catalog.TaskNumber {
				return m, nil
			}
			return m, m.setProgressCmd(t, storage.Count(max(t.Progress.Value()-1, 0)))
		case "l":
			m.lastLog = "Checking in…"
			return m, m.levelUpCmd()
		}
	}
	return m, nil
}

func (m *boardModel) notice(s string) {
	m.notices = append(m.notices, s)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m boardModel) current() (engine.TaskStatus, bool) {
	if m.selected < 0 || m.selected >= len(m.dash.Tasks) {
		return engine.TaskStatus{}, false
	}
	return m.dash.Tasks[m.selected], true
}

func (m boardModel) View() string {
	if !m.loaded {
		return "Loading…"
	}

	sideW := 32
	if m.width > 0 {
		sideW = min(max(m.width/3, 24), 40)
	}
	side := ui.Panel.Width(sideW).Render(m.renderSidebar())
	main := ui.Panel.Render(m.renderMain())

	return m.renderHeader() + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, side, " ", main) + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	d := m.dash
	name := "beyond the last level"
	if d.Level != nil {
		name = d.Level.Name
	}
	header := fmt.Sprintf("%s | Level %d/%d %s | %s %d%% | check-in in %d days",
		ui.Title.Render(ui.IconSun+" Sunrise"), d.LevelNumber, d.MaxLevel, name,
		ui.ProgressBar(d.Progress, 20), d.Progress, d.DaysLeft)
	if d.CanLevelUp {
		header += " " + ui.BadgeLevelUp
	}
	return header
}

func (m boardModel) renderSidebar() string {
	d := m.dash
	lines := []string{ui.PanelTitle.Render("Paths")}
	for _, c := range d.Categories {
		if c.Total == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %-8s %s %3d%%", ui.CategoryIcon(c.Category), ui.CategoryTitle(c.Category), ui.ProgressBar(c.Percentage, 8), c.Percentage))
	}

	lines = append(lines, "", ui.PanelTitle.Render(ui.IconBook+" Reading"))
	switch {
	case d.Plan == nil:
		lines = append(lines, ui.Muted.Render("no plan selected"))
	case d.Book == nil:
		lines = append(lines, d.Plan.Name)
	default:
		lines = append(lines, d.Book.Title, fmt.Sprintf("p. %d/%d (%d%%)", d.BookPage, d.Book.Pages, d.BookPercent))
	}

	if d.Workout != nil {
		lines = append(lines, "", ui.PanelTitle.Render("Today"), d.Workout.Name, ui.Muted.Render(d.Workout.Duration))
	}

	lines = append(lines, "", fmt.Sprintf("%s %d/%d achievements", ui.IconTrophy, d.Earned, len(d.Achievements)))
	if len(d.Goals) > 0 {
		lines = append(lines, fmt.Sprintf("%s %d%% saved", ui.IconMoney, d.Finance.Percentage))
	}

	lines = append(lines, "", ui.PanelTitle.Render("Keys"),
		"↑/↓ or j/k  move",
		"space/x     toggle, +1 or timer",
		"-           counter -1",
		"l           level up",
		"r           refresh",
		"q           quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if len(m.dash.Tasks) == 0 {
		return ui.Muted.Render("(no tasks on this level)")
	}
	var out []string
	var current catalog.Category
	for i, t := range m.dash.Tasks {
		if t.Category != current {
			if current != "" {
				out = append(out, "")
			}
			current = t.Category
			out = append(out, ui.PanelTitle.Render(ui.CategoryIcon(current)+" "+ui.CategoryTitle(current)))
		}
		line := fmt.Sprintf("%s %s %s", ui.DoneMark(t.Complete), ui.TaskTypeIcon(t.Task.Type), t.Task.Description)
		if t.Task.Type == catalog.TaskNumber {
			line += fmt.Sprintf(" %s/%s", ui.FormatNumber(t.Progress.Value()), ui.FormatNumber(t.Task.Target))
		}
		if m.timer != nil && m.timer.task.Task.ID == t.Task.ID {
			line += " " + ui.Warn.Render(formatRemaining(m.timer.deadline.Sub(m.now())))
		}
		if i == m.selected {
			out = append(out, ui.SelectedRow.Render("> "+line))
		} else {
			out = append(out, "  "+line)
		}
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	lines := append([]string{}, m.notices...)
	lines = append(lines, ui.Muted.Render(m.lastLog))
	return strings.Join(lines, "\n")
}
