package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sunrise/internal/catalog"
)

// Sunrise theme (CLI + TUI).

const (
	IconSun     = "🌅"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconTrophy  = "🏆"
	IconLock    = "🔒"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconBook    = "📖"
	IconMoney   = "💰"
	IconBell    = "🔔"
	IconTimer   = "⏱️"
	IconCount   = "🔢"
	IconVideo   = "🎬"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("208") // sunrise orange
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func CategoryIcon(c catalog.Category) string {
	switch c {
	case catalog.CategoryPhysics:
		return "💪"
	case catalog.CategoryMind:
		return "🧠"
	case catalog.CategorySpirit:
		return "🧘"
	case catalog.CategorySkills:
		return "🛠️"
	case catalog.CategoryExtra:
		return "🔥"
	default:
		return "•"
	}
}

func CategoryTitle(c catalog.Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func TaskTypeIcon(t catalog.TaskType) string {
	switch t {
	case catalog.TaskTimer:
		return IconTimer
	case catalog.TaskNumber:
		return IconCount
	default:
		return IconTodo
	}
}

// DoneMark renders the completion marker of a task or achievement row.
func DoneMark(done bool) string {
	if done {
		return IconDone
	}
	return IconTodo
}

// Percent colors a percentage against a threshold.
func Percent(p int, threshold int) string {
	s := fmt.Sprintf("%d%%", p)
	switch {
	case p >= 100:
		return Gold.Render(s)
	case p >= threshold:
		return Good.Render(s)
	case p >= threshold/2:
		return Warn.Render(s)
	default:
		return Bad.Render(s)
	}
}

// ProgressBar draws a fixed-width bar for a 0..100 percentage.
func ProgressBar(percent int, width int) string {
	if width <= 3 {
		width = 3
	}
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return "[" + Good.Render(strings.Repeat("#", filled)) + Muted.Render(strings.Repeat("-", width-filled)) + "]"
}

// FormatNumber prints whole numbers without a fraction.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
