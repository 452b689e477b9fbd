package catalog

import (
	"fmt"
	"strings"
	"time"
)

type TaskType string

const (
	TaskCheckbox TaskType = "CHECKBOX"
	TaskNumber   TaskType = "NUMBER"
	TaskTimer    TaskType = "TIMER"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskCheckbox, TaskNumber, TaskTimer:
		return true
	default:
		return false
	}
}

// Category is one of the path groupings a level's tasks are split into.
type Category string

const (
	CategoryPhysics Category = "physics"
	CategoryMind    Category = "mind"
	CategorySpirit  Category = "spirit"
	CategorySkills  Category = "skills"
	CategoryExtra   Category = "extra"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPhysics, CategoryMind, CategorySpirit, CategorySkills, CategoryExtra}

// ParseCategory accepts the category name or a few path aliases.
func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "physics", "body", "workout":
		return CategoryPhysics, nil
	case "mind", "reading":
		return CategoryMind, nil
	case "spirit":
		return CategorySpirit, nil
	case "skills":
		return CategorySkills, nil
	case "extra", "challenges":
		return CategoryExtra, nil
	default:
		return "", fmt.Errorf("invalid category: %q", input)
	}
}

type Task struct {
	ID          string   `yaml:"id" json:"id"`
	Description string   `yaml:"description" json:"description"`
	Target      float64  `yaml:"target" json:"target"`
	Type        TaskType `yaml:"type" json:"type"`
	StatID      string   `yaml:"statId,omitempty" json:"statId,omitempty"`
}

type LevelTasks struct {
	Physics []Task `yaml:"physics,omitempty" json:"physics,omitempty"`
	Mind    []Task `yaml:"mind,omitempty" json:"mind,omitempty"`
	Spirit  []Task `yaml:"spirit,omitempty" json:"spirit,omitempty"`
	Skills  []Task `yaml:"skills,omitempty" json:"skills,omitempty"`
	Extra   []Task `yaml:"extra,omitempty" json:"extra,omitempty"`
}

func (lt LevelTasks) ByCategory(c Category) []Task {
	switch c {
	case CategoryPhysics:
		return lt.Physics
	case CategoryMind:
		return lt.Mind
	case CategorySpirit:
		return lt.Spirit
	case CategorySkills:
		return lt.Skills
	case CategoryExtra:
		return lt.Extra
	default:
		return nil
	}
}

// All flattens every category into one list, in category order.
func (lt LevelTasks) All() []Task {
	var out []Task
	for _, c := range Categories {
		out = append(out, lt.ByCategory(c)...)
	}
	return out
}

type Level struct {
	Number int        `yaml:"level" json:"level"`
	Name   string     `yaml:"name" json:"name"`
	Tasks  LevelTasks `yaml:"tasks" json:"tasks"`
}

// Task finds a task of this level by id.
func (l *Level) Task(id string) (Task, bool) {
	for _, t := range l.Tasks.All() {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

type Book struct {
	Title  string `yaml:"title" json:"title"`
	Author string `yaml:"author" json:"author"`
	Pages  int    `yaml:"pages" json:"pages"`
}

type ReadingPlan struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	DailyGoal   int    `yaml:"dailyGoal" json:"dailyGoal"`
	Books       []Book `yaml:"books" json:"books"`
}

// TotalPages sums the page counts of every book in the plan.
func (p *ReadingPlan) TotalPages() int {
	total := 0
	for _, b := range p.Books {
		total += b.Pages
	}
	return total
}

// Achievement is either a one-off badge granted by a command, a stat
// threshold (StatID + Threshold) or a level milestone (Level).
type Achievement struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	StatID      string  `yaml:"statId,omitempty" json:"statId,omitempty"`
	Threshold   float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Level       int     `yaml:"level,omitempty" json:"level,omitempty"`
}

func (a Achievement) IsStatBased() bool  { return a.StatID != "" && a.Threshold > 0 }
func (a Achievement) IsLevelBased() bool { return a.Level > 0 }

type Exercise struct {
	Name string `yaml:"name" json:"name"`
	Sets string `yaml:"sets" json:"sets"`
}

type Workout struct {
	Weekday   int        `yaml:"weekday" json:"weekday"`
	Day       string     `yaml:"day" json:"day"`
	Name      string     `yaml:"name" json:"name"`
	Duration  string     `yaml:"duration" json:"duration"`
	Exercises []Exercise `yaml:"exercises" json:"exercises"`
}

type Message struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

// Catalog is the static, read-only configuration the engine runs against.
type Catalog struct {
	Levels        []Level            `yaml:"levels" json:"levels"`
	ReadingPlans  []ReadingPlan      `yaml:"readingPlans" json:"readingPlans"`
	Achievements  []Achievement      `yaml:"achievements" json:"achievements"`
	Workouts      []Workout          `yaml:"workouts" json:"workouts"`
	Notifications map[string]Message `yaml:"notifications,omitempty" json:"notifications,omitempty"`
}

func (c *Catalog) Level(n int) (*Level, bool) {
	for i := range c.Levels {
		if c.Levels[i].Number == n {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Plan(id string) (*ReadingPlan, bool) {
	for i := range c.ReadingPlans {
		if c.ReadingPlans[i].ID == id {
			return &c.ReadingPlans[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Achievement(id string) (Achievement, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func (c *Catalog) WorkoutFor(day time.Weekday) (Workout, bool) {
	for _, w := range c.Workouts {
		if w.Weekday == int(day) {
			return w, true
		}
	}
	return Workout{}, false
}

func (c *Catalog) Message(category string) (Message, bool) {
	m, ok := c.Notifications[category]
	return m, ok
}

// MaxLevel returns the highest level number, or 0 for an empty catalog.
func (c *Catalog) MaxLevel() int {
	max := 0
	for _, l := range c.Levels {
		if l.Number > max {
			max = l.Number
		}
	}
	return max
}
