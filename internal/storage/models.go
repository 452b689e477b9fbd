package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ProgressKind tags which variant a Progress value holds.
type ProgressKind uint8

const (
	ProgressUnset ProgressKind = iota
	ProgressChecked
	ProgressCount
)

func (k ProgressKind) String() string {
	switch k {
	case ProgressChecked:
		return "checked"
	case ProgressCount:
		return "count"
	default:
		return "unset"
	}
}

// Progress is the recorded state of one task: either a checked flag
// (checkbox and timer tasks) or a numeric count. On disk it is a bare JSON
// bool or number.
type Progress struct {
	kind  ProgressKind
	done  bool
	count float64
}

func Checked(done bool) Progress { return Progress{kind: ProgressChecked, done: done} }

func Count(n float64) Progress { return Progress{kind: ProgressCount, count: n} }

func (p Progress) Kind() ProgressKind { return p.kind }

// Done reports the checked flag; always false for counts.
func (p Progress) Done() bool { return p.kind == ProgressChecked && p.done }

// Value reports the count; always 0 for checked progress.
func (p Progress) Value() float64 {
	if p.kind != ProgressCount {
		return 0
	}
	return p.count
}

func (p Progress) String() string {
	switch p.kind {
	case ProgressChecked:
		return fmt.Sprintf("%t", p.done)
	case ProgressCount:
		return fmt.Sprintf("%g", p.count)
	default:
		return "-"
	}
}

func (p Progress) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case ProgressChecked:
		return json.Marshal(p.done)
	case ProgressCount:
		return json.Marshal(p.count)
	default:
		return []byte("null"), nil
	}
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*p = Checked(true)
	case bytes.Equal(data, []byte("false")):
		*p = Checked(false)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("progress: want bool or number, got %s", data)
		}
		*p = Count(n)
	}
	return nil
}

// Book is a user-added book tracked outside any reading plan.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"currentPage"`
	Content     string `json:"content,omitempty"`
}

type FinancialGoal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}

type NotificationSetting struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// Snapshot is the whole persisted user state.
type Snapshot struct {
	IsInitiated          bool                           `json:"isInitiated"`
	StartDate            int64                          `json:"startDate"`
	CurrentLevel         int                            `json:"currentLevel"`
	TaskProgress         map[string]Progress            `json:"taskProgress"`
	ReadingPlanID        string                         `json:"readingPlanId,omitempty"`
	CurrentBookIndex     int                            `json:"currentBookIndex"`
	CurrentBookPage      int                            `json:"currentBookPage"`
	Achievements         []string                       `json:"achievements"`
	WimHofVideo          string                         `json:"wimHofVideo,omitempty"`
	CustomBooks          []Book                         `json:"customBooks"`
	NotificationSettings map[string]NotificationSetting `json:"notificationSettings"`
	PlanBookContent      map[string]string              `json:"planBookContent"`
	CumulativeStats      map[string]float64             `json:"cumulativeStats"`
	FinancialGoals       []FinancialGoal                `json:"financialGoals"`
}

// Notification categories known out of the box.
const (
	NotifyWakeUp     = "wakeUp"
	NotifyWorkout    = "workout"
	NotifyReading    = "reading"
	NotifyReflection = "reflection"
)

func DefaultNotificationSettings() map[string]NotificationSetting {
	return map[string]NotificationSetting{
		NotifyWakeUp:     {Time: "06:00"},
		NotifyWorkout:    {Time: "07:00"},
		NotifyReading:    {Time: "21:00"},
		NotifyReflection: {Time: "22:00"},
	}
}

// DefaultSnapshot is the first-run state.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		CurrentLevel:         1,
		TaskProgress:         map[string]Progress{},
		Achievements:         []string{},
		CustomBooks:          []Book{},
		NotificationSettings: DefaultNotificationSettings(),
		PlanBookContent:      map[string]string{},
		CumulativeStats:      map[string]float64{},
		FinancialGoals:       []FinancialGoal{},
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.TaskProgress = maps.Clone(s.TaskProgress)
	out.Achievements = slices.Clone(s.Achievements)
	out.CustomBooks = slices.Clone(s.CustomBooks)
	out.NotificationSettings = maps.Clone(s.NotificationSettings)
	out.PlanBookContent = maps.Clone(s.PlanBookContent)
	out.CumulativeStats = maps.Clone(s.CumulativeStats)
	out.FinancialGoals = slices.Clone(s.FinancialGoals)
	out.normalize()
	return &out
}

func (s *Snapshot) HasAchievement(id string) bool {
	return slices.Contains(s.Achievements, id)
}

// BlobRefs lists every blob the snapshot points at.
func (s *Snapshot) BlobRefs() []string {
	var refs []string
	if s.WimHofVideo != "" {
		refs = append(refs, s.WimHofVideo)
	}
	for _, ref := range s.PlanBookContent {
		refs = append(refs, ref)
	}
	for _, b := range s.CustomBooks {
		if b.Content != "" {
			refs = append(refs, b.Content)
		}
	}
	slices.Sort(refs)
	return slices.Compact(refs)
}

func (s *Snapshot) Book(id string) (*Book, bool) {
	for i := range s.CustomBooks {
		if s.CustomBooks[i].ID == id {
			return &s.CustomBooks[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Goal(id string) (*FinancialGoal, bool) {
	for i := range s.FinancialGoals {
		if s.FinancialGoals[i].ID == id {
			return &s.FinancialGoals[i], true
		}
	}
	return nil, false
}
