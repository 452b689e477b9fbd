package notify

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, running due timers in order. Callbacks run
// without the clock lock held.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at.Before(c.timers[j].at) })
		var due *fakeTimer
		for i, t := range c.timers {
			if t.stopped {
				continue
			}
			if t.at.After(end) {
				break
			}
			due = t
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
		if due == nil {
			c.now = end
			c.mu.Unlock()
			return
		}
		c.now = due.at
		due.stopped = true
		c.mu.Unlock()
		due.f()
	}
}

type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) categories() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.got {
		out = append(out, n.Category)
	}
	return out
}

type messages map[string]catalog.Message

func (m messages) Message(category string) (catalog.Message, bool) {
	msg, ok := m[category]
	return msg, ok
}

var testMessages = messages{
	"wakeUp":  {Title: "Rise", Body: "up"},
	"workout": {Title: "Train", Body: "now"},
	"reading": {Title: "Read", Body: "pages"},
}

func newTestScheduler(now time.Time, opts ...Option) (*Scheduler, *fakeClock, *recorder) {
	clock := &fakeClock{now: now}
	rec := &recorder{}
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewScheduler(testMessages, rec, opts...), clock, rec
}

func TestNextFire(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	now := time.Date(2026, 3, 10, 6, 30, 0, 0, loc)

	at, err := NextFire(now, "07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 7, 0, 0, 0, loc), at)

	at, err = NextFire(now, "06:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 6, 0, 0, 0, loc), at)

	at, err = NextFire(now, "06:30")
	require.NoError(t, err)
	assert.Equal(t, now, at)

	_, err = NextFire(now, "25:00")
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("6:05")
	require.NoError(t, err)
	assert.Equal(t, 6, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "0600", "06:60", "aa:00", "06:0", "-1:00"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyArmsEnabledCategories(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC)
	s, clock, rec := newTestScheduler(now)

	s.Apply(map[string]storage.NotificationSetting{
		"wakeUp":  {Enabled: true, Time: "06:00"},
		"workout": {Enabled: true, Time: "07:00"},
		"reading": {Enabled: false, Time: "21:00"},
		"broken":  {Enabled: true, Time: "later"},
	})

	next := s.Next()
	require.Len(t, next, 2)
	assert.Equal(t, "workout", next[0].Category)
	assert.Equal(t, now.Add(30*time.Minute), next[0].At)
	assert.Equal(t, "wakeUp", next[1].Category)
	assert.Equal(t, now.Add(23*time.Hour+30*time.Minute), next[1].At)

	clock.Advance(time.Hour)
	assert.Equal(t, []string{"workout"}, rec.categories())
	assert.Equal(t, "Train", rec.got[0].Title)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, []string{"workout", "wakeUp"}, rec.categories())
	assert.Empty(t, s.Next())
}

func TestApplyCancelsStaleTimers(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	s, clock, rec := newTestScheduler(now)

	s.Apply(map[string]storage.NotificationSetting{"workout": {Enabled: true, Time: "07:00"}})
	s.Apply(map[string]storage.NotificationSetting{"workout": {Enabled: true, Time: "08:00"}})
	s.Apply(map[string]storage.NotificationSetting{
		"workout": {Enabled: false, Time: "08:00"},
		"reading": {Enabled: true, Time: "09:00"},
	})

	clock.Advance(4 * time.Hour)
	assert.Equal(t, []string{"reading"}, rec.categories())
}

func TestStopCancelsEverything(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	s, clock, rec := newTestScheduler(now)

	s.Apply(map[string]storage.NotificationSetting{"workout": {Enabled: true, Time: "07:00"}})
	s.Stop()
	clock.Advance(48 * time.Hour)
	assert.Empty(t, rec.categories())
	assert.Empty(t, s.Next())
}

func TestDailyRepeat(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	s, clock, rec := newTestScheduler(now, WithDailyRepeat())

	s.Apply(map[string]storage.NotificationSetting{"workout": {Enabled: true, Time: "07:00"}})
	clock.Advance(3*24*time.Hour + time.Hour)

	assert.Equal(t, []string{"workout", "workout", "workout", "workout"}, rec.categories())
	next := s.Next()
	require.Len(t, next, 1)
	assert.Equal(t, time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC), next[0].At)
}

func TestFireWithoutMessageIsSilent(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	s, clock, rec := newTestScheduler(now)

	s.Apply(map[string]storage.NotificationSetting{"reflection": {Enabled: true, Time: "06:30"}})
	clock.Advance(time.Hour)
	assert.Empty(t, rec.categories())
	assert.Empty(t, s.Next())
}
