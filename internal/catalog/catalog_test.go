package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Equal(t, 3, c.MaxLevel())
	l1, ok := c.Level(1)
	require.True(t, ok)
	assert.Len(t, l1.Tasks.All(), 7)

	s1, ok := l1.Task("l1_s1")
	require.True(t, ok)
	assert.Equal(t, TaskTimer, s1.Type)
	assert.Equal(t, 3.0, s1.Target)
	assert.Equal(t, "meditationMinutes", s1.StatID)

	plan, ok := c.Plan("philosopher_king")
	require.True(t, ok)
	assert.Equal(t, 22, plan.DailyGoal)
	assert.Len(t, plan.Books, 9)
	assert.Equal(t, 240, plan.Books[0].Pages)
	assert.Equal(t, 1950, plan.TotalPages())

	lvl2, ok := c.Achievement("LEVEL_2")
	require.True(t, ok)
	assert.True(t, lvl2.IsLevelBased())
	push, ok := c.Achievement("PUSHUPS_500")
	require.True(t, ok)
	assert.True(t, push.IsStatBased())

	for d := time.Sunday; d <= time.Saturday; d++ {
		_, ok := c.WorkoutFor(d)
		assert.True(t, ok, "workout for %s", d)
	}

	for _, key := range []string{"wakeUp", "workout", "reading", "reflection"} {
		_, ok := c.Message(key)
		assert.True(t, ok, key)
	}
}

func TestParseRejectsLevelGap(t *testing.T) {
	_, err := Parse([]byte(`
levels:
  - level: 1
    name: One
    tasks: {}
  - level: 3
    name: Three
    tasks: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without gaps")
}

func TestParseSortsLevels(t *testing.T) {
	c, err := Parse([]byte(`
levels:
  - level: 2
    name: Two
    tasks: {}
  - level: 1
    name: One
    tasks: {}
`))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Levels[0].Number)
	assert.Equal(t, 2, c.Levels[1].Number)
}

func TestParseRejectsBadTaskType(t *testing.T) {
	_, err := Parse([]byte(`
levels:
  - level: 1
    name: One
    tasks:
      physics:
        - {id: a, description: x, target: 1, type: SLIDER}
`))
	require.Error(t, err)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
levels:
  - level: 1
    name: One
    tasks:
      physics:
        - {id: a, description: x, target: 1, type: CHECKBOX}
      mind:
        - {id: a, description: y, target: 1, type: CHECKBOX}
achievements:
  - {id: X, name: X, description: x, statId: pushups}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate task id "a"`)
	assert.Contains(t, err.Error(), `achievement "X" needs both`)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
levels:
  - level: 1
    name: Only
    tasks:
      extra:
        - {id: e, description: run, target: 10, type: TIMER}
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.MaxLevel())
	_, ok := c.WorkoutFor(time.Monday)
	assert.False(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Challenges ")
	require.NoError(t, err)
	assert.Equal(t, CategoryExtra, c)

	_, err = ParseCategory("finance")
	require.Error(t, err)
}
