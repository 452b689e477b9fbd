package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDefaultSnapshotGolden(t *testing.T) {
	data, err := json.MarshalIndent(DefaultSnapshot(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_snapshot", append(data, '\n'))
}

func populatedSnapshot() *Snapshot {
	s := DefaultSnapshot()
	s.IsInitiated = true
	s.StartDate = 1_712_000_000_000
	s.CurrentLevel = 2
	s.TaskProgress["l2_workout"] = Checked(true)
	s.TaskProgress["l2_s1"] = Checked(false)
	s.TaskProgress["pushups"] = Count(42)
	s.ReadingPlanID = "mind_explorer"
	s.CurrentBookIndex = 3
	s.CurrentBookPage = 17
	s.Achievements = []string{"FIRST_STEP", "LEVEL_2"}
	s.WimHofVideo = BlobRef([]byte("video"))
	s.CustomBooks = []Book{{ID: "b1", Title: "Meditations", Author: "Marcus Aurelius", Pages: 250, CurrentPage: 12, Content: BlobRef([]byte("pdf"))}}
	s.NotificationSettings[NotifyWorkout] = NotificationSetting{Enabled: true, Time: "07:30"}
	s.PlanBookContent["Dune"] = BlobRef([]byte("dune"))
	s.CumulativeStats["pushups"] = 150
	s.FinancialGoals = []FinancialGoal{{ID: "g1", Name: "Bike", Target: 500, Current: 120.5}}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := populatedSnapshot()
	data, err := Encode(s)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeLegacyAndMissingFields(t *testing.T) {
	got, err := Decode([]byte(`{
		"isInitiated": true,
		"startDate": 1700000000000,
		"currentLevel": 3,
		"taskProgress": {"l3_k1": true, "l3_e1": "half", "x": 4},
		"achievements": ["FIRST_STEP", "FIRST_STEP", "LEVEL_2"],
		"journal": "dear diary",
		"financialGoals": [{"id": "g", "name": "Car", "target": 100, "current": 250}]
	}`))
	require.NoError(t, err)

	assert.True(t, got.IsInitiated)
	assert.Equal(t, 3, got.CurrentLevel)
	assert.Equal(t, map[string]Progress{"l3_k1": Checked(true), "x": Count(4)}, got.TaskProgress)
	assert.Equal(t, []string{"FIRST_STEP", "LEVEL_2"}, got.Achievements)
	assert.Equal(t, 100.0, got.FinancialGoals[0].Current)

	// absent fields take their defaults
	assert.Equal(t, 0, got.CurrentBookIndex)
	assert.Empty(t, got.CustomBooks)
	assert.NotNil(t, got.PlanBookContent)
	assert.Equal(t, DefaultNotificationSettings(), got.NotificationSettings)

	data, err := Encode(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "journal")
}

func TestDecodeIllTypedFieldKeepsDefault(t *testing.T) {
	got, err := Decode([]byte(`{"currentLevel": "two", "cumulativeStats": {"pushups": 10}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentLevel)
	assert.Equal(t, 10.0, got.CumulativeStats["pushups"])
}

func TestDecodeCorrupt(t *testing.T) {
	got, err := Decode([]byte(`{not json`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptSnapshot))
	assert.Equal(t, DefaultSnapshot(), got)
}

func TestProgressJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Progress{"a": Checked(true), "b": Count(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": true, "b": 2.5}`, string(data))

	var p Progress
	require.Error(t, json.Unmarshal([]byte(`"yes"`), &p))
	require.NoError(t, json.Unmarshal([]byte(`false`), &p))
	assert.Equal(t, ProgressChecked, p.Kind())
	assert.False(t, p.Done())
}

func TestSnapshotRepoSaveLoad(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSnapshotRepo(db)

	first, err := repo.Load(ctx, MainSnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshot(), first)

	s := populatedSnapshot()
	require.NoError(t, repo.Save(ctx, MainSnapshotKey, s))
	s.CurrentBookPage = 18
	require.NoError(t, repo.Save(ctx, MainSnapshotKey, s))

	got, err := repo.Load(ctx, MainSnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSnapshotRepoCorruptRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := db.ExecContext(ctx, `INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, MainSnapshotKey, "garbage")
	require.NoError(t, err)

	got, err := NewSnapshotRepo(db).Load(ctx, MainSnapshotKey)
	require.ErrorIs(t, err, ErrCorruptSnapshot)
	assert.Equal(t, DefaultSnapshot(), got)
}

func TestBlobPutGetAndPrune(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	blobs := NewBlobRepo(db)
	snaps := NewSnapshotRepo(db)

	keep, err := blobs.Put(ctx, []byte("keep me"))
	require.NoError(t, err)
	again, err := blobs.Put(ctx, []byte("keep me"))
	require.NoError(t, err)
	assert.Equal(t, keep, again)
	assert.True(t, IsBlobRef(keep))

	drop, err := blobs.Put(ctx, []byte("orphan"))
	require.NoError(t, err)

	s := DefaultSnapshot()
	s.WimHofVideo = keep
	require.NoError(t, snaps.Save(ctx, MainSnapshotKey, s))

	data, err := blobs.Get(ctx, keep)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep me"), data)

	data, err = blobs.Get(ctx, drop)
	require.NoError(t, err)
	assert.Nil(t, data)

	list, err := blobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(len("keep me")), list[0].Size)
}

func TestCloneIsDeep(t *testing.T) {
	s := populatedSnapshot()
	c := s.Clone()
	c.TaskProgress["new"] = Checked(true)
	c.CustomBooks[0].CurrentPage = 99
	c.Achievements[0] = "changed"

	assert.NotContains(t, s.TaskProgress, "new")
	assert.Equal(t, 12, s.CustomBooks[0].CurrentPage)
	assert.Equal(t, "FIRST_STEP", s.Achievements[0])
}
