package repos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/dragoneye/pkg/database/dbconn"
	"github.com/tauraamui/dragoneye/pkg/database/models"
	"github.com/tauraamui/dragoneye/pkg/database/repos"
)

func TestSessionRepoCreateNoErr(t *testing.T) {
	is := is.New(t)
	db := dbconn.Mock()
	repo := repos.SessionRepository{DB: db}

	session := models.Session{DeviceName: "USB Camera"}
	is.NoErr(repo.Create(&session))
	is.Equal(db.Created(), []interface{}{&session})
}

func TestSessionRepoCreateWithErr(t *testing.T) {
	is := is.New(t)
	err := errors.New("unable to create data")
	db := dbconn.Mock().SetError(err)
	repo := repos.SessionRepository{DB: db}

	is.Equal(repo.Create(&models.Session{}).Error(), err.Error())
	is.Equal(len(db.Created()), 0)
}

func TestSessionRepoUpdateFramesSaved(t *testing.T) {
	db := dbconn.Mock()
	repo := repos.SessionRepository{DB: db}

	require.NoError(t, repo.UpdateFramesSaved("session-uuid", 12))
	require.Len(t, db.Updates(), 1)
	update := db.Updates()[0]
	assert.Equal(t, &models.Session{}, update.Model)
	assert.Equal(t, "uuid = ?", update.Where.Query)
	assert.Equal(t, []interface{}{"session-uuid"}, update.Where.Args)
	assert.Equal(t, "frames_saved", update.Column)
	assert.Equal(t, 12, update.Value)
}

func TestSessionRepoUpdateFramesSavedWithErr(t *testing.T) {
	db := dbconn.Mock().SetError(errors.New("database is locked"))
	repo := repos.SessionRepository{DB: db}

	assert.EqualError(t, repo.UpdateFramesSaved("session-uuid", 1), "unable to update frames saved for session session-uuid: database is locked")
}

func TestSessionRepoFindByUUID(t *testing.T) {
	tests := []struct {
		title    string
		existing interface{}
		error    error
		findWith string
		expected string
	}{
		{
			title:    "find session by uuid",
			existing: models.Session{UUID: "existing-session", DeviceName: "USB Camera"},
			findWith: "existing-session",
			expected: "USB Camera",
		},
		{
			title:    "find session by uuid returns error",
			findWith: "non-existent-uuid",
			error:    errors.New("session of uuid non-existent-uuid not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			is := is.New(t)
			db := dbconn.Mock().SetResult(tt.existing)
			repo := repos.SessionRepository{DB: db}

			session, err := repo.FindByUUID(tt.findWith)
			if tt.error != nil {
				is.Equal(err.Error(), tt.error.Error())
				return
			}
			is.NoErr(err)
			is.Equal(session.DeviceName, tt.expected)
			is.Equal(db.Chain().Where.Query, "uuid = ?")
			is.Equal(db.Chain().Where.Args, []interface{}{tt.findWith})
		})
	}
}

func TestSnapshotRepoCreate(t *testing.T) {
	is := is.New(t)
	db := dbconn.Mock()
	repo := repos.SnapshotRepository{DB: db}

	snapshot := models.Snapshot{SessionUUID: "session", Sequence: 1, Path: "frame.pgm", SavedAt: time.Now()}
	is.NoErr(repo.Create(&snapshot))
	is.Equal(db.Created(), []interface{}{&snapshot})
}

func TestSnapshotRepoFindBySession(t *testing.T) {
	existing := []models.Snapshot{
		{SessionUUID: "session", Sequence: 1, Path: "frame000001.pgm"},
		{SessionUUID: "session", Sequence: 2, Path: "frame000002.pgm"},
	}
	db := dbconn.Mock().SetResult(existing)
	repo := repos.SnapshotRepository{DB: db}

	snapshots, err := repo.FindBySession("session")
	require.NoError(t, err)
	assert.Equal(t, existing, snapshots)
	assert.Equal(t, "session_uuid = ?", db.Chain().Where.Query)
	assert.Equal(t, "sequence", db.Chain().Order)
}

func TestSnapshotRepoFindBySessionWithErr(t *testing.T) {
	db := dbconn.Mock().SetError(errors.New("no such table: snapshots"))
	repo := repos.SnapshotRepository{DB: db}

	snapshots, err := repo.FindBySession("session")
	assert.Nil(t, snapshots)
	assert.EqualError(t, err, "unable to find snapshots of session session: no such table: snapshots")
}
