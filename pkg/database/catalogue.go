package data

import (
	"sync"
	"time"

	"github.com/tauraamui/dragoneye/pkg/database/dbconn"
	"github.com/tauraamui/dragoneye/pkg/database/models"
	"github.com/tauraamui/dragoneye/pkg/database/repos"
	"github.com/tauraamui/dragoneye/pkg/sink"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

// Catalogue keeps a record of capture sessions and every snapshot they
// save. Snapshots are recorded from the frame processing goroutine so
// all writes are serialised.
type Catalogue struct {
	mu        sync.Mutex
	db        dbconn.GormWrapper
	sessions  repos.SessionRepository
	snapshots repos.SnapshotRepository
}

func NewCatalogue(db dbconn.GormWrapper) *Catalogue {
	return &Catalogue{
		db:        db,
		sessions:  repos.SessionRepository{DB: db},
		snapshots: repos.SnapshotRepository{DB: db},
	}
}

// OpenCatalogue connects to the catalogue database, creating it if needed.
func OpenCatalogue() (*Catalogue, error) {
	db, err := Connect()
	if err != nil {
		return nil, err
	}
	return NewCatalogue(db), nil
}

func (c *Catalogue) SessionStarted(sessionUUID, deviceName string, format videoframe.Format, transform string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.Create(&models.Session{
		UUID:       sessionUUID,
		DeviceName: deviceName,
		Width:      format.Width,
		Height:     format.Height,
		Transform:  transform,
		StartedAt:  at,
	})
}

func (c *Catalogue) SnapshotSaved(sessionUUID string, saved sink.Saved) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots.Create(&models.Snapshot{
		SessionUUID: sessionUUID,
		Sequence:    saved.Sequence,
		Path:        saved.Path,
		Format:      saved.Kind.String(),
		SavedAt:     saved.At,
	})
}

func (c *Catalogue) SessionFinished(sessionUUID string, framesSaved int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.UpdateFramesSaved(sessionUUID, framesSaved)
}

func (c *Catalogue) Snapshots(sessionUUID string) ([]models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots.FindBySession(sessionUUID)
}

func (c *Catalogue) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}
