package repos

import (
	"github.com/tauraamui/dragoneye/pkg/database/dbconn"
	"github.com/tauraamui/dragoneye/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type SnapshotRepository struct {
	DB dbconn.GormWrapper
}

func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	return r.DB.Create(snapshot).Error()
}

// FindBySession returns a session's snapshots in the order they were saved.
func (r *SnapshotRepository) FindBySession(sessionUUID string) ([]models.Snapshot, error) {
	snapshots := []models.Snapshot{}
	if err := r.DB.Where("session_uuid = ?", sessionUUID).Order("sequence").Find(&snapshots).Error(); err != nil {
		return nil, xerror.Errorf("unable to find snapshots of session %s: %w", sessionUUID, err)
	}
	return snapshots, nil
}
