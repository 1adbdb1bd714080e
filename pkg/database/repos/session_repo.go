package repos

import (
	"github.com/tauraamui/dragoneye/pkg/database/dbconn"
	"github.com/tauraamui/dragoneye/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type SessionRepository struct {
	DB dbconn.GormWrapper
}

func (r *SessionRepository) Create(session *models.Session) error {
	return r.DB.Create(session).Error()
}

func (r *SessionRepository) UpdateFramesSaved(uuid string, framesSaved int) error {
	err := r.DB.Model(&models.Session{}).Where("uuid = ?", uuid).Update("frames_saved", framesSaved).Error()
	if err != nil {
		return xerror.Errorf("unable to update frames saved for session %s: %w", uuid, err)
	}
	return nil
}

func (r *SessionRepository) FindByUUID(uuid string) (models.Session, error) {
	session := models.Session{}
	if err := r.DB.Where("uuid = ?", uuid).First(&session).Error(); err != nil {
		return session, xerror.Errorf("session of uuid %s not found", uuid)
	}

	return session, nil
}
