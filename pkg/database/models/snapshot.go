package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Snapshot{})
}

type Snapshot struct {
	gorm.Model
	UUID        string `gorm:"uniqueIndex"`
	SessionUUID string `gorm:"index"`
	Sequence    int
	Path        string
	Format      string
	SavedAt     time.Time
}

func (s *Snapshot) BeforeCreate(tx *gorm.DB) error {
	s.UUID = uuid.NewString()
	return nil
}
