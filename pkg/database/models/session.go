package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&Session{})
}

// Session is one capture run against a single device.
type Session struct {
	gorm.Model
	UUID        string `gorm:"uniqueIndex"`
	DeviceName  string
	Width       int
	Height      int
	Transform   string
	StartedAt   time.Time
	FramesSaved int
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if len(s.UUID) == 0 {
		s.UUID = uuid.NewString()
	}
	return nil
}
