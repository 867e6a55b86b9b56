package history

import "time"

// Actions recorded in the history log.
const (
	ActionSave    = "save"
	ActionRestore = "restore"
	ActionDelete  = "delete"
)

// Event is one save, restore or delete of a layout.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id" yaml:"id"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp" yaml:"timestamp"`
	Action      string    `gorm:"not null;index" json:"action" yaml:"action"`
	Profile     string    `gorm:"not null;index" json:"profile" yaml:"profile"`
	Platform    string    `gorm:"not null" json:"platform" yaml:"platform"`
	WindowCount int       `gorm:"not null;default:0" json:"window_count" yaml:"window_count"`
	Restored    int       `gorm:"not null;default:0" json:"restored" yaml:"restored"`
	Failed      int       `gorm:"not null;default:0" json:"failed" yaml:"failed"`
	DryRun      bool      `gorm:"not null;default:false" json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-" yaml:"-"`
}
