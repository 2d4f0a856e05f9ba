// internal/domain/models/lesson.go
package models

import "time"

// Lesson is a numbered unit of a Module. Position is the lesson_number and
// follows the same dense 1..n rule as Module.Position, scoped to ModuleID.
type Lesson struct {
	ID       string `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	ModuleID string `bson:"module_id" json:"module_id" gorm:"size:36;not null;index:idx_lessons_module_position,priority:1"`
	Name     string `bson:"name" json:"name" gorm:"size:255;not null"`
	Position int    `bson:"position" json:"lesson_number" gorm:"not null;index:idx_lessons_module_position,priority:2"`

	Module *Module `bson:"-" json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`

	DurationSeconds int64  `bson:"duration_seconds" json:"duration_seconds"`
	Description     string `bson:"description,omitempty" json:"description,omitempty" gorm:"type:text"` // sanitized HTML
	Media           string `bson:"media,omitempty" json:"media,omitempty" gorm:"size:512"`              // storage key or URL

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TableName pins the SQL table name.
func (Lesson) TableName() string { return "lessons" }

// HasMedia reports whether the lesson references an uploaded file or URL.
func (l *Lesson) HasMedia() bool {
	return l.Media != ""
}

func (l *Lesson) SequenceID() string               { return l.ID }
func (l *Lesson) SequenceScope() string            { return l.ModuleID }
func (l *Lesson) SetSequenceScope(moduleID string) { l.ModuleID = moduleID }
func (l *Lesson) SequencePosition() int            { return l.Position }
func (l *Lesson) SetSequencePosition(pos int)      { l.Position = pos }
