// internal/domain/models/module.go
package models

import "time"

// Module is a numbered section of a Course.
//
// Position is the module_number. For a fixed CourseID the positions of all
// modules are exactly 1..n. Only the sequence engine writes Position; the
// handlers and stores never renumber on their own.
type Module struct {
	ID       string `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	CourseID string `bson:"course_id" json:"course_id" gorm:"size:36;not null;index:idx_modules_course_position,priority:1"`
	Name     string `bson:"name" json:"name" gorm:"size:255;not null"`
	Position int    `bson:"position" json:"module_number" gorm:"not null;index:idx_modules_course_position,priority:2"`

	Course *Course `bson:"-" json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TableName pins the SQL table name.
func (Module) TableName() string { return "modules" }

func (m *Module) SequenceID() string               { return m.ID }
func (m *Module) SequenceScope() string            { return m.CourseID }
func (m *Module) SetSequenceScope(courseID string) { m.CourseID = courseID }
func (m *Module) SequencePosition() int            { return m.Position }
func (m *Module) SetSequencePosition(pos int)      { m.Position = pos }
