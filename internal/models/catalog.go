package models

import (
	"time"
	"gorm.io/gorm"
)

// ExerciseTemplate is a reusable exercise definition used to seed sessions
type ExerciseTemplate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Equipment   string  `json:"equipment"`
	Sets        int     `gorm:"default:3" json:"sets"`
	Reps        int     `gorm:"default:10" json:"reps"`
	Weight      float64 `json:"weight"`
	RestSeconds int     `gorm:"default:90" json:"rest_seconds"`
}

// ProgramWorkout is a named, ordered list of templates (e.g. "Push Day")
type ProgramWorkout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Notes string `json:"notes"`

	// Relationships
	Exercises []ProgramExercise `gorm:"foreignKey:ProgramWorkoutID;constraint:OnDelete:CASCADE;" json:"exercises"`
}

// ProgramExercise is the join row between a program and a template
type ProgramExercise struct {
	ID               uint `gorm:"primarykey" json:"id"`
	ProgramWorkoutID uint `gorm:"not null;index" json:"program_workout_id"`
	TemplateID       uint `gorm:"not null" json:"template_id"`
	Position         int  `json:"position"`

	Template ExerciseTemplate `gorm:"foreignKey:TemplateID" json:"template"`
}

// KVEntry is one row of the key/value table backing the session store
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey" json:"key"`
	Value     string    `gorm:"column:entry_value;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the key/value table name
func (KVEntry) TableName() string {
	return "kv_entries"
}
