package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/wrkout/internal/models"
)

var (
	ErrTemplateNotFound = errors.New("exercise template not found")
	ErrProgramNotFound  = errors.New("program not found")
)

// CreateTemplateRequest holds the data needed to create an exercise template
type CreateTemplateRequest struct {
	Name        string
	Equipment   string
	Sets        int
	Reps        int
	Weight      float64
	RestSeconds int
}

// Catalog reads and writes exercise templates and program workouts.
// Sessions only ever read from it.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog wraps an open database
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// CreateTemplate creates a new exercise template
func (c *Catalog) CreateTemplate(req CreateTemplateRequest) (*models.ExerciseTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if req.Sets < 0 || req.Reps < 0 || req.Weight < 0 || req.RestSeconds < 0 {
		return nil, fmt.Errorf("sets, reps, weight and rest must not be negative")
	}

	if _, err := c.GetTemplateByName(name); err == nil {
		return nil, fmt.Errorf("template %q already exists", name)
	}

	tpl := models.ExerciseTemplate{
		Name:        name,
		Equipment:   strings.TrimSpace(req.Equipment),
		Sets:        withDefault(req.Sets, 3),
		Reps:        withDefault(req.Reps, 10),
		Weight:      req.Weight,
		RestSeconds: withDefault(req.RestSeconds, 90),
	}

	if err := c.db.Create(&tpl).Error; err != nil {
		return nil, err
	}

	return &tpl, nil
}

// GetTemplates retrieves all templates ordered by name
func (c *Catalog) GetTemplates() ([]models.ExerciseTemplate, error) {
	var templates []models.ExerciseTemplate

	if err := c.db.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// GetTemplateByName retrieves a template by case-insensitive name
func (c *Catalog) GetTemplateByName(name string) (*models.ExerciseTemplate, error) {
	var tpl models.ExerciseTemplate

	err := c.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, err
	}

	return &tpl, nil
}

// FindTemplates resolves template names in the order given
func (c *Catalog) FindTemplates(names []string) ([]models.ExerciseTemplate, error) {
	var templates []models.ExerciseTemplate

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tpl, err := c.GetTemplateByName(name)
		if err != nil {
			return nil, err
		}

		templates = append(templates, *tpl)
	}

	return templates, nil
}

// CreateProgram creates a program workout from template names
func (c *Catalog) CreateProgram(name, notes string, templateNames []string) (*models.ProgramWorkout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("program name is required")
	}

	templates, err := c.FindTemplates(templateNames)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("program %q needs at least one exercise", name)
	}

	program := models.ProgramWorkout{Name: name, Notes: notes}
	for i, tpl := range templates {
		program.Exercises = append(program.Exercises, models.ProgramExercise{
			TemplateID: tpl.ID,
			Position:   i,
		})
	}

	if err := c.db.Create(&program).Error; err != nil {
		return nil, err
	}

	return c.GetProgramByName(name)
}

// GetPrograms retrieves all programs with their exercises
func (c *Catalog) GetPrograms() ([]models.ProgramWorkout, error) {
	var programs []models.ProgramWorkout

	err := c.preloadExercises(c.db).Order("name ASC").Find(&programs).Error
	if err != nil {
		return nil, err
	}

	return programs, nil
}

// GetProgramByName retrieves a program with exercises in position order
func (c *Catalog) GetProgramByName(name string) (*models.ProgramWorkout, error) {
	var program models.ProgramWorkout

	err := c.preloadExercises(c.db).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&program).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, name)
		}
		return nil, err
	}

	return &program, nil
}

func (c *Catalog) preloadExercises(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Exercises.Template")
}

// withDefault returns fallback when v is unset
func withDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
