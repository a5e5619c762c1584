package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const lbToKg = 0.45359237

var (
	volumeRegex    = regexp.MustCompile(`\b(\d+)\s*[xX×]\s*(\d+)\b`)
	weightRegex    = regexp.MustCompile(`(?i)\b(\d+(?:[.,]\d+)?)\s*(kg|kgs|lb|lbs)\b`)
	equipmentRegex = regexp.MustCompile(`@([a-zA-Z_-]+)`)
	restRegex      = regexp.MustCompile(`rest:([^\s]+)`)
)

// ParsedExercise represents an exercise template parsed from natural language
type ParsedExercise struct {
	Name        string
	Equipment   string
	Sets        int
	Reps        int
	Weight      float64 // kg
	RestSeconds int
	Errors      []string
}

// ParseExercise extracts template fields from a one-line description
// Syntax: "Bench Press @barbell 3x8 60kg rest:90s"
// Fields left out stay zero so the catalog applies its defaults.
func ParseExercise(input string) ParsedExercise {
	result := ParsedExercise{
		Errors: []string{},
	}

	// Extract sets x reps (3x8, 4 x 10)
	if m := volumeRegex.FindStringSubmatch(input); len(m) == 3 {
		sets, _ := strconv.Atoi(m[1])
		reps, _ := strconv.Atoi(m[2])
		if sets < 1 || sets > 20 {
			result.Errors = append(result.Errors, "Sets must be between 1 and 20, got "+m[1])
		} else {
			result.Sets = sets
		}
		if reps < 1 || reps > 100 {
			result.Errors = append(result.Errors, "Reps must be between 1 and 100, got "+m[2])
		} else {
			result.Reps = reps
		}
		input = volumeRegex.ReplaceAllString(input, "")
	}

	// Extract weight (60kg, 135lb, 22.5 kg)
	if m := weightRegex.FindStringSubmatch(input); len(m) == 3 {
		weight, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid weight '"+m[0]+"'")
		} else {
			if strings.HasPrefix(strings.ToLower(m[2]), "lb") {
				weight = math.Round(weight*lbToKg*10) / 10
			}
			result.Weight = weight
		}
		input = weightRegex.ReplaceAllString(input, "")
	}

	// Extract equipment (@barbell, @db)
	if m := equipmentRegex.FindStringSubmatch(input); len(m) > 1 {
		equipment, err := NormalizeEquipment(m[1])
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Equipment = equipment
		}
		input = equipmentRegex.ReplaceAllString(input, "")
	}

	// Extract rest (rest:90s, rest:2m, rest:90)
	if m := restRegex.FindStringSubmatch(input); len(m) > 1 {
		rest, err := ParseRest(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid rest '"+m[1]+"': "+err.Error())
		} else {
			result.RestSeconds = int(rest.Seconds())
		}
		input = restRegex.ReplaceAllString(input, "")
	}

	// Whatever is left is the name
	result.Name = strings.Join(strings.Fields(input), " ")

	return result
}

// HasErrors reports whether any field failed to parse
func (p ParsedExercise) HasErrors() bool {
	return len(p.Errors) > 0
}
