package parser

import (
	"fmt"
	"strings"
)

var equipmentAliases = map[string]string{
	"barbell":    "barbell",
	"bb":         "barbell",
	"dumbbell":   "dumbbell",
	"dumbbells":  "dumbbell",
	"db":         "dumbbell",
	"kettlebell": "kettlebell",
	"kb":         "kettlebell",
	"machine":    "machine",
	"cable":      "cable",
	"band":       "band",
	"bodyweight": "bodyweight",
	"bw":         "bodyweight",
	"smith":      "smith",
}

// NormalizeEquipment maps aliases onto canonical equipment names
// Accepts formats like:
// - "Barbell", "bb" -> "barbell"
// - "DB", "dumbbells" -> "dumbbell"
// Returns error for unknown equipment
func NormalizeEquipment(equipment string) (string, error) {
	equipment = strings.ToLower(strings.TrimSpace(equipment))
	if equipment == "" {
		return "", nil
	}

	canonical, ok := equipmentAliases[equipment]
	if !ok {
		return "", fmt.Errorf("unknown equipment '%s'. Use: barbell, dumbbell, kettlebell, machine, cable, band, bodyweight or smith", equipment)
	}
	return canonical, nil
}
