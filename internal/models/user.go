package models

import (
	"gorm.io/gorm"
)

// User represents a bot user, keyed by their WhatsApp number
type User struct {
	gorm.Model

	WhatsAppID  string   `json:"whatsapp_id" gorm:"uniqueIndex;not null"`
	Name        string   `json:"name"`
	BMI         *float64 `json:"bmi"`         // latest computed value, nil until first calculation
	Preferences string   `json:"preferences"` // reserved for dietary preferences
}

// BMI tier boundaries: underweight below 18.5, healthy up to 25, then overweight.
const (
	bmiUnderweightMax = 18.5
	bmiHealthyMax     = 25.0
)

// ComputeBMI calculates body mass index from height in cm and weight in kg
func ComputeBMI(heightCm, weightKg float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// BMISuggestion returns the dietary suggestion for a BMI value
func BMISuggestion(bmi float64) string {
	switch {
	case bmi < bmiUnderweightMax:
		return "Suggestion: Focus on high-protein and calorie-rich recipes."
	case bmi < bmiHealthyMax:
		return "Suggestion: Maintain a balanced diet with varied recipes."
	default:
		return "Suggestion: Focus on low-calorie and healthy recipes."
	}
}
