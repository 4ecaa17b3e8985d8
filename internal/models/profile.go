// internal/models/profile.go
package models

type MealSchedule struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type PrimaryCaregiver struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
}

type ResidentProfile struct {
	Name                string           `json:"name"`
	Age                 int              `json:"age"`
	DietaryRestrictions []string         `json:"dietary_restrictions"`
	MedicalConditions   []string         `json:"medical_conditions"`
	MealSchedule        MealSchedule     `json:"meal_schedule"`
	PrimaryCaregiver    PrimaryCaregiver `json:"primary_caregiver"`
}

// DefaultResidentProfile is the blank profile a new intake session starts from.
func DefaultResidentProfile() ResidentProfile {
	return ResidentProfile{
		Age:                 65,
		DietaryRestrictions: []string{},
		MedicalConditions:   []string{},
		MealSchedule: MealSchedule{
			Breakfast: "8:00 AM",
			Lunch:     "12:00 PM",
			Dinner:    "6:00 PM",
		},
	}
}

// Clone returns a deep copy of the profile.
func (p ResidentProfile) Clone() ResidentProfile {
	c := p
	c.DietaryRestrictions = append([]string{}, p.DietaryRestrictions...)
	c.MedicalConditions = append([]string{}, p.MedicalConditions...)
	return c
}
