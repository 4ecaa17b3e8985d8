// internal/models/preferences.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snacks    MealCategory = "snacks"
)

type DislikeSeverity string

const (
	DislikeMild     DislikeSeverity = "mild"
	DislikeModerate DislikeSeverity = "moderate"
	DislikeWontEat  DislikeSeverity = "won't eat"
)

type AllergySeverity string

const (
	AllergyMild     AllergySeverity = "mild"
	AllergyModerate AllergySeverity = "moderate"
	AllergySevere   AllergySeverity = "severe"
)

// CollectionKind names one of the three preference collections.
type CollectionKind string

const (
	Favorites CollectionKind = "favorites"
	Dislikes  CollectionKind = "dislikes"
	Allergies CollectionKind = "allergies"
)

// NotesMaxLength is the maximum length of the free-text notes, in characters.
const NotesMaxLength = 500

// CommonAllergies are offered for quick entry and always recorded as severe.
var CommonAllergies = []string{
	"Nuts",
	"Dairy",
	"Gluten",
	"Eggs",
	"Soy",
	"Shellfish",
	"Fish",
	"Wheat",
}

var (
	ErrInvalidCategory   = errors.New("invalid meal category")
	ErrInvalidSeverity   = errors.New("invalid severity")
	ErrInvalidCollection = errors.New("invalid collection")
)

type FavoriteFood struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category MealCategory `json:"category"`
}

type DislikedFood struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Severity DislikeSeverity `json:"severity"`
}

type Allergy struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Severity AllergySeverity `json:"severity"`
	IsCommon bool            `json:"is_common"`
}

// Preferences is the aggregate handed over on submit.
type Preferences struct {
	Favorites []FavoriteFood `json:"favorites"`
	Dislikes  []DislikedFood `json:"dislikes"`
	Allergies []Allergy      `json:"allergies"`
	Notes     string         `json:"notes"`
}

func (f FavoriteFood) ItemID() string   { return f.ID }
func (f FavoriteFood) ItemName() string { return f.Name }
func (d DislikedFood) ItemID() string   { return d.ID }
func (d DislikedFood) ItemName() string { return d.Name }
func (a Allergy) ItemID() string        { return a.ID }
func (a Allergy) ItemName() string      { return a.Name }

// Clone returns a deep copy so the receiver of a snapshot cannot alias live state.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Favorites: append([]FavoriteFood{}, p.Favorites...),
		Dislikes:  append([]DislikedFood{}, p.Dislikes...),
		Allergies: append([]Allergy{}, p.Allergies...),
		Notes:     p.Notes,
	}
}

func ParseMealCategory(s string) (MealCategory, error) {
	switch c := MealCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case Breakfast, Lunch, Dinner, Snacks:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func ParseDislikeSeverity(s string) (DislikeSeverity, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "wont eat" || v == "won't-eat" || v == "wont_eat" {
		v = string(DislikeWontEat)
	}
	switch sev := DislikeSeverity(v); sev {
	case DislikeMild, DislikeModerate, DislikeWontEat:
		return sev, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

func ParseAllergySeverity(s string) (AllergySeverity, error) {
	switch sev := AllergySeverity(strings.ToLower(strings.TrimSpace(s))); sev {
	case AllergyMild, AllergyModerate, AllergySevere:
		return sev, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

func ParseCollectionKind(s string) (CollectionKind, error) {
	switch k := CollectionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Favorites, Dislikes, Allergies:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCollection, s)
}

// IsCommonAllergy reports whether name matches one of CommonAllergies, ignoring case.
func IsCommonAllergy(name string) bool {
	for _, common := range CommonAllergies {
		if strings.EqualFold(common, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
