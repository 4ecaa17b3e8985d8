// Package profile edits the resident profile and its caregiver contact details.
package profile

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"mcp-meal-preferences/internal/models"
	"mcp-meal-preferences/internal/validation"
)

const (
	FieldEmail = "email"
	FieldPhone = "phone"
)

const (
	msgInvalidEmail       = "Please enter a valid email address"
	msgInvalidPhone       = "Please enter a valid phone number"
	msgInvalidPhoneOnSave = "Please enter a valid phone number (e.g., (123) 456-7890)"
)

// SaveFunc receives the profile after a successful Save.
type SaveFunc func(models.ResidentProfile)

// Editor owns the draft profile and its view-state. Not safe for concurrent use.
type Editor struct {
	draft       models.ResidentProfile
	editing     bool
	fieldErrors map[string]string
	onSave      SaveFunc
	logger      *zap.Logger
}

func NewEditor(initial models.ResidentProfile, onSave SaveFunc, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		draft:       initial.Clone(),
		fieldErrors: map[string]string{},
		onSave:      onSave,
		logger:      logger,
	}
}

func (e *Editor) Editing() bool {
	return e.editing
}

func (e *Editor) StartEditing() {
	e.editing = true
}

// Profile returns a copy of the current draft.
func (e *Editor) Profile() models.ResidentProfile {
	return e.draft.Clone()
}

// FieldErrors returns the current per-field validation messages.
func (e *Editor) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.fieldErrors))
	for k, v := range e.fieldErrors {
		out[k] = v
	}
	return out
}

func (e *Editor) SetName(name string) {
	e.draft.Name = name
}

// SetAge ignores non-positive values and keeps the previous age.
func (e *Editor) SetAge(age int) {
	if age > 0 {
		e.draft.Age = age
	}
}

func (e *Editor) SetDietaryRestrictions(items []string) {
	e.draft.DietaryRestrictions = cleanList(items)
}

func (e *Editor) SetMedicalConditions(items []string) {
	e.draft.MedicalConditions = cleanList(items)
}

func (e *Editor) SetMealSchedule(schedule models.MealSchedule) {
	e.draft.MealSchedule = schedule
}

func (e *Editor) SetCaregiverName(name string) {
	e.draft.PrimaryCaregiver.Name = name
}

func (e *Editor) SetCaregiverRelationship(relationship string) {
	e.draft.PrimaryCaregiver.Relationship = relationship
}

func (e *Editor) SetCaregiverAddress(address string) {
	e.draft.PrimaryCaregiver.Address = address
}

// SetEmail stores the address as typed; it is checked on Save.
func (e *Editor) SetEmail(email string) {
	e.draft.PrimaryCaregiver.Email = email
	delete(e.fieldErrors, FieldEmail)
}

// SetPhone stores the formatted number and flags a malformed raw value.
func (e *Editor) SetPhone(raw string) {
	e.draft.PrimaryCaregiver.Phone = validation.FormatPhone(raw)
	delete(e.fieldErrors, FieldPhone)
	if raw != "" && !validation.ValidatePhone(raw) {
		e.fieldErrors[FieldPhone] = msgInvalidPhone
	}
}

// Validate checks the optional contact fields and records per-field messages.
func (e *Editor) Validate() error {
	e.fieldErrors = map[string]string{}
	var errs []error

	c := e.draft.PrimaryCaregiver
	if c.Email != "" {
		if err := validation.CheckEmail(c.Email); err != nil {
			e.fieldErrors[FieldEmail] = msgInvalidEmail
			errs = append(errs, err)
		}
	}
	if c.Phone != "" {
		if err := validation.CheckPhone(c.Phone); err != nil {
			e.fieldErrors[FieldPhone] = msgInvalidPhoneOnSave
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save validates the draft and hands it to the save callback. On failure
// nothing is handed over and editing continues.
func (e *Editor) Save() (models.ResidentProfile, error) {
	if err := e.Validate(); err != nil {
		e.logger.Debug("Rejected profile save", zap.Error(err))
		return models.ResidentProfile{}, err
	}

	saved := e.draft.Clone()
	if e.onSave != nil {
		e.onSave(saved.Clone())
	}
	e.editing = false
	e.fieldErrors = map[string]string{}
	e.logger.Info("Saved resident profile", zap.String("resident", saved.Name))
	return saved, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
