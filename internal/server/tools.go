// internal/server/tools.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-meal-preferences/internal/models"
	"mcp-meal-preferences/internal/validation"
)

var errInvalidParams = errors.New("invalid parameters")

type AddItemParams struct {
	Name     string `json:"name" description:"Food or allergen name"`
	Category string `json:"category,omitempty" description:"Meal category for favorites: breakfast, lunch, dinner, snacks (defaults to breakfast)"`
	Severity string `json:"severity,omitempty" description:"Severity for dislikes (mild, moderate, won't eat) or allergies (mild, moderate, severe); defaults to mild"`
}

type EditItemParams struct {
	ID string `json:"id" description:"Item id returned when the item was added"`
	AddItemParams
}

type ItemRefParams struct {
	Collection string `json:"collection" description:"favorites, dislikes or allergies"`
	ID         string `json:"id,omitempty" description:"Item id"`
}

type ListItemsParams struct {
	Collection string `json:"collection" description:"favorites, dislikes or allergies"`
	LoadMore   bool   `json:"load_more,omitempty" description:"Reveal the next page of items"`
}

type SetNotesParams struct {
	Notes string `json:"notes" description:"Special instructions, at most 500 characters"`
}

type UpdateProfileParams struct {
	Name                  *string              `json:"name,omitempty"`
	Age                   *int                 `json:"age,omitempty"`
	DietaryRestrictions   []string             `json:"dietary_restrictions,omitempty"`
	MedicalConditions     []string             `json:"medical_conditions,omitempty"`
	MealSchedule          *models.MealSchedule `json:"meal_schedule,omitempty"`
	CaregiverName         *string              `json:"caregiver_name,omitempty"`
	CaregiverRelationship *string              `json:"caregiver_relationship,omitempty"`
	CaregiverPhone        *string              `json:"caregiver_phone,omitempty"`
	CaregiverEmail        *string              `json:"caregiver_email,omitempty"`
	CaregiverAddress      *string              `json:"caregiver_address,omitempty"`
}

type ContactParams struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// extractParams converts the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

func (s *PreferenceServer) handleAddFavorite(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	category, err := categoryOrDefault(params.Category)
	if err != nil {
		return nil, err
	}

	favorites, err := s.store.AddFavorite(params.Name, category)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(favorites)
}

func (s *PreferenceServer) handleAddDislike(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	severity, err := dislikeSeverityOrDefault(params.Severity)
	if err != nil {
		return nil, err
	}

	dislikes, err := s.store.AddDislike(params.Name, severity)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(dislikes)
}

func (s *PreferenceServer) handleAddAllergy(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	severity, err := allergySeverityOrDefault(params.Severity)
	if err != nil {
		return nil, err
	}

	allergies, err := s.store.AddAllergy(params.Name, severity)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(allergies)
}

func (s *PreferenceServer) handleEditFavorite(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EditItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	category, err := categoryOrDefault(params.Category)
	if err != nil {
		return nil, err
	}

	favorites, err := s.store.EditFavorite(params.ID, params.Name, category)
	if err != nil {
		return nil, err
	}
	s.views[models.Favorites] = s.views[models.Favorites].CancelEdit()
	return s.createJSONResponse(favorites)
}

func (s *PreferenceServer) handleEditDislike(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EditItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	severity, err := dislikeSeverityOrDefault(params.Severity)
	if err != nil {
		return nil, err
	}

	dislikes, err := s.store.EditDislike(params.ID, params.Name, severity)
	if err != nil {
		return nil, err
	}
	s.views[models.Dislikes] = s.views[models.Dislikes].CancelEdit()
	return s.createJSONResponse(dislikes)
}

func (s *PreferenceServer) handleEditAllergy(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params EditItemParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	severity, err := allergySeverityOrDefault(params.Severity)
	if err != nil {
		return nil, err
	}

	allergies, err := s.store.EditAllergy(params.ID, params.Name, severity)
	if err != nil {
		return nil, err
	}
	s.views[models.Allergies] = s.views[models.Allergies].CancelEdit()
	return s.createJSONResponse(allergies)
}

// handleBeginEdit marks an item as being edited in its section.
func (s *PreferenceServer) handleBeginEdit(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ItemRefParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	kind, err := models.ParseCollectionKind(params.Collection)
	if err != nil {
		return nil, err
	}

	s.views[kind] = s.views[kind].StartEdit(params.ID)
	return s.createJSONResponse(s.views[kind])
}

func (s *PreferenceServer) handleRemoveItem(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ItemRefParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	kind, err := models.ParseCollectionKind(params.Collection)
	if err != nil {
		return nil, err
	}

	if err := s.store.Remove(kind, params.ID); err != nil {
		return nil, err
	}
	if s.views[kind].IsEditing(params.ID) {
		s.views[kind] = s.views[kind].CancelEdit()
	}
	return s.createJSONResponse(map[string]interface{}{
		"collection": kind,
		"count":      s.store.Len(kind),
	})
}

func (s *PreferenceServer) handleListItems(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ListItemsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	kind, err := models.ParseCollectionKind(params.Collection)
	if err != nil {
		return nil, err
	}

	total := s.store.Len(kind)
	if params.LoadMore {
		s.views[kind] = s.views[kind].LoadMore(total)
	}
	view := s.views[kind]
	shown, hasMore := view.Window(total)

	var items interface{}
	switch kind {
	case models.Favorites:
		items = s.store.Favorites()[:shown]
	case models.Dislikes:
		items = s.store.Dislikes()[:shown]
	case models.Allergies:
		items = s.store.Allergies()[:shown]
	}

	return s.createJSONResponse(map[string]interface{}{
		"collection": kind,
		"items":      items,
		"total":      total,
		"has_more":   hasMore,
		"view":       view,
	})
}

func (s *PreferenceServer) handleSetNotes(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params SetNotesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	if err := s.store.SetNotes(params.Notes); err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"notes":     s.store.Notes(),
		"remaining": s.store.NotesRemaining(),
	})
}

func (s *PreferenceServer) handleGetPreferences(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(map[string]interface{}{
		"preferences": s.store.Snapshot(),
		"notice":      s.store.Notice(),
	})
}

func (s *PreferenceServer) handleSubmitPreferences(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	snapshot, err := s.store.Submit()
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"message":     "Preferences saved successfully!",
		"preferences": snapshot,
	})
}

func (s *PreferenceServer) handleGetNotice(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(map[string]string{"notice": s.store.Notice()})
}

func (s *PreferenceServer) handleGetProfile(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.profileResponse()
}

func (s *PreferenceServer) handleEditProfile(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	s.editor.StartEditing()
	return s.profileResponse()
}

func (s *PreferenceServer) handleUpdateProfile(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params UpdateProfileParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if !s.editor.Editing() {
		s.editor.StartEditing()
	}

	e := s.editor
	if params.Name != nil {
		e.SetName(*params.Name)
	}
	if params.Age != nil {
		e.SetAge(*params.Age)
	}
	if params.DietaryRestrictions != nil {
		e.SetDietaryRestrictions(params.DietaryRestrictions)
	}
	if params.MedicalConditions != nil {
		e.SetMedicalConditions(params.MedicalConditions)
	}
	if params.MealSchedule != nil {
		e.SetMealSchedule(*params.MealSchedule)
	}
	if params.CaregiverName != nil {
		e.SetCaregiverName(*params.CaregiverName)
	}
	if params.CaregiverRelationship != nil {
		e.SetCaregiverRelationship(*params.CaregiverRelationship)
	}
	if params.CaregiverPhone != nil {
		e.SetPhone(*params.CaregiverPhone)
	}
	if params.CaregiverEmail != nil {
		e.SetEmail(*params.CaregiverEmail)
	}
	if params.CaregiverAddress != nil {
		e.SetCaregiverAddress(*params.CaregiverAddress)
	}
	return s.profileResponse()
}

func (s *PreferenceServer) handleSaveProfile(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	if _, err := s.editor.Save(); err != nil {
		return nil, err
	}
	return s.profileResponse()
}

func (s *PreferenceServer) handleFormatPhone(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ContactParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{
		"phone": validation.FormatPhone(params.Phone),
		"valid": validation.ValidatePhone(params.Phone),
	})
}

func (s *PreferenceServer) handleValidateContact(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ContactParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]bool{
		"email_valid": validation.ValidateEmail(params.Email),
		"phone_valid": validation.ValidatePhone(params.Phone),
	})
}

func (s *PreferenceServer) handleListCommonAllergies(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(models.CommonAllergies)
}

func (s *PreferenceServer) handleServerInfo(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return s.createJSONResponse(map[string]interface{}{
		"server": s.info,
		"tools":  names,
	})
}

func (s *PreferenceServer) profileResponse() (*protocol.CallToolResult, error) {
	return s.createJSONResponse(map[string]interface{}{
		"profile":      s.editor.Profile(),
		"editing":      s.editor.Editing(),
		"field_errors": s.editor.FieldErrors(),
	})
}

func categoryOrDefault(s string) (models.MealCategory, error) {
	if s == "" {
		return models.Breakfast, nil
	}
	return models.ParseMealCategory(s)
}

func dislikeSeverityOrDefault(s string) (models.DislikeSeverity, error) {
	if s == "" {
		return models.DislikeMild, nil
	}
	return models.ParseDislikeSeverity(s)
}

func allergySeverityOrDefault(s string) (models.AllergySeverity, error) {
	if s == "" {
		return models.AllergyMild, nil
	}
	return models.ParseAllergySeverity(s)
}

func (s *PreferenceServer) registerTools() {
	s.tools = map[string]toolHandler{
		"add_favorite":          s.handleAddFavorite,
		"add_dislike":           s.handleAddDislike,
		"add_allergy":           s.handleAddAllergy,
		"edit_favorite":         s.handleEditFavorite,
		"edit_dislike":          s.handleEditDislike,
		"edit_allergy":          s.handleEditAllergy,
		"begin_edit":            s.handleBeginEdit,
		"remove_item":           s.handleRemoveItem,
		"list_items":            s.handleListItems,
		"set_notes":             s.handleSetNotes,
		"get_preferences":       s.handleGetPreferences,
		"submit_preferences":    s.handleSubmitPreferences,
		"get_notice":            s.handleGetNotice,
		"get_profile":           s.handleGetProfile,
		"edit_profile":          s.handleEditProfile,
		"update_profile":        s.handleUpdateProfile,
		"save_profile":          s.handleSaveProfile,
		"format_phone":          s.handleFormatPhone,
		"validate_contact":      s.handleValidateContact,
		"list_common_allergies": s.handleListCommonAllergies,
		"server_info":           s.handleServerInfo,
	}

	for name := range s.tools {
		s.logger.Debug("Registered tool", zap.String("tool", name))
	}
}
