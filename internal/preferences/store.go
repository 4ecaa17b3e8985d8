// Package preferences holds a resident's meal preferences for one intake session.
package preferences

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mcp-meal-preferences/internal/models"
)

// SubmitFunc receives the snapshot taken by a successful Submit.
type SubmitFunc func(models.Preferences)

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithIDGenerator replaces the UUID generator used for new items.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithNoticeTTL(ttl time.Duration) Option {
	return func(s *Store) { s.notice = NewNotice(ttl) }
}

func WithSubmitHandler(fn SubmitFunc) Option {
	return func(s *Store) { s.onSubmit = fn }
}

// Store is not safe for concurrent use.
type Store struct {
	favorites []models.FavoriteFood
	dislikes  []models.DislikedFood
	allergies []models.Allergy
	notes     string

	newID    func() string
	notice   *Notice
	onSubmit SubmitFunc
	logger   *zap.Logger
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		favorites: []models.FavoriteFood{},
		dislikes:  []models.DislikedFood{},
		allergies: []models.Allergy{},
		newID:     uuid.NewString,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notice == nil {
		s.notice = NewNotice(DefaultNoticeTTL)
	}
	return s
}

func (s *Store) AddFavorite(name string, category models.MealCategory) ([]models.FavoriteFood, error) {
	items, err := addItem(s, models.Favorites, s.favorites, name, func(id, name string) models.FavoriteFood {
		return models.FavoriteFood{ID: id, Name: name, Category: category}
	})
	if err != nil {
		return s.Favorites(), err
	}
	s.favorites = items
	return s.Favorites(), nil
}

func (s *Store) AddDislike(name string, severity models.DislikeSeverity) ([]models.DislikedFood, error) {
	items, err := addItem(s, models.Dislikes, s.dislikes, name, func(id, name string) models.DislikedFood {
		return models.DislikedFood{ID: id, Name: name, Severity: severity}
	})
	if err != nil {
		return s.Dislikes(), err
	}
	s.dislikes = items
	return s.Dislikes(), nil
}

// AddAllergy records an allergy. Common allergens are always stored as severe.
func (s *Store) AddAllergy(name string, severity models.AllergySeverity) ([]models.Allergy, error) {
	items, err := addItem(s, models.Allergies, s.allergies, name, func(id, name string) models.Allergy {
		a := models.Allergy{ID: id, Name: name, Severity: severity}
		if models.IsCommonAllergy(name) {
			a.Severity = models.AllergySevere
			a.IsCommon = true
		}
		return a
	})
	if err != nil {
		return s.Allergies(), err
	}
	s.allergies = items
	return s.Allergies(), nil
}

// EditFavorite does not re-check uniqueness; an unknown id is a no-op.
func (s *Store) EditFavorite(id, name string, category models.MealCategory) ([]models.FavoriteFood, error) {
	items, err := editItem(s, s.favorites, id, name, func(f models.FavoriteFood, name string) models.FavoriteFood {
		f.Name, f.Category = name, category
		return f
	})
	if err != nil {
		return s.Favorites(), err
	}
	s.favorites = items
	return s.Favorites(), nil
}

func (s *Store) EditDislike(id, name string, severity models.DislikeSeverity) ([]models.DislikedFood, error) {
	items, err := editItem(s, s.dislikes, id, name, func(d models.DislikedFood, name string) models.DislikedFood {
		d.Name, d.Severity = name, severity
		return d
	})
	if err != nil {
		return s.Dislikes(), err
	}
	s.dislikes = items
	return s.Dislikes(), nil
}

// EditAllergy keeps IsCommon as it was recorded on add.
func (s *Store) EditAllergy(id, name string, severity models.AllergySeverity) ([]models.Allergy, error) {
	items, err := editItem(s, s.allergies, id, name, func(a models.Allergy, name string) models.Allergy {
		a.Name, a.Severity = name, severity
		return a
	})
	if err != nil {
		return s.Allergies(), err
	}
	s.allergies = items
	return s.Allergies(), nil
}

// Remove drops the item with the given id from a collection; an unknown id is a no-op.
func (s *Store) Remove(kind models.CollectionKind, id string) error {
	switch kind {
	case models.Favorites:
		s.favorites = removeItem(s.favorites, id)
	case models.Dislikes:
		s.dislikes = removeItem(s.dislikes, id)
	case models.Allergies:
		s.allergies = removeItem(s.allergies, id)
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidCollection, kind)
	}
	return nil
}

// Len returns the number of items in a collection.
func (s *Store) Len(kind models.CollectionKind) int {
	switch kind {
	case models.Favorites:
		return len(s.favorites)
	case models.Dislikes:
		return len(s.dislikes)
	case models.Allergies:
		return len(s.allergies)
	}
	return 0
}

func (s *Store) SetNotes(text string) error {
	if n := utf8.RuneCountInString(text); n > models.NotesMaxLength {
		return s.reject(newValidationError(ErrTooLong,
			"Notes cannot exceed %d characters (got %d)", models.NotesMaxLength, n))
	}
	s.notes = text
	return nil
}

func (s *Store) Notes() string {
	return s.notes
}

// NotesRemaining is the number of characters still available for notes.
func (s *Store) NotesRemaining() int {
	return models.NotesMaxLength - utf8.RuneCountInString(s.notes)
}

// Submit hands a snapshot to the submit handler. Without a favorite food
// nothing is handed over.
func (s *Store) Submit() (models.Preferences, error) {
	if len(s.favorites) == 0 {
		return models.Preferences{}, s.reject(newValidationError(ErrMissingFavorite,
			"Please add at least one favorite food"))
	}

	snapshot := s.Snapshot()
	s.logger.Info("Submitting preferences",
		zap.Int("favorites", len(snapshot.Favorites)),
		zap.Int("dislikes", len(snapshot.Dislikes)),
		zap.Int("allergies", len(snapshot.Allergies)))
	if s.onSubmit != nil {
		s.onSubmit(snapshot.Clone())
	}
	s.notice.Clear()
	return snapshot, nil
}

// Snapshot returns a deep copy of the current preferences.
func (s *Store) Snapshot() models.Preferences {
	return models.Preferences{
		Favorites: s.favorites,
		Dislikes:  s.dislikes,
		Allergies: s.allergies,
		Notes:     s.notes,
	}.Clone()
}

func (s *Store) Favorites() []models.FavoriteFood {
	return append([]models.FavoriteFood{}, s.favorites...)
}

func (s *Store) Dislikes() []models.DislikedFood {
	return append([]models.DislikedFood{}, s.dislikes...)
}

func (s *Store) Allergies() []models.Allergy {
	return append([]models.Allergy{}, s.allergies...)
}

// Notice returns the currently visible validation message, if any.
func (s *Store) Notice() string {
	return s.notice.Current()
}

func (s *Store) DismissNotice() {
	s.notice.Clear()
}

func (s *Store) reject(err *ValidationError) error {
	s.notice.Post(err.Message)
	s.logger.Debug("Rejected preference change", zap.Error(err))
	return err
}

type item interface {
	ItemID() string
	ItemName() string
}

// policy is the per-collection validation applied by addItem.
type policy struct {
	label    string
	conflict func(s *Store, name string) *ValidationError
}

var policies = map[models.CollectionKind]policy{
	models.Favorites: {
		label: "favorite foods",
		conflict: func(s *Store, name string) *ValidationError {
			if containsName(s.dislikes, name) {
				return newValidationError(ErrConflictsWithDislike,
					"%q is in your disliked foods list. Please remove it from dislikes first.", name)
			}
			return nil
		},
	},
	models.Dislikes: {
		label: "disliked foods",
		conflict: func(s *Store, name string) *ValidationError {
			if containsName(s.favorites, name) {
				return newValidationError(ErrConflictsWithFavorite,
					"%q is in your favorite foods list. Please remove it from favorites first.", name)
			}
			return nil
		},
	},
	models.Allergies: {
		label: "allergies",
	},
}

func addItem[T item](s *Store, kind models.CollectionKind, items []T, name string, build func(id, name string) T) ([]T, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, s.reject(newValidationError(ErrEmptyName, "Please enter a name"))
	}

	p := policies[kind]
	if containsName(items, trimmed) {
		return nil, s.reject(newValidationError(ErrDuplicateName,
			"%q is already in your %s list", trimmed, p.label))
	}
	if p.conflict != nil {
		if verr := p.conflict(s, trimmed); verr != nil {
			return nil, s.reject(verr)
		}
	}

	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	return append(next, build(s.newID(), trimmed)), nil
}

func editItem[T item](s *Store, items []T, id, name string, update func(T, string) T) ([]T, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, s.reject(newValidationError(ErrEmptyName, "Please enter a name"))
	}

	next := make([]T, len(items))
	for i, it := range items {
		if it.ItemID() == id {
			it = update(it, trimmed)
		}
		next[i] = it
	}
	return next, nil
}

func removeItem[T item](items []T, id string) []T {
	next := make([]T, 0, len(items))
	for _, it := range items {
		if it.ItemID() != id {
			next = append(next, it)
		}
	}
	return next
}

func containsName[T item](items []T, name string) bool {
	for _, it := range items {
		if strings.EqualFold(it.ItemName(), name) {
			return true
		}
	}
	return false
}
