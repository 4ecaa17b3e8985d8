package preferences

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-meal-preferences/internal/models"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return NewStore(append([]Option{WithIDGenerator(sequentialIDs())}, opts...)...)
}

func TestAddFavoriteTrimsAndAssignsID(t *testing.T) {
	s := newTestStore(t)

	favs, err := s.AddFavorite("  Chicken Soup ", models.Lunch)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, models.FavoriteFood{ID: "item-1", Name: "Chicken Soup", Category: models.Lunch}, favs[0])
}

func TestAddRejectsBlankName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddFavorite("   ", models.Breakfast)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = s.AddDislike("", models.DislikeMild)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = s.AddAllergy("\t", models.AllergyMild)
	assert.ErrorIs(t, err, ErrEmptyName)

	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.Dislikes())
	assert.Empty(t, s.Allergies())
}

func TestAddThenRemoveRestoresCollection(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddDislike("Liver", models.DislikeWontEat)
	require.NoError(t, err)
	before := s.Dislikes()

	after, err := s.AddDislike("Okra", models.DislikeMild)
	require.NoError(t, err)
	require.Len(t, after, 2)

	require.NoError(t, s.Remove(models.Dislikes, after[1].ID))
	assert.Equal(t, before, s.Dislikes())
}

func TestDuplicateNameIgnoresCase(t *testing.T) {
	for _, kind := range []models.CollectionKind{models.Favorites, models.Dislikes, models.Allergies} {
		t.Run(string(kind), func(t *testing.T) {
			s := newTestStore(t)
			add := func(name string) error {
				var err error
				switch kind {
				case models.Favorites:
					_, err = s.AddFavorite(name, models.Dinner)
				case models.Dislikes:
					_, err = s.AddDislike(name, models.DislikeModerate)
				case models.Allergies:
					_, err = s.AddAllergy(name, models.AllergyModerate)
				}
				return err
			}

			require.NoError(t, add("Peaches"))
			err := add("pEACHES ")
			require.ErrorIs(t, err, ErrDuplicateName)
			assert.Equal(t, 1, s.Len(kind))
			assert.Contains(t, UserMessage(err), `"pEACHES" is already in your`)
		})
	}
}

func TestDislikeConflictsWithFavorite(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddFavorite("Soup", models.Breakfast)
	require.NoError(t, err)

	dislikes, err := s.AddDislike("soup", models.DislikeMild)
	require.ErrorIs(t, err, ErrConflictsWithFavorite)
	assert.Empty(t, dislikes)
	assert.Empty(t, s.Dislikes())
	assert.Equal(t, `"soup" is in your favorite foods list. Please remove it from favorites first.`, s.Notice())
}

func TestFavoriteConflictsWithDislike(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddDislike("Beets", models.DislikeWontEat)
	require.NoError(t, err)

	_, err = s.AddFavorite("BEETS", models.Dinner)
	require.ErrorIs(t, err, ErrConflictsWithDislike)
	assert.Empty(t, s.Favorites())
}

func TestSameNameAllowedAcrossAllergiesAndFavorites(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddFavorite("Peanut Butter", models.Snacks)
	require.NoError(t, err)
	_, err = s.AddAllergy("Peanut Butter", models.AllergyMild)
	assert.NoError(t, err)
}

func TestConflictFlowEndToEnd(t *testing.T) {
	s := newTestStore(t)

	favs, err := s.AddFavorite("Soup", models.Breakfast)
	require.NoError(t, err)

	_, err = s.AddDislike("Soup", models.DislikeMild)
	require.ErrorIs(t, err, ErrConflictsWithFavorite)

	require.NoError(t, s.Remove(models.Favorites, favs[0].ID))

	dislikes, err := s.AddDislike("Soup", models.DislikeMild)
	require.NoError(t, err)
	require.Len(t, dislikes, 1)
	assert.Equal(t, "Soup", dislikes[0].Name)
}

func TestCommonAllergyIsEscalatedToSevere(t *testing.T) {
	s := newTestStore(t)

	allergies, err := s.AddAllergy("shellfish", models.AllergyMild)
	require.NoError(t, err)
	require.Len(t, allergies, 1)
	assert.Equal(t, models.AllergySevere, allergies[0].Severity)
	assert.True(t, allergies[0].IsCommon)

	allergies, err = s.AddAllergy("Kiwi", models.AllergyModerate)
	require.NoError(t, err)
	assert.Equal(t, models.AllergyModerate, allergies[1].Severity)
	assert.False(t, allergies[1].IsCommon)
}

func TestEditReplacesFieldsWithoutUniquenessCheck(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddFavorite("Soup", models.Lunch)
	require.NoError(t, err)
	favs, err := s.AddFavorite("Toast", models.Breakfast)
	require.NoError(t, err)

	favs, err = s.EditFavorite(favs[1].ID, " soup ", models.Dinner)
	require.NoError(t, err)
	assert.Equal(t, models.FavoriteFood{ID: "item-2", Name: "soup", Category: models.Dinner}, favs[1])
	assert.Equal(t, "Soup", favs[0].Name)
}

func TestEditUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddDislike("Okra", models.DislikeMild)
	require.NoError(t, err)
	before := s.Dislikes()

	after, err := s.EditDislike("missing", "Kale", models.DislikeWontEat)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEditAllergyKeepsCommonFlag(t *testing.T) {
	s := newTestStore(t)
	allergies, err := s.AddAllergy("Eggs", models.AllergyMild)
	require.NoError(t, err)

	allergies, err = s.EditAllergy(allergies[0].ID, "Egg whites", models.AllergyModerate)
	require.NoError(t, err)
	assert.Equal(t, "Egg whites", allergies[0].Name)
	assert.Equal(t, models.AllergyModerate, allergies[0].Severity)
	assert.True(t, allergies[0].IsCommon)

	_, err = s.EditAllergy(allergies[0].ID, " ", models.AllergyMild)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, "Egg whites", s.Allergies()[0].Name)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddAllergy("Kiwi", models.AllergyMild)
	require.NoError(t, err)

	require.NoError(t, s.Remove(models.Allergies, "missing"))
	assert.Len(t, s.Allergies(), 1)

	assert.ErrorIs(t, s.Remove("notes", "item-1"), models.ErrInvalidCollection)
}

func TestIDsUniqueWithDefaultGenerator(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		favs, err := s.AddFavorite(fmt.Sprintf("Food %d", i), models.Snacks)
		require.NoError(t, err)
		id := favs[len(favs)-1].ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSetNotesBoundary(t *testing.T) {
	s := newTestStore(t)

	exact := strings.Repeat("a", models.NotesMaxLength)
	require.NoError(t, s.SetNotes(exact))
	assert.Equal(t, exact, s.Notes())
	assert.Equal(t, 0, s.NotesRemaining())

	err := s.SetNotes(exact + "b")
	require.ErrorIs(t, err, ErrTooLong)
	assert.Equal(t, exact, s.Notes())
}

func TestSetNotesCountsCharactersNotBytes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetNotes(strings.Repeat("é", models.NotesMaxLength)))
	require.NoError(t, s.SetNotes("Soft foods only"))
	assert.Equal(t, models.NotesMaxLength-15, s.NotesRemaining())
}

func TestSubmitRequiresFavorite(t *testing.T) {
	var handed []models.Preferences
	s := newTestStore(t, WithSubmitHandler(func(p models.Preferences) {
		handed = append(handed, p)
	}))
	_, err := s.AddAllergy("Kiwi", models.AllergyMild)
	require.NoError(t, err)

	_, err = s.Submit()
	require.ErrorIs(t, err, ErrMissingFavorite)
	assert.Empty(t, handed)
	assert.Equal(t, "Please add at least one favorite food", s.Notice())
}

func TestSubmitHandsOffSnapshotAndClearsNotice(t *testing.T) {
	var handed []models.Preferences
	s := newTestStore(t, WithSubmitHandler(func(p models.Preferences) {
		handed = append(handed, p)
	}))
	_, err := s.AddFavorite("Oatmeal", models.Breakfast)
	require.NoError(t, err)
	_, _ = s.AddFavorite("oatmeal", models.Breakfast)
	require.NotEmpty(t, s.Notice())
	require.NoError(t, s.SetNotes("Cut food into small pieces"))

	snap, err := s.Submit()
	require.NoError(t, err)
	require.Len(t, handed, 1)
	assert.Equal(t, snap, handed[0])
	assert.Equal(t, "Cut food into small pieces", snap.Notes)
	assert.Empty(t, s.Notice())

	// the snapshot is detached from live state
	_, err = s.AddFavorite("Pancakes", models.Breakfast)
	require.NoError(t, err)
	assert.Len(t, handed[0].Favorites, 1)
}

func TestReturnedCollectionsAreCopies(t *testing.T) {
	s := newTestStore(t)
	favs, err := s.AddFavorite("Rice", models.Dinner)
	require.NoError(t, err)
	favs[0].Name = "Changed"
	assert.Equal(t, "Rice", s.Favorites()[0].Name)
}

func TestNoticeExpires(t *testing.T) {
	s := newTestStore(t, WithNoticeTTL(50*time.Millisecond))
	_, err := s.Submit()
	require.Error(t, err)
	require.NotEmpty(t, s.Notice())

	assert.Eventually(t, func() bool { return s.Notice() == "" }, time.Second, 10*time.Millisecond)
}
