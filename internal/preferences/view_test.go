package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionViewPaging(t *testing.T) {
	v := NewSectionView()

	shown, more := v.Window(12)
	assert.Equal(t, 5, shown)
	assert.True(t, more)

	v = v.LoadMore(12)
	shown, more = v.Window(12)
	assert.Equal(t, 10, shown)
	assert.True(t, more)

	v = v.LoadMore(12)
	shown, more = v.Window(12)
	assert.Equal(t, 12, shown)
	assert.False(t, more)

	shown, more = NewSectionView().Window(3)
	assert.Equal(t, 3, shown)
	assert.False(t, more)
}

func TestSectionViewEditing(t *testing.T) {
	v := NewSectionView().StartEdit("item-2")
	assert.True(t, v.IsEditing("item-2"))
	assert.False(t, v.IsEditing("item-1"))

	v = v.CancelEdit()
	assert.False(t, v.IsEditing("item-2"))
	assert.False(t, v.IsEditing(""))
}
