package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoticeNewerMessageOutlivesOlderLifetime(t *testing.T) {
	ttl := 200 * time.Millisecond
	n := NewNotice(ttl)

	n.Post("first")
	time.Sleep(ttl / 2)
	n.Post("second")

	// past the first message's expiry but inside the second's
	time.Sleep(ttl/2 + 30*time.Millisecond)
	assert.Equal(t, "second", n.Current())

	assert.Eventually(t, func() bool { return n.Current() == "" }, time.Second, 10*time.Millisecond)
}

func TestNoticeClear(t *testing.T) {
	n := NewNotice(time.Minute)
	n.Post("oops")
	assert.Equal(t, "oops", n.Current())
	n.Clear()
	assert.Empty(t, n.Current())
}

func TestNoticeDefaultTTL(t *testing.T) {
	n := NewNotice(0)
	n.Post("still here")
	assert.Equal(t, "still here", n.Current())
}
