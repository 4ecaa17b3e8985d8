package preferences

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultNoticeTTL is how long a validation message stays visible.
const DefaultNoticeTTL = 3 * time.Second

const noticeKey = "notice"

// Notice holds the single short-lived, user-facing validation message.
// Posting a message replaces the previous one and restarts its lifetime,
// so an older failure can never clear a newer message.
type Notice struct {
	entries *cache.Cache
}

func NewNotice(ttl time.Duration) *Notice {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	// no janitor: expired entries are filtered on read
	return &Notice{entries: cache.New(ttl, 0)}
}

func (n *Notice) Post(msg string) {
	n.entries.Set(noticeKey, msg, cache.DefaultExpiration)
}

// Current returns the visible message, or "" once it has expired.
func (n *Notice) Current() string {
	if v, found := n.entries.Get(noticeKey); found {
		return v.(string)
	}
	return ""
}

func (n *Notice) Clear() {
	n.entries.Delete(noticeKey)
}
