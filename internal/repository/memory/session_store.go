package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionStore keeps per-member orchestration state keyed by member id.
// Values are opaque here; the service layer owns the concrete type.
type SessionStore struct {
	cache *cache.Cache
}

func NewSessionStore(ttl, purgeInterval time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, purgeInterval),
	}
}

func (s *SessionStore) Save(memberId string, state interface{}) {
	s.cache.Set(memberId, state, cache.DefaultExpiration)
}

func (s *SessionStore) Get(memberId string) (interface{}, bool) {
	return s.cache.Get(memberId)
}

func (s *SessionStore) Delete(memberId string) {
	s.cache.Delete(memberId)
}

// Touch refreshes the TTL so an active member is not evicted mid-session.
func (s *SessionStore) Touch(memberId string) {
	if x, found := s.cache.Get(memberId); found {
		s.cache.Set(memberId, x, cache.DefaultExpiration)
	}
}

// OnEvicted installs the teardown hook invoked when an idle member's state
// expires. The hook must behave like an unmount: same teardown path, once.
func (s *SessionStore) OnEvicted(fn func(memberId string, state interface{})) {
	s.cache.OnEvicted(fn)
}
