package auth

import (
	"context"
	"sync"
	"time"
)

// RoleFunc resolves the authoritative role for a user, normally from the
// users table. The token claim is only a routing hint; anything that gates
// privileged operations goes through the oracle.
type RoleFunc func(ctx context.Context, userID string) (string, error)

type cachedRole struct {
	role      string
	expiresAt time.Time
}

// RoleOracle is the single source of truth for role checks. Results are
// cached per user with a TTL so a session costs one lookup, not one per
// request.
type RoleOracle struct {
	lookup RoleFunc
	ttl    time.Duration

	mu    sync.RWMutex
	cache map[string]cachedRole
}

func NewRoleOracle(lookup RoleFunc, ttl time.Duration) *RoleOracle {
	return &RoleOracle{
		lookup: lookup,
		ttl:    ttl,
		cache:  make(map[string]cachedRole),
	}
}

// RoleFor returns the user's current role.
func (o *RoleOracle) RoleFor(ctx context.Context, userID string) (string, error) {
	o.mu.RLock()
	entry, ok := o.cache[userID]
	o.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.role, nil
	}

	role, err := o.lookup(ctx, userID)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	o.cache[userID] = cachedRole{role: role, expiresAt: time.Now().Add(o.ttl)}
	o.mu.Unlock()

	return role, nil
}

// HasRole reports whether the user currently holds the given role.
func (o *RoleOracle) HasRole(ctx context.Context, userID, role string) (bool, error) {
	got, err := o.RoleFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return got == role, nil
}

// Invalidate drops the cached role for a user, e.g. after a role change.
func (o *RoleOracle) Invalidate(userID string) {
	o.mu.Lock()
	delete(o.cache, userID)
	o.mu.Unlock()
}
