// Package access issues capability tokens for gated mutations such as
// administrator price overrides. The credential itself comes from
// configuration; the rest of the code only ever sees a *Token.
package access

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Permission a single gated capability
type Permission string

const (
	PermissionPriceOverride Permission = "price_override"
	PermissionCatalogEdit   Permission = "catalog_edit"
)

// DefaultTTL token lifetime when none is configured
const DefaultTTL = 24 * time.Hour

var (
	ErrEmptyCredential   = errors.New("admin credential is not configured")
	ErrInvalidCredential = errors.New("invalid admin credential")
)

// Token capability handed to gated operations. Zero or nil tokens grant nothing.
type Token struct {
	id          string
	holder      int64
	permissions map[Permission]struct{}
	issuedAt    time.Time
	expiresAt   time.Time
}

// ID unique token id
func (t *Token) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Holder user the token was issued to
func (t *Token) Holder() int64 {
	if t == nil {
		return 0
	}
	return t.holder
}

// ExpiresAt expiry moment
func (t *Token) ExpiresAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.expiresAt
}

// Allows reports whether the token grants perm at the given moment.
func (t *Token) Allows(perm Permission, now time.Time) bool {
	if t == nil || t.id == "" {
		return false
	}
	if !now.Before(t.expiresAt) {
		return false
	}
	_, ok := t.permissions[perm]
	return ok
}

// Issuer checks the configured credential and mints tokens
type Issuer struct {
	credential []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewIssuer issuer for the given credential; ttl <= 0 falls back to DefaultTTL
func NewIssuer(credential string, ttl time.Duration) (*Issuer, error) {
	if credential == "" {
		return nil, ErrEmptyCredential
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		credential: []byte(credential),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Issue returns a token for holder when presented matches the credential.
func (i *Issuer) Issue(holder int64, presented string) (*Token, error) {
	if subtle.ConstantTimeCompare(i.credential, []byte(presented)) != 1 {
		return nil, ErrInvalidCredential
	}
	now := i.now()
	return &Token{
		id:     uuid.New().String(),
		holder: holder,
		permissions: map[Permission]struct{}{
			PermissionPriceOverride: {},
			PermissionCatalogEdit:   {},
		},
		issuedAt:  now,
		expiresAt: now.Add(i.ttl),
	}, nil
}

// TTL configured token lifetime
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
