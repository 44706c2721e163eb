package domain

// LegacyAdminUserID is the reserved token subject issued by the old shared
// admin login. Tokens carrying it resolve to AdminIdentity without a lookup.
const LegacyAdminUserID = "admin"

// IdentityKind names the variant of a resolved Identity.
type IdentityKind string

const (
	KindFull     IdentityKind = "full"
	KindDegraded IdentityKind = "degraded"
	KindAdmin    IdentityKind = "admin"
)

// Identity is the resolved caller of a request. The set of implementations is
// closed: FullIdentity, DegradedIdentity and AdminIdentity. Callers that need
// variant-specific data type-switch on it.
type Identity interface {
	Kind() IdentityKind
	UserID() string
	Username() string
	DisplayName() string
	// Privileged reports admin/teacher rights. Only a verified row or the
	// legacy admin sentinel can grant them.
	Privileged() bool

	sealed()
}

// FullIdentity is backed by a freshly looked-up user row.
type FullIdentity struct {
	User User
}

func (f FullIdentity) Kind() IdentityKind  { return KindFull }
func (f FullIdentity) UserID() string      { return f.User.ID }
func (f FullIdentity) Username() string    { return f.User.Username }
func (f FullIdentity) DisplayName() string { return f.User.DisplayName }
func (f FullIdentity) Privileged() bool    { return f.User.IsAdminOrTeacher() }
func (FullIdentity) sealed()               {}

// DegradedIdentity is built from token claims alone while the user store is
// unreachable. It never carries elevated rights.
type DegradedIdentity struct {
	ID   string
	Name string
}

func (d DegradedIdentity) Kind() IdentityKind  { return KindDegraded }
func (d DegradedIdentity) UserID() string      { return d.ID }
func (d DegradedIdentity) Username() string    { return d.Name }
func (d DegradedIdentity) DisplayName() string { return d.Name }
func (DegradedIdentity) Privileged() bool      { return false }
func (DegradedIdentity) sealed()               {}

// AdminIdentity is the synthesized identity for the legacy admin sentinel.
type AdminIdentity struct{}

func (AdminIdentity) Kind() IdentityKind  { return KindAdmin }
func (AdminIdentity) UserID() string      { return LegacyAdminUserID }
func (AdminIdentity) Username() string    { return LegacyAdminUserID }
func (AdminIdentity) DisplayName() string { return "Administrator" }
func (AdminIdentity) Privileged() bool    { return true }
func (AdminIdentity) sealed()             {}
