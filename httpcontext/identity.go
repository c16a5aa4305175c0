package httpcontext

// Claim is a single typed attribute of an authenticated identity.
type Claim struct {
	Type   string `json:"typ"`
	Value  string `json:"val"`
	Issuer string `json:"iss,omitempty"`
}

// Well-known claim types used by the auth middleware.
const (
	ClaimTypeName = "name"
	ClaimTypeRole = "role"
)

// Identity is the flat claims set attached to a request after a
// successful authentication step. The set is read-only after issuance.
type Identity struct {
	claims []Claim
}

func NewIdentity(claims ...Claim) *Identity {
	cp := make([]Claim, len(claims))
	copy(cp, claims)
	return &Identity{claims: cp}
}

// Claims returns a copy of the claim set.
func (i *Identity) Claims() []Claim {
	cp := make([]Claim, len(i.claims))
	copy(cp, i.claims)
	return cp
}

// Name returns the value of the first name claim, or "".
func (i *Identity) Name() string {
	for _, c := range i.claims {
		if c.Type == ClaimTypeName {
			return c.Value
		}
	}
	return ""
}

// HasClaim reports whether the identity carries a claim of the given
// type and value.
func (i *Identity) HasClaim(typ, value string) bool {
	for _, c := range i.claims {
		if c.Type == typ && c.Value == value {
			return true
		}
	}
	return false
}

// HasRole reports whether the identity carries a role claim with the
// given value.
func (i *Identity) HasRole(role string) bool {
	return i.HasClaim(ClaimTypeRole, role)
}
