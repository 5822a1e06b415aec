// Package session holds the authenticated session record: the raw bearer
// token and the user data decoded from it. Both halves are written and
// removed together; a reader never observes one without the other.
package session

import "strings"

// claim keys emitted by ASP.NET style token issuers alongside the short forms.
const (
	roleClaimURI  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	nameClaimURI  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	emailClaimURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

// UserData is the decoded token payload. Claims are kept as decoded so
// nothing the backend sends is lost.
type UserData map[string]any

func (u UserData) str(keys ...string) string {
	for _, k := range keys {
		if s, ok := u[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// RoleClaim returns the raw role claim. A single-element array is unwrapped;
// anything else that is not a string yields "".
func (u UserData) RoleClaim() string {
	for _, k := range []string{"role", roleClaimURI} {
		switch v := u[k].(type) {
		case string:
			return v
		case []any:
			if len(v) == 1 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

func (u UserData) Email() string {
	return u.str("email", emailClaimURI)
}

// Name falls back to the email when the token carries no display name.
func (u UserData) Name() string {
	if n := u.str("name", "unique_name", nameClaimURI); n != "" {
		return n
	}
	return u.Email()
}

func (u UserData) FlatNumber() string {
	return strings.TrimSpace(u.str("flatNumber", "flat"))
}

func (u UserData) clone() UserData {
	if u == nil {
		return nil
	}
	c := make(UserData, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// Record is the persisted session. The zero value means "not authenticated".
type Record struct {
	Token    string
	UserData UserData
}

func (r Record) Authenticated() bool {
	return r.Token != "" && r.UserData != nil
}

func (r Record) clone() Record {
	return Record{Token: r.Token, UserData: r.UserData.clone()}
}
