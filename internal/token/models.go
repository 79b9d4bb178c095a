package token

import "time"

// Principal is the authenticated identity plus the tenant domain it is scoped
// to. It is immutable once issued into a token; changing domain requires
// re-authentication.
type Principal struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Domain   string `json:"domain"`
}

// TokenPair is the result of issuance or rotation. The access token is
// stateless-verifiable; the refresh token is an opaque identifier resolvable
// only against the session store.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	IssuedAt         time.Time `json:"issued_at"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Principal        Principal `json:"principal"`
}

// SessionRecord is the cache entry behind a refresh token. It is consumed at
// most once; consumption is the rotation exclusivity primitive. AccessJTI and
// AccessExpiresAt track the most recently issued access token so bulk
// revocation can blacklist it for its remaining lifetime.
type SessionRecord struct {
	UID             string    `json:"uid"`
	Username        string    `json:"username"`
	Domain          string    `json:"domain"`
	IssuedAt        time.Time `json:"issued_at"`
	RotationCount   int       `json:"rotation_count"`
	AccessJTI       string    `json:"access_jti"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// Principal reconstructs the principal held in the record.
func (r SessionRecord) Principal() Principal {
	return Principal{UID: r.UID, Username: r.Username, Domain: r.Domain}
}

// MaxRotations bounds a single rotation chain. A session that has rotated this
// many times must re-authenticate.
const MaxRotations = 1000
