package identity

import "crypto/subtle"

// CredentialProvider answers the two identity questions the resolver
// cannot answer from the record store: which address is the reserved
// admin identity, and whether a presented admin secret is valid.
type CredentialProvider interface {
	AdminEmail() string
	AdminName() string
	VerifyAdminSecret(secret []byte) bool
}

// StaticCredentials is a CredentialProvider backed by configuration
// values.
type StaticCredentials struct {
	Email  string
	Name   string
	Secret []byte
}

func (c StaticCredentials) AdminEmail() string { return c.Email }

func (c StaticCredentials) AdminName() string { return c.Name }

// VerifyAdminSecret compares in constant time.
func (c StaticCredentials) VerifyAdminSecret(secret []byte) bool {
	return subtle.ConstantTimeCompare(c.Secret, secret) == 1
}
