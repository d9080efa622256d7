package security

import "golang.org/x/crypto/bcrypt"

// PasswordComparer checks a login attempt against the bcrypt hash stored
// for a seeded demo user. There is no signup, so hashes are only ever
// produced at seed time and the API only verifies.
type PasswordComparer interface {
	Compare(hashedPassword, password string) error
}

type bcryptComparer struct{}

// NewBcryptComparer returns a PasswordComparer backed by bcrypt.
func NewBcryptComparer() PasswordComparer {
	return bcryptComparer{}
}

func (bcryptComparer) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
