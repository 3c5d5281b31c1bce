package hasher

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes passwords with a configurable work factor.
type Bcrypt struct {
	cost int
}

// NewBcrypt clamps cost into the range bcrypt accepts; zero or
// negative selects the library default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost}
}

// Hash hashes the plain text password using bcrypt
func (b *Bcrypt) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compares a bcrypt hash with a plain password. A malformed
// hash verifies false, it never errors out.
func (b *Bcrypt) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
