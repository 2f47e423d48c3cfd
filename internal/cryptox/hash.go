package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a login password with bcrypt using the given cost
// (pass 0 to use bcrypt.DefaultCost). bcrypt salts internally, so two
// calls on the same password return different strings that both verify.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// Malformed hash strings simply yield false, never an error or panic.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
