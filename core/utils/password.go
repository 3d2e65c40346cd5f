package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a password with bcrypt. OAuth-provisioned users get a
// random placeholder hashed through here so the column is never empty.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hashed string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
