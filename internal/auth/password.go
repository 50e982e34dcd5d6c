package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ResolveAdminHash returns the admin password hash to verify logins
// against. A pre-computed hash wins; otherwise a plaintext password is
// hashed at the configured cost. Empty when neither is set, which
// disables admin login.
func ResolveAdminHash(hash, password string, cost int) (string, error) {
	if hash != "" {
		return hash, nil
	}
	if password == "" {
		return "", nil
	}
	return HashPassword(password, cost)
}
