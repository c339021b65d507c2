package services

// PasswordHasher abstracts one-way credential hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) error
}
