package utils

import "golang.org/x/crypto/bcrypt"

// HashPin returns the bcrypt hash of a terminal PIN using the given cost.
// Used to provision the kiosk exit PIN, which is verified locally so a
// kiosk can be unlocked even when the billing service is unreachable.
func HashPin(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPin safely compares a bcrypt hash and a plain PIN.
func VerifyPin(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
