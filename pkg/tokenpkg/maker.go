package tokenpkg

import (
	"fmt"
	"time"
)

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for the specific user and duration.
	CreateToken(userID int64, email string, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// Token kinds accepted by New.
const (
	KindPaseto = "paseto"
	KindJWT    = "jwt"
)

// New returns the Maker of the given kind.
func New(kind, symmetricKey string) (Maker, error) {
	switch kind {
	case KindPaseto, "":
		m, err := NewPasetoMaker(symmetricKey)
		if err != nil {
			return nil, err
		}

		return m, nil
	case KindJWT:
		m, err := NewJWTMaker(symmetricKey)
		if err != nil {
			return nil, err
		}

		return m, nil
	}

	return nil, fmt.Errorf("unsupported token kind %q", kind)
}
