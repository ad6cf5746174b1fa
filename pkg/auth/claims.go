package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID       uuid.UUID
	DistributerID *uuid.UUID
	IsAdmin       bool
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients. Staff
// actors carry only actor_id; distributer sessions set distributer_id
// so ledger routes can scope queries without a lookup.
type AccessTokenClaims struct {
	ActorID       uuid.UUID  `json:"actor_id"`
	DistributerID *uuid.UUID `json:"distributer_id,omitempty"`
	IsAdmin       bool       `json:"is_admin"`
	jwt.RegisteredClaims
}
