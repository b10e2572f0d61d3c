package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens issued by the identity service.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	Role       UserRole `json:"role"`
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Department string   `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the caller a workflow operation acts on behalf of.
type Actor struct {
	ID         string
	Role       UserRole
	Department string
}

// ActorFromClaims converts token claims into an Actor.
func ActorFromClaims(claims *JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.UserID, Role: claims.Role, Department: claims.Department}
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsHOD reports whether the actor is a head of department.
func (a Actor) IsHOD() bool { return a.Role == RoleHOD }
