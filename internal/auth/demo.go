package auth

import (
	"errors"
)

// DemoPassword is the secret shared by every demo account.
const DemoPassword = "demo123"

// DemoToken is handed out on every successful login. It is not signed and never checked.
const DemoToken = "demo-jwt-token"

// ErrInvalidCredentials is returned when the user id or password does not match a demo account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the login request body.
type Credentials struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// User is the session user returned to the client.
type User struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

// Session is the login response payload.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type account struct {
	role string
	name string
}

var demoAccounts = map[string]account{
	"ADMIN001": {role: "admin", name: "System Administrator"},
	"FAC001":   {role: "faculty", name: "Dr. Michael Chen"},
	"STU001":   {role: "student", name: "Alice Johnson"},
}

// Login checks the credentials against the demo accounts. The requested role is ignored;
// the account's own role is returned.
func Login(c Credentials) (Session, error) {
	acc, ok := demoAccounts[c.UserID]
	if !ok || c.Password != DemoPassword {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		Token: DemoToken,
		User: User{
			UserID: c.UserID,
			Role:   acc.role,
			Name:   acc.name,
		},
	}, nil
}
