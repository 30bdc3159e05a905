package library

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validateUsername(username string) []string {
	var violations []string
	if len(username) < 2 {
		violations = append(violations, "username must be at least 2 characters long")
	}
	if !usernameRe.MatchString(username) {
		violations = append(violations, "username may only contain letters and spaces")
	}
	if username != strings.TrimSpace(username) {
		violations = append(violations, "username must not start or end with a space")
	}
	return violations
}

// Signup registers a new user. The validation error message enumerates every
// violated rule; a case-insensitive email collision fails with
// DuplicateEmail. Signing up does not establish a session.
func (l *Library) Signup(username, email, password string) (*User, error) {
	violations := validateUsername(username)
	if !emailRe.MatchString(email) {
		violations = append(violations, "email must look like name@example.com")
	}
	if len(password) < 6 {
		violations = append(violations, "password must be at least 6 characters long")
	}
	if len(violations) > 0 {
		return nil, &Error{Kind: KindValidation, Message: strings.Join(violations, "; ")}
	}

	if l.userByEmail(email) != nil {
		return nil, &Error{
			Kind:    KindDuplicateEmail,
			Message: fmt.Sprintf("a user with email %s already exists", email),
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           l.ids.NewUserID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.now(),
	}
	l.snap.Users = append(l.snap.Users, u)
	if err := l.persist(); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates by case-insensitive email and password and sets the
// persisted session. Both an unknown email and a wrong password fail with
// the same InvalidCredentials error.
func (l *Library) Login(email, password string) (*User, error) {
	u := l.userByEmail(email)
	if u == nil {
		return nil, &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	}
	l.snap.CurrentUser = u
	if err := l.persist(); err != nil {
		return nil, err
	}
	return u, nil
}

// RequestLogout prepares clearing the session; nothing changes until the
// returned Confirmation is confirmed.
func (l *Library) RequestLogout() *Confirmation {
	return &Confirmation{apply: func() error {
		l.snap.CurrentUser = nil
		return l.persist()
	}}
}

// CurrentUser returns the authenticated user, or nil. The session is
// rehydrated from the persisted snapshot at open, so it survives restarts.
func (l *Library) CurrentUser() *User { return l.snap.CurrentUser }

func (l *Library) userByEmail(email string) *User {
	for _, u := range l.snap.Users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (l *Library) userByID(id string) *User {
	for _, u := range l.snap.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
