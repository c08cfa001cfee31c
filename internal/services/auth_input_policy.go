package services

import (
	"errors"
	"net/mail"
	"strings"
)

const minPasswordLength = 6

var (
	ErrRegistrationInvalid = errors.New("username, email and password are required")
	ErrEmailInvalid        = errors.New("invalid email address")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
)

type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeRegistrationInput(usernameRaw string, emailRaw string, passwordRaw string) (RegistrationInput, error) {
	username := strings.TrimSpace(usernameRaw)
	password := passwordRaw
	if username == "" || strings.TrimSpace(emailRaw) == "" || password == "" {
		return RegistrationInput{}, ErrRegistrationInvalid
	}

	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return RegistrationInput{}, ErrEmailInvalid
	}
	if len(password) < minPasswordLength {
		return RegistrationInput{}, ErrPasswordTooShort
	}

	return RegistrationInput{
		Username: username,
		Email:    email,
		Password: password,
	}, nil
}

func NormalizeCredentialsInput(usernameRaw string, passwordRaw string) (string, string, error) {
	username := strings.TrimSpace(usernameRaw)
	password := passwordRaw
	if username == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}
	return username, password, nil
}
