package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for user and content fields.
const (
	minUsernameLen    = 3
	maxUsernameLen    = 50
	maxEmailLen       = 100
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt input limit
	maxDescriptionLen = 255
	maxCommentLen     = 500
	maxTagsPerPhoto   = 5
	maxTagLen         = 50
)

// validateRegistration checks signup inputs and returns the first error found.
func validateRegistration(username, email, password string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return "Username is too short (min 3 characters)."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 50 characters)."
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	return validatePassword(password)
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long (max 100 characters)."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is not a valid address."
	}
	return ""
}

func validatePassword(password string) string {
	if password == "" {
		return "Password is required."
	}
	if len(password) < minPasswordLen {
		return "Password is too short (min 8 characters)."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 characters)."
	}
	return ""
}

// validateComment checks comment text bounds.
func validateComment(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return "Comment is too long (max 500 characters)."
	}
	return ""
}

// validateDescription checks the optional photo description.
func validateDescription(description string) string {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 255 characters)."
	}
	return ""
}

// validateTags checks tag count and length. Blank entries are allowed
// here; the store drops them.
func validateTags(tags []string) string {
	nonBlank := 0
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		nonBlank++
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	if nonBlank > maxTagsPerPhoto {
		return "Too many tags (max 5)."
	}
	return ""
}
