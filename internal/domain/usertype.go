package domain

import (
	"fmt"
	"strings"
)

// UserType selects which onboarding sequence and dashboard a session gets.
// It is fixed once onboarding starts.
type UserType string

const (
	UserTypeInfluencer UserType = "influencer"
	UserTypeBrand      UserType = "brand"
)

func (u UserType) String() string {
	return string(u)
}

func (u UserType) IsValid() bool {
	switch u {
	case UserTypeInfluencer, UserTypeBrand:
		return true
	default:
		return false
	}
}

// DisplayName is the heading used by the onboarding screens.
func (u UserType) DisplayName() string {
	switch u {
	case UserTypeInfluencer:
		return "Creator"
	case UserTypeBrand:
		return "Brand"
	default:
		return ""
	}
}

func ParseUserType(value string) (UserType, error) {
	u := UserType(strings.ToLower(strings.TrimSpace(value)))
	if !u.IsValid() {
		return "", fmt.Errorf("unknown user type %q", value)
	}
	return u, nil
}
