package steps

import (
	"fmt"
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for the sign-up password hash.
var PasswordCost = bcrypt.DefaultCost

// SignUpForm is step 1 for both user types. Influencers give a full name,
// brands a company name.
type SignUpForm struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
	AgreeToTerms    bool   `json:"agreeToTerms"`

	userType domain.UserType
}

func newSignUp(u domain.UserType) Form {
	return &SignUpForm{userType: u}
}

func (f *SignUpForm) Kind() domain.StepKind {
	return domain.StepSignUp
}

func (f *SignUpForm) normalize() {
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
}

func (f *SignUpForm) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check("email", validation.Email(f.Email))
	errs.Check("phone", validation.Phone(f.Phone))
	errs.Check("password", validation.Password(f.Password))
	errs.Check("confirmPassword", validation.PasswordConfirmation(f.Password, f.ConfirmPassword))
	switch f.userType {
	case domain.UserTypeInfluencer:
		errs.Check("fullName", validation.Required(f.FullName, "Full name is required"))
	case domain.UserTypeBrand:
		errs.Check("companyName", validation.Required(f.CompanyName, "Company name is required"))
	}
	errs.Check("agreeToTerms", validation.Present(f.AgreeToTerms, "You must agree to the terms and conditions"))
	return errs
}

// Payload carries a bcrypt hash in place of the password and its confirmation.
func (f *SignUpForm) Payload() (domain.Data, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	data := domain.Data{
		domain.KeyEmail:        f.Email,
		domain.KeyPhone:        f.Phone,
		domain.KeyPasswordHash: string(hash),
		domain.KeyAgreeToTerms: f.AgreeToTerms,
	}
	if f.userType == domain.UserTypeBrand {
		data[domain.KeyCompanyName] = strings.TrimSpace(f.CompanyName)
	} else {
		data[domain.KeyFullName] = strings.TrimSpace(f.FullName)
	}
	return data, nil
}
