package steps

import (
	"context"
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
)

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetbanking PaymentMethod = "netbanking"
)

type PaymentDetails struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holderName"`
	UPIID      string `json:"upiId"`
}

// MaskedPayment is what survives of the payment details in the onboarding data.
type MaskedPayment struct {
	CardLast4  string `json:"cardLast4,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	HolderName string `json:"holderName,omitempty"`
	UPIID      string `json:"upiId,omitempty"`
}

// SubscriptionForm is the last brand step. It is accepted after the payment
// delay and creates the brand profile.
type SubscriptionForm struct {
	SelectedPlan   domain.PlanID  `json:"selectedPlan"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

func newSubscription(domain.UserType) Form {
	return &SubscriptionForm{PaymentMethod: PaymentCard}
}

func (f *SubscriptionForm) Kind() domain.StepKind {
	return domain.StepSubscription
}

func (f *SubscriptionForm) normalize() {
	if f.PaymentMethod == "" {
		f.PaymentMethod = PaymentCard
	}
}

// Validate stops at the plan: without a plan no payment field is checked.
func (f *SubscriptionForm) Validate() validation.Errors {
	errs := validation.Errors{}
	if _, err := domain.LookupPlan(f.SelectedPlan); err != nil {
		errs.Check("plan", "Please select a subscription plan")
		return errs
	}

	d := f.PaymentDetails
	switch f.PaymentMethod {
	case PaymentCard:
		errs.Check("cardNumber", validation.CardNumber(d.CardNumber))
		errs.Check("expiryDate", validation.CardExpiry(d.ExpiryDate))
		errs.Check("cvv", validation.CVV(d.CVV))
		errs.Check("holderName", validation.Required(d.HolderName, "Cardholder name is required"))
	case PaymentUPI:
		errs.Check("upiId", validation.UPIID(d.UPIID))
	case PaymentNetbanking:
	default:
		errs.Check("paymentMethod", "Please select a payment method")
	}
	return errs
}

// Masked keeps the last four card digits and drops the CVV.
func (f *SubscriptionForm) Masked() MaskedPayment {
	d := f.PaymentDetails
	switch f.PaymentMethod {
	case PaymentCard:
		digits := validation.StripSpaces(d.CardNumber)
		last4 := digits
		if len(digits) > 4 {
			last4 = digits[len(digits)-4:]
		}
		return MaskedPayment{
			CardLast4:  last4,
			ExpiryDate: d.ExpiryDate,
			HolderName: strings.TrimSpace(d.HolderName),
		}
	case PaymentUPI:
		return MaskedPayment{UPIID: d.UPIID}
	default:
		return MaskedPayment{}
	}
}

func (f *SubscriptionForm) Payload() (domain.Data, error) {
	return domain.Data{
		domain.KeySelectedPlan:   f.SelectedPlan,
		domain.KeyPaymentMethod:  f.PaymentMethod,
		domain.KeyPaymentDetails: f.Masked(),
	}, nil
}

// Profile builds the brand profile from the sign-up and business KYC data.
func (f *SubscriptionForm) Profile(env CommitEnv) (domain.BrandProfile, error) {
	plan, err := domain.LookupPlan(f.SelectedPlan)
	if err != nil {
		return domain.BrandProfile{}, err
	}
	return domain.BrandProfile{
		ID:          domain.NewID(),
		CompanyName: env.Data.String(domain.KeyCompanyName),
		Email:       env.Data.String(domain.KeyEmail),
		Phone:       env.Data.String(domain.KeyPhone),
		GST:         env.Data.String(domain.KeyGSTNumber),
		PAN:         env.Data.String(domain.KeyPANNumber),
		Subscription: domain.Subscription{
			Plan:        plan.ID,
			Status:      domain.SubscriptionActive,
			RenewalDate: plan.RenewalDate(env.Now),
		},
		Campaigns: []domain.BrandCampaign{},
	}, nil
}

func (f *SubscriptionForm) Commit(ctx context.Context, env CommitEnv) error {
	p, err := f.Profile(env)
	if err != nil {
		return err
	}
	return env.Store.SetBrandProfile(ctx, &p)
}
