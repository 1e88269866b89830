package steps

import (
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
)

// KYCForm is the influencer identity verification step.
type KYCForm struct {
	PANNumber       string          `json:"panNumber"`
	AadhaarNumber   string          `json:"aadhaarNumber"`
	PANDocument     *domain.FileRef `json:"panDocument"`
	AadhaarDocument *domain.FileRef `json:"aadhaarDocument"`
	SelfieDocument  *domain.FileRef `json:"selfieDocument"`
}

func newKYC(domain.UserType) Form {
	return &KYCForm{}
}

func (f *KYCForm) Kind() domain.StepKind {
	return domain.StepKYC
}

func (f *KYCForm) normalize() {
	f.PANNumber = strings.ToUpper(strings.TrimSpace(f.PANNumber))
	f.AadhaarNumber = strings.TrimSpace(f.AadhaarNumber)
}

func (f *KYCForm) resolveFiles(files FileLookup) {
	f.PANDocument = resolveRef(f.PANDocument, files)
	f.AadhaarDocument = resolveRef(f.AadhaarDocument, files)
	f.SelfieDocument = resolveRef(f.SelfieDocument, files)
}

func (f *KYCForm) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check("panNumber", validation.PAN(f.PANNumber, "PAN number is required"))
	errs.Check("aadhaarNumber", validation.Aadhaar(f.AadhaarNumber))
	errs.Check("panDocument", validation.Present(hasFile(f.PANDocument), "PAN document is required"))
	errs.Check("aadhaarDocument", validation.Present(hasFile(f.AadhaarDocument), "Aadhaar document is required"))
	errs.Check("selfieDocument", validation.Present(hasFile(f.SelfieDocument), "Selfie verification is required"))
	return errs
}

func (f *KYCForm) Payload() (domain.Data, error) {
	return domain.Data{
		domain.KeyPANNumber:     f.PANNumber,
		domain.KeyAadhaarNumber: f.AadhaarNumber,
		"panDocument":           fileValue(f.PANDocument),
		"aadhaarDocument":       fileValue(f.AadhaarDocument),
		"selfieDocument":        fileValue(f.SelfieDocument),
	}, nil
}
