package steps

import (
	"strings"

	"github.com/kapu/collabhub-go/internal/domain"
	"github.com/kapu/collabhub-go/internal/validation"
)

// BusinessKYCForm is the brand company verification step.
type BusinessKYCForm struct {
	CompanyName       string          `json:"companyName"`
	GSTNumber         string          `json:"gstNumber"`
	PANNumber         string          `json:"panNumber"`
	RegisteredAddress string          `json:"registeredAddress"`
	DirectorName      string          `json:"directorName"`
	DirectorPAN       string          `json:"directorPan"`
	GSTDocument       *domain.FileRef `json:"gstDocument"`
	PANDocument       *domain.FileRef `json:"panDocument"`
	AddressProof      *domain.FileRef `json:"addressProof"`
	DirectorIDProof   *domain.FileRef `json:"directorIdProof"`
}

func newBusinessKYC(domain.UserType) Form {
	return &BusinessKYCForm{}
}

func (f *BusinessKYCForm) Kind() domain.StepKind {
	return domain.StepBusinessKYC
}

func (f *BusinessKYCForm) normalize() {
	f.GSTNumber = strings.ToUpper(strings.TrimSpace(f.GSTNumber))
	f.PANNumber = strings.ToUpper(strings.TrimSpace(f.PANNumber))
	f.DirectorPAN = strings.ToUpper(strings.TrimSpace(f.DirectorPAN))
}

func (f *BusinessKYCForm) resolveFiles(files FileLookup) {
	f.GSTDocument = resolveRef(f.GSTDocument, files)
	f.PANDocument = resolveRef(f.PANDocument, files)
	f.AddressProof = resolveRef(f.AddressProof, files)
	f.DirectorIDProof = resolveRef(f.DirectorIDProof, files)
}

func (f *BusinessKYCForm) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check("companyName", validation.Required(f.CompanyName, "Company name is required"))
	errs.Check("gstNumber", validation.GST(f.GSTNumber))
	errs.Check("panNumber", validation.PAN(f.PANNumber, "Company PAN is required"))
	errs.Check("registeredAddress", validation.Required(f.RegisteredAddress, "Registered address is required"))
	errs.Check("directorName", validation.Required(f.DirectorName, "Director name is required"))
	errs.Check("directorPan", validation.PAN(f.DirectorPAN, "Director PAN is required"))
	errs.Check("gstDocument", validation.Present(hasFile(f.GSTDocument), "GST certificate is required"))
	errs.Check("panDocument", validation.Present(hasFile(f.PANDocument), "Company PAN document is required"))
	errs.Check("addressProof", validation.Present(hasFile(f.AddressProof), "Address proof is required"))
	errs.Check("directorIdProof", validation.Present(hasFile(f.DirectorIDProof), "Director ID proof is required"))
	return errs
}

func (f *BusinessKYCForm) Payload() (domain.Data, error) {
	return domain.Data{
		domain.KeyCompanyName: strings.TrimSpace(f.CompanyName),
		domain.KeyGSTNumber:   f.GSTNumber,
		domain.KeyPANNumber:   f.PANNumber,
		"registeredAddress":   strings.TrimSpace(f.RegisteredAddress),
		"directorName":        strings.TrimSpace(f.DirectorName),
		"directorPan":         f.DirectorPAN,
		"gstDocument":         fileValue(f.GSTDocument),
		"panDocument":         fileValue(f.PANDocument),
		"addressProof":        fileValue(f.AddressProof),
		"directorIdProof":     fileValue(f.DirectorIDProof),
	}, nil
}
