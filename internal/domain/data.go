package domain

// Data is the accumulated onboarding answers keyed by field name.
type Data map[string]any

// Merge copies every key of src into d. Later values win.
func (d Data) Merge(src Data) {
	for k, v := range src {
		d[k] = v
	}
}

// Clone returns a shallow copy of d.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the string stored under key, or "" when absent or not a string.
func (d Data) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Well-known keys written by the step forms and read when profiles are created.
const (
	KeyEmail          = "email"
	KeyPhone          = "phone"
	KeyFullName       = "fullName"
	KeyCompanyName    = "companyName"
	KeyPasswordHash   = "passwordHash"
	KeyAgreeToTerms   = "agreeToTerms"
	KeyPANNumber      = "panNumber"
	KeyAadhaarNumber  = "aadhaarNumber"
	KeyGSTNumber      = "gstNumber"
	KeySocialAccounts = "socialAccounts"
	KeyManualEntry    = "manualEntry"
	KeyTotalStats     = "totalStats"
	KeyBio            = "bio"
	KeyTags           = "tags"
	KeySampleWorks    = "sampleWorks"
	KeyProfileImage   = "profileImage"
	KeySelectedPlan   = "selectedPlan"
	KeyPaymentMethod  = "paymentMethod"
	KeyPaymentDetails = "paymentDetails"
)
