package domain

import "fmt"

// StepKind identifies which step form renders a step.
type StepKind string

const (
	StepSignUp           StepKind = "signup"
	StepKYC              StepKind = "kyc"
	StepBusinessKYC      StepKind = "business_kyc"
	StepSocialConnection StepKind = "social_connection"
	StepProfileCreation  StepKind = "profile_creation"
	StepSubscription     StepKind = "subscription"
)

func (k StepKind) String() string {
	return string(k)
}

// StepDescriptor is one entry of an onboarding sequence. Index is 1-based.
type StepDescriptor struct {
	Index       int      `json:"index"`
	Kind        StepKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

var stepTable = map[UserType][]StepDescriptor{
	UserTypeInfluencer: {
		{Index: 1, Kind: StepSignUp, Title: "Sign Up", Description: "Email & Phone verification"},
		{Index: 2, Kind: StepKYC, Title: "KYC Verification", Description: "PAN/Aadhaar + Selfie"},
		{Index: 3, Kind: StepSocialConnection, Title: "Connect Socials", Description: "Link social accounts"},
		{Index: 4, Kind: StepProfileCreation, Title: "Create Profile", Description: "Portfolio & Bio"},
	},
	UserTypeBrand: {
		{Index: 1, Kind: StepSignUp, Title: "Sign Up", Description: "Email & Phone verification"},
		{Index: 2, Kind: StepBusinessKYC, Title: "Business KYC", Description: "Company verification"},
		{Index: 3, Kind: StepSubscription, Title: "Subscription", Description: "Choose plan & payment"},
	},
}

// Steps returns a copy of the fixed step sequence for u.
func Steps(u UserType) []StepDescriptor {
	table, ok := stepTable[u]
	if !ok {
		panic(fmt.Sprintf("domain: no step sequence for user type %q", u))
	}
	out := make([]StepDescriptor, len(table))
	copy(out, table)
	return out
}

// StepState is how a step relates to the current position of a run.
type StepState string

const (
	StepStateCompleted StepState = "completed"
	StepStateCurrent   StepState = "current"
	StepStateUpcoming  StepState = "upcoming"
)

// StateAt reports the progress marker for step index relative to current.
func StateAt(index, current int) StepState {
	switch {
	case index < current:
		return StepStateCompleted
	case index == current:
		return StepStateCurrent
	default:
		return StepStateUpcoming
	}
}
