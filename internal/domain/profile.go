package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileRef points at a file uploaded into the current session.
type FileRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type SocialHandles struct {
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
}

type InfluencerStats struct {
	Followers  int64   `json:"followers"`
	Engagement float64 `json:"engagement"`
	Reach      int64   `json:"reach"`
}

type SampleWork struct {
	ID          string    `json:"id"`
	Type        MediaType `json:"type"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

type Earnings struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Released int64 `json:"released"`
	Escrow   int64 `json:"escrow"`
}

type CampaignStatus string

const (
	CampaignApplied   CampaignStatus = "applied"
	CampaignInReview  CampaignStatus = "in-review"
	CampaignAccepted  CampaignStatus = "accepted"
	CampaignRejected  CampaignStatus = "rejected"
	CampaignCompleted CampaignStatus = "completed"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
)

// DealType distinguishes paid collaborations from barter ones.
type DealType string

const (
	DealPayment DealType = "payment"
	DealBarter  DealType = "barter"
)

type InfluencerCampaign struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Brand  string         `json:"brand"`
	Status CampaignStatus `json:"status"`
	Amount int64          `json:"amount"`
	Type   DealType       `json:"type"`
}

type InfluencerProfile struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Phone             string               `json:"phone"`
	Bio               string               `json:"bio"`
	ProfileImage      string               `json:"profileImage"`
	SocialAccounts    SocialHandles        `json:"socialAccounts"`
	Stats             InfluencerStats      `json:"stats"`
	ProfileCompletion int                  `json:"profileCompletion"`
	Tags              []string             `json:"tags"`
	SampleWorks       []SampleWork         `json:"sampleWorks"`
	Earnings          Earnings             `json:"earnings"`
	Campaigns         []InfluencerCampaign `json:"campaigns"`
}

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type Subscription struct {
	Plan        PlanID             `json:"plan"`
	Status      SubscriptionStatus `json:"status"`
	RenewalDate time.Time          `json:"renewalDate"`
}

type BrandCampaign struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Budget       int64          `json:"budget"`
	Niche        string         `json:"niche"`
	Deliverables string         `json:"deliverables"`
	Type         DealType       `json:"type"`
	Applications int            `json:"applications"`
	Status       CampaignStatus `json:"status"`
}

type BrandProfile struct {
	ID            string          `json:"id"`
	CompanyName   string          `json:"companyName"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Industry      string          `json:"industry"`
	Logo          string          `json:"logo"`
	Description   string          `json:"description"`
	GST           string          `json:"gst"`
	PAN           string          `json:"pan"`
	Subscription  Subscription    `json:"subscription"`
	Campaigns     []BrandCampaign `json:"campaigns"`
	EscrowBalance int64           `json:"escrowBalance"`
}

// InfluencerProfileUpdate is a shallow partial update. Nil fields are left untouched.
type InfluencerProfileUpdate struct {
	Name              *string               `json:"name,omitempty"`
	Email             *string               `json:"email,omitempty"`
	Phone             *string               `json:"phone,omitempty"`
	Bio               *string               `json:"bio,omitempty"`
	ProfileImage      *string               `json:"profileImage,omitempty"`
	SocialAccounts    *SocialHandles        `json:"socialAccounts,omitempty"`
	Stats             *InfluencerStats      `json:"stats,omitempty"`
	ProfileCompletion *int                  `json:"profileCompletion,omitempty"`
	Tags              *[]string             `json:"tags,omitempty"`
	SampleWorks       *[]SampleWork         `json:"sampleWorks,omitempty"`
	Earnings          *Earnings             `json:"earnings,omitempty"`
	Campaigns         *[]InfluencerCampaign `json:"campaigns,omitempty"`
}

// Apply returns a copy of p with every non-nil field of u replaced.
func (u InfluencerProfileUpdate) Apply(p InfluencerProfile) InfluencerProfile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.ProfileImage != nil {
		p.ProfileImage = *u.ProfileImage
	}
	if u.SocialAccounts != nil {
		p.SocialAccounts = *u.SocialAccounts
	}
	if u.Stats != nil {
		p.Stats = *u.Stats
	}
	if u.ProfileCompletion != nil {
		p.ProfileCompletion = *u.ProfileCompletion
	}
	if u.Tags != nil {
		p.Tags = *u.Tags
	}
	if u.SampleWorks != nil {
		p.SampleWorks = *u.SampleWorks
	}
	if u.Earnings != nil {
		p.Earnings = *u.Earnings
	}
	if u.Campaigns != nil {
		p.Campaigns = *u.Campaigns
	}
	return p
}

// BrandProfileUpdate is a shallow partial update. Nil fields are left untouched.
type BrandProfileUpdate struct {
	CompanyName   *string          `json:"companyName,omitempty"`
	Email         *string          `json:"email,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Industry      *string          `json:"industry,omitempty"`
	Logo          *string          `json:"logo,omitempty"`
	Description   *string          `json:"description,omitempty"`
	GST           *string          `json:"gst,omitempty"`
	PAN           *string          `json:"pan,omitempty"`
	Subscription  *Subscription    `json:"subscription,omitempty"`
	Campaigns     *[]BrandCampaign `json:"campaigns,omitempty"`
	EscrowBalance *int64           `json:"escrowBalance,omitempty"`
}

// Apply returns a copy of p with every non-nil field of u replaced.
func (u BrandProfileUpdate) Apply(p BrandProfile) BrandProfile {
	if u.CompanyName != nil {
		p.CompanyName = *u.CompanyName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Industry != nil {
		p.Industry = *u.Industry
	}
	if u.Logo != nil {
		p.Logo = *u.Logo
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.GST != nil {
		p.GST = *u.GST
	}
	if u.PAN != nil {
		p.PAN = *u.PAN
	}
	if u.Subscription != nil {
		p.Subscription = *u.Subscription
	}
	if u.Campaigns != nil {
		p.Campaigns = *u.Campaigns
	}
	if u.EscrowBalance != nil {
		p.EscrowBalance = *u.EscrowBalance
	}
	return p
}

// NewID returns a time-ordered identifier for a new record.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
