package domain

// Dashboard records are display data only. Both json and yaml tags are set
// because the mock data ships as embedded YAML and is served as JSON.

type ProfileSummary struct {
	Name                 string  `json:"name" yaml:"name"`
	Bio                  string  `json:"bio" yaml:"bio"`
	ProfileImage         string  `json:"profileImage" yaml:"profileImage"`
	CompletionPercentage int     `json:"completionPercentage" yaml:"completionPercentage"`
	TotalFollowers       int64   `json:"totalFollowers" yaml:"totalFollowers"`
	AvgEngagement        float64 `json:"avgEngagement" yaml:"avgEngagement"`
	KYCStatus            string  `json:"kycStatus" yaml:"kycStatus"`
}

type LinkedAccount struct {
	Platform  string `json:"platform" yaml:"platform"`
	Username  string `json:"username" yaml:"username"`
	Followers int64  `json:"followers" yaml:"followers"`
	Connected bool   `json:"connected" yaml:"connected"`
}

type PortfolioItem struct {
	ID    int      `json:"id" yaml:"id"`
	Title string   `json:"title" yaml:"title"`
	Type  string   `json:"type" yaml:"type"`
	URL   string   `json:"url" yaml:"url"`
	Tags  []string `json:"tags" yaml:"tags"`
}

type Opportunity struct {
	ID           int    `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Brand        string `json:"brand" yaml:"brand"`
	Budget       int64  `json:"budget" yaml:"budget"`
	Type         string `json:"type" yaml:"type"`
	Status       string `json:"status" yaml:"status"`
	MinFollowers int64  `json:"minFollowers" yaml:"minFollowers"`
}

type ContactInfo struct {
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

// Contract is either an information request or a deal between a brand and a creator.
type Contract struct {
	ID           int          `json:"id" yaml:"id"`
	Type         string       `json:"type" yaml:"type"`
	Brand        string       `json:"brand,omitempty" yaml:"brand"`
	Influencer   string       `json:"influencer,omitempty" yaml:"influencer"`
	Status       string       `json:"status" yaml:"status"`
	Amount       int64        `json:"amount,omitempty" yaml:"amount"`
	Deliverables string       `json:"deliverables,omitempty" yaml:"deliverables"`
	Timeline     string       `json:"timeline,omitempty" yaml:"timeline"`
	Deadline     string       `json:"deadline,omitempty" yaml:"deadline"`
	Rating       int          `json:"rating,omitempty" yaml:"rating"`
	CreatedAt    string       `json:"createdAt,omitempty" yaml:"createdAt"`
	ContactInfo  *ContactInfo `json:"contactInfo,omitempty" yaml:"contactInfo"`
}

type Transaction struct {
	ID         int    `json:"id" yaml:"id"`
	Type       string `json:"type,omitempty" yaml:"type"`
	Brand      string `json:"brand,omitempty" yaml:"brand"`
	Influencer string `json:"influencer,omitempty" yaml:"influencer"`
	Amount     int64  `json:"amount" yaml:"amount"`
	Status     string `json:"status" yaml:"status"`
	Date       string `json:"date" yaml:"date"`
}

type EarningsSummary struct {
	Total        int64         `json:"total" yaml:"total"`
	Pending      int64         `json:"pending" yaml:"pending"`
	Escrow       int64         `json:"escrow" yaml:"escrow"`
	Released     int64         `json:"released" yaml:"released"`
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
}

type GrowthPoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int64  `json:"count" yaml:"count"`
}

type InfluencerAnalytics struct {
	FollowersGrowth    []GrowthPoint `json:"followersGrowth" yaml:"followersGrowth"`
	EngagementRate     float64       `json:"engagementRate" yaml:"engagementRate"`
	CompletedCampaigns int           `json:"completedCampaigns" yaml:"completedCampaigns"`
	AvgRating          float64       `json:"avgRating" yaml:"avgRating"`
}

type InfluencerDashboard struct {
	Profile        ProfileSummary      `json:"profile" yaml:"profile"`
	SocialAccounts []LinkedAccount     `json:"socialAccounts" yaml:"socialAccounts"`
	Portfolio      []PortfolioItem     `json:"portfolio" yaml:"portfolio"`
	Opportunities  []Opportunity       `json:"opportunities" yaml:"opportunities"`
	Contracts      []Contract          `json:"contracts" yaml:"contracts"`
	Earnings       EarningsSummary     `json:"earnings" yaml:"earnings"`
	Analytics      InfluencerAnalytics `json:"analytics" yaml:"analytics"`
}

type BrandSummary struct {
	CompanyName         string `json:"companyName" yaml:"companyName"`
	Logo                string `json:"logo" yaml:"logo"`
	Description         string `json:"description" yaml:"description"`
	Industry            string `json:"industry" yaml:"industry"`
	KYCStatus           string `json:"kycStatus" yaml:"kycStatus"`
	SubscriptionStatus  string `json:"subscriptionStatus" yaml:"subscriptionStatus"`
	SubscriptionPlan    string `json:"subscriptionPlan" yaml:"subscriptionPlan"`
	SubscriptionEndDate string `json:"subscriptionEndDate" yaml:"subscriptionEndDate"`
}

// DiscoverableInfluencer is a creator listed in brand discovery.
type DiscoverableInfluencer struct {
	ID             int      `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Image          string   `json:"image" yaml:"image"`
	Followers      int64    `json:"followers" yaml:"followers"`
	EngagementRate float64  `json:"engagementRate" yaml:"engagementRate"`
	Niches         []string `json:"niches" yaml:"niches"`
	Region         string   `json:"region" yaml:"region"`
	Language       string   `json:"language" yaml:"language"`
}

type CampaignSummary struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Status      string `json:"status" yaml:"status"`
	Budget      int64  `json:"budget" yaml:"budget"`
	Applicants  int    `json:"applicants" yaml:"applicants"`
	Shortlisted int    `json:"shortlisted" yaml:"shortlisted"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
}

type PaymentsSummary struct {
	EscrowBalance  int64         `json:"escrowBalance" yaml:"escrowBalance"`
	TotalSpent     int64         `json:"totalSpent" yaml:"totalSpent"`
	PendingPayouts int64         `json:"pendingPayouts" yaml:"pendingPayouts"`
	Transactions   []Transaction `json:"transactions" yaml:"transactions"`
}

type TopInfluencer struct {
	Name      string  `json:"name" yaml:"name"`
	Campaigns int     `json:"campaigns" yaml:"campaigns"`
	AvgRating float64 `json:"avgRating" yaml:"avgRating"`
}

type BrandAnalytics struct {
	TotalCampaigns     int             `json:"totalCampaigns" yaml:"totalCampaigns"`
	ActiveCampaigns    int             `json:"activeCampaigns" yaml:"activeCampaigns"`
	CompletedCampaigns int             `json:"completedCampaigns" yaml:"completedCampaigns"`
	TotalReach         int64           `json:"totalReach" yaml:"totalReach"`
	AvgEngagement      float64         `json:"avgEngagement" yaml:"avgEngagement"`
	ROI                float64         `json:"roi" yaml:"roi"`
	TopInfluencers     []TopInfluencer `json:"topInfluencers" yaml:"topInfluencers"`
}

type BrandDashboard struct {
	Profile   BrandSummary             `json:"profile" yaml:"profile"`
	Discovery []DiscoverableInfluencer `json:"discovery" yaml:"discovery"`
	Campaigns []CampaignSummary        `json:"campaigns" yaml:"campaigns"`
	Contracts []Contract               `json:"contracts" yaml:"contracts"`
	Payments  PaymentsSummary          `json:"payments" yaml:"payments"`
	Analytics BrandAnalytics           `json:"analytics" yaml:"analytics"`
}
