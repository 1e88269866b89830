package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/kapu/collabhub-go/internal/domain"
)

//go:embed templates/*.tmpl
var pageTemplateFS embed.FS

var (
	pageTemplates *template.Template
	pageOnce      sync.Once
	pageErr       error
)

type audienceCard struct {
	UserType domain.UserType
	Title    string
	Subtitle string
	Benefits []string
	Action   string
}

type featureCard struct {
	Title string
	Body  string
}

type landingPage struct {
	Title            string
	Headline         string
	Accent           string
	Tagline          string
	Audiences        []audienceCard
	FeaturesTitle    string
	FeaturesSubtitle string
	Features         []featureCard
}

var landingContent = landingPage{
	Title:    "CollabHub",
	Headline: "Connect. Create.",
	Accent:   "Collaborate.",
	Tagline:  "The ultimate platform bridging influencers and brands. Secure contracts, transparent payments, and data-driven collaborations.",
	Audiences: []audienceCard{
		{
			UserType: domain.UserTypeInfluencer,
			Title:    "For Creators",
			Subtitle: "Monetize your influence",
			Benefits: []string{"Secure contracts & payments", "Analytics & growth tracking", "Verified brand partnerships"},
			Action:   "Join as Creator",
		},
		{
			UserType: domain.UserTypeBrand,
			Title:    "For Brands",
			Subtitle: "Find perfect influencers",
			Benefits: []string{"Advanced influencer discovery", "Campaign performance tracking", "Escrow-protected payments"},
			Action:   "Join as Brand",
		},
	},
	FeaturesTitle:    "Why Choose Our Platform?",
	FeaturesSubtitle: "Built for modern creator economy",
	Features: []featureCard{
		{"Secure & Verified", "Complete KYC verification and escrow-protected payments ensure safe transactions for everyone."},
		{"Data-Driven", "Comprehensive analytics and reporting to track performance and optimize campaigns."},
		{"Quality Focused", "Rating system and dispute resolution ensure high-quality collaborations and satisfied users."},
	},
}

func renderPage(name string, data any) ([]byte, error) {
	pageOnce.Do(func() {
		pageTemplates, pageErr = template.New("pages").ParseFS(pageTemplateFS, "templates/*.tmpl")
	})
	if pageErr != nil {
		return nil, pageErr
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *handlers) landing(w http.ResponseWriter, r *http.Request) {
	body, err := renderPage("landing", landingContent)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
