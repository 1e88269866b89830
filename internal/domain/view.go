package domain

// View is the top-level screen a session is on.
type View string

const (
	ViewLanding             View = "landing"
	ViewOnboarding          View = "onboarding"
	ViewInfluencerDashboard View = "influencer-dashboard"
	ViewBrandDashboard      View = "brand-dashboard"
)

func (v View) String() string {
	return string(v)
}

// DashboardView maps a user type to its dashboard.
func DashboardView(u UserType) View {
	if u == UserTypeBrand {
		return ViewBrandDashboard
	}
	return ViewInfluencerDashboard
}
