package domain

import (
	"fmt"
	"strings"
)

// Platform is a social network an influencer can link during onboarding.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
)

// Platforms lists the supported networks in display order.
var Platforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformTwitter}

func (p Platform) String() string {
	return string(p)
}

func ParsePlatform(value string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(value)))
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTwitter:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q", value)
	}
}

// AccountStats are the audience numbers fetched for a linked account.
// YouTube reports subscribers and views, the others followers and engagement.
type AccountStats struct {
	Followers   int64   `json:"followers,omitempty"`
	Engagement  float64 `json:"engagement,omitempty"`
	Subscribers int64   `json:"subscribers,omitempty"`
	Views       int64   `json:"views,omitempty"`
}

// Audience is the follower-like number for the platform.
func (s AccountStats) Audience(p Platform) int64 {
	if p == PlatformYouTube {
		return s.Subscribers
	}
	return s.Followers
}

// SocialAccount is one linked (or not yet linked) network account.
type SocialAccount struct {
	Platform  Platform     `json:"platform"`
	Username  string       `json:"username"`
	Connected bool         `json:"connected"`
	Stats     AccountStats `json:"stats"`
}

// ManualStats are audience numbers entered by hand instead of linking accounts.
type ManualStats struct {
	TotalFollowers int64   `json:"totalFollowers"`
	AvgEngagement  float64 `json:"avgEngagement"`
	AvgReach       int64   `json:"avgReach"`
}
