package sports

import "strings"

// Country is a country name as spelled by the sports gateway.
type Country struct {
	Name string `json:"name"`
}

type League struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Sport           string   `json:"sport"`
	BadgeImageURL   string   `json:"badgeImageUrl,omitempty"`
	FanartImageURLs []string `json:"fanartImageUrls,omitempty"`
	Favorite        bool     `json:"favorite"`
}

type Team struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	LeagueName  string      `json:"leagueName"`
	BadgeURL    string      `json:"badgeUrl,omitempty"`
	BannerURL   string      `json:"bannerUrl,omitempty"`
	Stadium     string      `json:"stadium,omitempty"`
	Colors      [3]string   `json:"colors"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Description string      `json:"description,omitempty"`
}

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
}

// WebsiteURL returns the team website as an absolute URL, or "" if the team has none.
func (t Team) WebsiteURL() string {
	site := strings.TrimSpace(t.SocialLinks.Website)
	if site == "" {
		return ""
	}
	if strings.HasPrefix(site, "http") {
		return site
	}
	return "https://" + site
}

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	SquadNumber string `json:"squadNumber,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Match is a single fixture or result. Date is YYYY-MM-DD as reported by the gateway.
type Match struct {
	ID           string `json:"id"`
	EventName    string `json:"eventName"`
	LeagueName   string `json:"leagueName,omitempty"`
	HomeTeam     string `json:"homeTeam"`
	AwayTeam     string `json:"awayTeam"`
	HomeBadgeURL string `json:"homeBadgeUrl,omitempty"`
	AwayBadgeURL string `json:"awayBadgeUrl,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	Venue        string `json:"venue,omitempty"`
	HomeScore    *int   `json:"homeScore,omitempty"`
	AwayScore    *int   `json:"awayScore,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Kickoff returns the HH:MM part of the match time, or "TBD".
func (m Match) Kickoff() string {
	if len(m.Time) < 5 {
		return "TBD"
	}
	return m.Time[:5]
}

// Outcome reports the result of a finished match from the home side's point of view.
// It returns "" when either score is missing.
func (m Match) Outcome() string {
	if m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return "home-win"
	case *m.AwayScore > *m.HomeScore:
		return "away-win"
	}
	return "draw"
}

// MatchDay splits next-fixture results into today's matches and everything else.
type MatchDay struct {
	Today    []Match `json:"today"`
	Upcoming []Match `json:"upcoming"`
}

// Result is a past match decorated with its outcome.
type Result struct {
	Match
	Outcome string `json:"outcome,omitempty"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// ChatTurnRequest is the input of a single assistant turn.
type ChatTurnRequest struct {
	ConversationID string `json:"conversationId"`
	Question       string `json:"question"`
}
