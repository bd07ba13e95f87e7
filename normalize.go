package sports

import "strings"

// Raw TheSportsDB payloads. Every field is optional on the wire; the
// normalize* functions below are the only place that looks at them.

type countriesResponse struct {
	Countries []rawCountry `json:"countries"`
}

type rawCountry struct {
	NameEN string `json:"name_en"`
	Name   string `json:"name"`
}

// search_all_leagues.php answers under "countries"; older deployments used "countrys".
type countryLeaguesResponse struct {
	Countries []rawLeague `json:"countries"`
	Countrys  []rawLeague `json:"countrys"`
}

type leaguesResponse struct {
	Leagues []rawLeague `json:"leagues"`
}

type rawLeague struct {
	IDLeague           string `json:"idLeague"`
	ID                 string `json:"id"`
	StrLeague          string `json:"strLeague"`
	Name               string `json:"name"`
	StrLeagueAlternate string `json:"strLeagueAlternate"`
	StrSport           string `json:"strSport"`
	Sport              string `json:"sport"`
	StrBadge           string `json:"strBadge"`
	StrLogo            string `json:"strLogo"`
	StrFanart1         string `json:"strFanart1"`
	StrFanart2         string `json:"strFanart2"`
	StrFanart3         string `json:"strFanart3"`
	StrFanart4         string `json:"strFanart4"`
}

type teamsResponse struct {
	Teams []rawTeam `json:"teams"`
}

type rawTeam struct {
	IDTeam           string `json:"idTeam"`
	StrTeam          string `json:"strTeam"`
	StrLeague        string `json:"strLeague"`
	StrBadge         string `json:"strBadge"`
	StrTeamBadge     string `json:"strTeamBadge"`
	StrBanner        string `json:"strBanner"`
	StrTeamBanner    string `json:"strTeamBanner"`
	StrStadium       string `json:"strStadium"`
	StrColour1       string `json:"strColour1"`
	StrColour2       string `json:"strColour2"`
	StrColour3       string `json:"strColour3"`
	StrWebsite       string `json:"strWebsite"`
	StrFacebook      string `json:"strFacebook"`
	StrTwitter       string `json:"strTwitter"`
	StrInstagram     string `json:"strInstagram"`
	StrYoutube       string `json:"strYoutube"`
	StrDescriptionEN string `json:"strDescriptionEN"`
}

type playersResponse struct {
	Player []rawPlayer `json:"player"`
}

type rawPlayer struct {
	IDPlayer       string `json:"idPlayer"`
	StrPlayer      string `json:"strPlayer"`
	StrPosition    string `json:"strPosition"`
	StrNumber      string `json:"strNumber"`
	StrNationality string `json:"strNationality"`
	StrCutout      string `json:"strCutout"`
	StrThumb       string `json:"strThumb"`
}

type eventsResponse struct {
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	IDEvent          string      `json:"idEvent"`
	StrEvent         string      `json:"strEvent"`
	StrLeague        string      `json:"strLeague"`
	StrHomeTeam      string      `json:"strHomeTeam"`
	StrAwayTeam      string      `json:"strAwayTeam"`
	StrHomeTeamBadge string      `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string      `json:"strAwayTeamBadge"`
	DateEvent        string      `json:"dateEvent"`
	StrTime          string      `json:"strTime"`
	StrTimestamp     lenientTime `json:"strTimestamp"`
	StrVenue         string      `json:"strVenue"`
	IntHomeScore     OptionalInt `json:"intHomeScore"`
	IntAwayScore     OptionalInt `json:"intAwayScore"`
	StrStatus        string      `json:"strStatus"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func normalizeCountries(raw []rawCountry) []Country {
	countries := make([]Country, 0, len(raw))
	for _, r := range raw {
		name := firstNonEmpty(r.NameEN, r.Name)
		if name == "" {
			continue
		}
		countries = append(countries, Country{Name: name})
	}
	return countries
}

// normalizeLeague converts a raw league. Images are only kept for hydrated
// results so that a search result never looks hydrated.
func normalizeLeague(r rawLeague, hydrated bool) (League, bool) {
	id := firstNonEmpty(r.IDLeague, r.ID)
	if id == "" {
		return League{}, false
	}
	l := League{
		ID:    id,
		Name:  firstNonEmpty(r.StrLeague, r.Name),
		Sport: firstNonEmpty(r.StrSport, r.Sport),
	}
	if !hydrated {
		return l, true
	}
	l.BadgeImageURL = firstNonEmpty(r.StrBadge, r.StrLogo)
	for _, f := range []string{r.StrFanart1, r.StrFanart2, r.StrFanart3, r.StrFanart4} {
		if f = strings.TrimSpace(f); f != "" {
			l.FanartImageURLs = append(l.FanartImageURLs, f)
		}
	}
	return l, true
}

func normalizeLeagueName(r rawLeague) (LeagueName, bool) {
	id := firstNonEmpty(r.IDLeague, r.ID)
	name := firstNonEmpty(r.StrLeague, r.Name)
	if id == "" || name == "" {
		return LeagueName{}, false
	}
	n := LeagueName{ID: id, Name: name}
	for _, alt := range strings.Split(r.StrLeagueAlternate, ",") {
		if alt = strings.TrimSpace(alt); alt != "" {
			n.Alternates = append(n.Alternates, alt)
		}
	}
	return n, true
}

func normalizeTeam(r rawTeam) (Team, bool) {
	if strings.TrimSpace(r.IDTeam) == "" {
		return Team{}, false
	}
	return Team{
		ID:         strings.TrimSpace(r.IDTeam),
		Name:       strings.TrimSpace(r.StrTeam),
		LeagueName: strings.TrimSpace(r.StrLeague),
		BadgeURL:   firstNonEmpty(r.StrBadge, r.StrTeamBadge),
		BannerURL:  firstNonEmpty(r.StrBanner, r.StrTeamBanner),
		Stadium:    strings.TrimSpace(r.StrStadium),
		Colors: [3]string{
			strings.TrimSpace(r.StrColour1),
			strings.TrimSpace(r.StrColour2),
			strings.TrimSpace(r.StrColour3),
		},
		SocialLinks: SocialLinks{
			Website:   strings.TrimSpace(r.StrWebsite),
			Facebook:  strings.TrimSpace(r.StrFacebook),
			Twitter:   strings.TrimSpace(r.StrTwitter),
			Instagram: strings.TrimSpace(r.StrInstagram),
			Youtube:   strings.TrimSpace(r.StrYoutube),
		},
		Description: strings.TrimSpace(r.StrDescriptionEN),
	}, true
}

func normalizePlayer(r rawPlayer) (Player, bool) {
	if strings.TrimSpace(r.IDPlayer) == "" {
		return Player{}, false
	}
	return Player{
		ID:          strings.TrimSpace(r.IDPlayer),
		Name:        strings.TrimSpace(r.StrPlayer),
		Position:    strings.TrimSpace(r.StrPosition),
		SquadNumber: strings.TrimSpace(r.StrNumber),
		Nationality: strings.TrimSpace(r.StrNationality),
		ImageURL:    firstNonEmpty(r.StrCutout, r.StrThumb),
	}, true
}

func normalizeEvent(r rawEvent) (Match, bool) {
	if strings.TrimSpace(r.IDEvent) == "" {
		return Match{}, false
	}
	m := Match{
		ID:           strings.TrimSpace(r.IDEvent),
		LeagueName:   strings.TrimSpace(r.StrLeague),
		HomeTeam:     strings.TrimSpace(r.StrHomeTeam),
		AwayTeam:     strings.TrimSpace(r.StrAwayTeam),
		HomeBadgeURL: strings.TrimSpace(r.StrHomeTeamBadge),
		AwayBadgeURL: strings.TrimSpace(r.StrAwayTeamBadge),
		Date:         strings.TrimSpace(r.DateEvent),
		Time:         normalizeClock(r.StrTime),
		Venue:        strings.TrimSpace(r.StrVenue),
		HomeScore:    r.IntHomeScore.Value,
		AwayScore:    r.IntAwayScore.Value,
		Status:       strings.TrimSpace(r.StrStatus),
	}
	if m.Date == "" && !r.StrTimestamp.IsZero() {
		m.Date = r.StrTimestamp.Format("2006-01-02")
		if m.Time == "" {
			m.Time = r.StrTimestamp.Format("15:04:05")
		}
	}
	m.EventName = firstNonEmpty(r.StrEvent)
	if m.EventName == "" && m.HomeTeam != "" && m.AwayTeam != "" {
		m.EventName = m.HomeTeam + " vs " + m.AwayTeam
	}
	return m, true
}

// normalizeClock strips a trailing zone ("15:00:00+00:00") and keeps HH:MM:SS.
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "+Z"); i > 0 {
		s = s[:i]
	}
	if len(s) == 5 {
		s += ":00"
	}
	return s
}
