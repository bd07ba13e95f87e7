package sports

import "strings"

type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionOther      Position = "Other"
)

// squadOrder is the display order of position groups.
var squadOrder = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
	PositionOther,
}

// Matching is case-sensitive and checked in this order, so "Wing Back" is a defender.
var positionRules = []struct {
	position Position
	markers  []string
}{
	{PositionGoalkeeper, []string{"Goalkeeper", "Keeper"}},
	{PositionDefender, []string{"Defender", "Back"}},
	{PositionMidfielder, []string{"Midfield"}},
	{PositionForward, []string{"Forward", "Striker", "Winger", "Attacker"}},
}

// ClassifyPosition maps a free-text player position onto a squad group.
func ClassifyPosition(position string) Position {
	for _, rule := range positionRules {
		for _, marker := range rule.markers {
			if strings.Contains(position, marker) {
				return rule.position
			}
		}
	}
	return PositionOther
}

type PositionGroup struct {
	Position Position `json:"position"`
	Players  []Player `json:"players"`
}

// Squad is a team's players grouped by position with a few summary figures.
type Squad struct {
	TeamID        string          `json:"teamId"`
	Groups        []PositionGroup `json:"groups"`
	Total         int             `json:"total"`
	Nationalities int             `json:"nationalities"`
}

// GroupPlayersByPosition always returns the five groups in display order.
// Players keep their input order within a group.
func GroupPlayersByPosition(players []Player) []PositionGroup {
	index := make(map[Position]int, len(squadOrder))
	groups := make([]PositionGroup, len(squadOrder))
	for i, p := range squadOrder {
		index[p] = i
		groups[i] = PositionGroup{Position: p, Players: []Player{}}
	}
	for _, player := range players {
		i := index[ClassifyPosition(player.Position)]
		groups[i].Players = append(groups[i].Players, player)
	}
	return groups
}

func newSquad(teamID string, players []Player) Squad {
	nationalities := make(map[string]struct{})
	for _, p := range players {
		if p.Nationality != "" {
			nationalities[p.Nationality] = struct{}{}
		}
	}
	return Squad{
		TeamID:        teamID,
		Groups:        GroupPlayersByPosition(players),
		Total:         len(players),
		Nationalities: len(nationalities),
	}
}
