package achievement

import (
	"strconv"
	"strings"

	"github.com/okian/fcleague/internal/domain/model"
)

// Template is a title/description pair. The placeholders {tournament},
// {value} and {rank} are substituted when an achievement is built.
type Template struct {
	Title       string
	Description string
}

// Templates holds the texts used for each award.
type Templates struct {
	// Podium is keyed by rank (1-3).
	Podium map[int]Template
	Awards map[model.AchievementType]Template
}

// DefaultTemplates returns the built-in English texts.
func DefaultTemplates() Templates {
	return Templates{
		Podium: map[int]Template{
			1: {Title: "Champion", Description: "Won {tournament} with {value} points"},
			2: {Title: "Runner-up", Description: "Finished second in {tournament} with {value} points"},
			3: {Title: "Third place", Description: "Finished third in {tournament} with {value} points"},
		},
		Awards: map[model.AchievementType]Template{
			model.AchievementTopScorer:       {Title: "Top scorer", Description: "Scored {value} goals in {tournament}"},
			model.AchievementDefensiveLeader: {Title: "Defensive leader", Description: "Best goal difference (+{value}) in {tournament}"},
			model.AchievementMostConceded:    {Title: "Open door", Description: "Conceded {value} goals in {tournament}"},
			model.AchievementKingOfEmotions:  {Title: "King of emotions", Description: "Took part in {value} goals in {tournament}"},
		},
	}
}

func (t Template) render(tournament string, value, rank int) (string, string) {
	r := strings.NewReplacer(
		"{tournament}", tournament,
		"{value}", strconv.Itoa(value),
		"{rank}", strconv.Itoa(rank),
	)
	return r.Replace(t.Title), r.Replace(t.Description)
}

// merge fills gaps in t from the defaults.
func (t Templates) merge(def Templates) Templates {
	out := Templates{
		Podium: make(map[int]Template, len(def.Podium)),
		Awards: make(map[model.AchievementType]Template, len(def.Awards)),
	}
	for k, v := range def.Podium {
		out.Podium[k] = v
	}
	for k, v := range def.Awards {
		out.Awards[k] = v
	}
	for k, v := range t.Podium {
		out.Podium[k] = v
	}
	for k, v := range t.Awards {
		out.Awards[k] = v
	}
	return out
}
