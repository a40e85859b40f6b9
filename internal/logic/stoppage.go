package logic

import "strings"

// stoppageAliases collapses the report's stoppage spellings
var stoppageAliases = map[string]string{
	"tv timeout":                  "tv timeout",
	"tv time-out":                 "tv timeout",
	"tv-timeout":                  "tv timeout",
	"goalie stopped":              "goalie stopped",
	"goalie stopped (after sog)":  "goalie stopped",
	"goalie stopped (after shot)": "goalie stopped",
	"puck in netting":             "puck in netting",
	"puck in crowd":               "puck in crowd",
	"puck in benches":             "puck in benches",
	"puck in penalty benches":     "puck in benches",
	"puck frozen":                 "puck frozen",
	"puck frozen (player)":        "puck frozen",
	"high stick":                  "high stick",
	"hand pass":                   "hand pass",
	"icing":                       "icing",
	"offside":                     "offside",
	"off-side":                    "offside",
	"net off":                     "net dislodged",
	"net dislodged":               "net dislodged",
	"net dislodged by defense":    "net dislodged",
	"net dislodged by offense":    "net dislodged",
	"referee or linesman":         "official",
	"player injury":               "player injury",
	"home timeout":                "timeout",
	"visitor timeout":             "timeout",
	"video review":                "video review",
	"chlg hm goal interference":   "challenge",
	"chlg vis goal interference":  "challenge",
	"chlg league":                 "challenge",
	"chlg hm off-side":            "challenge",
	"chlg vis off-side":           "challenge",
	"objects on ice":              "objects on ice",
	"rink repair":                 "rink repair",
	"clock problem":               "clock problem",
}

// normalizeStoppage lower-cases a stoppage description, trims its comma
// separated parts and collapses known aliases. Unknown parts are kept.
func normalizeStoppage(text string) string {
	parts := strings.Split(strings.ToLower(text), ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		if alias, ok := stoppageAliases[part]; ok {
			part = alias
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return strings.Join(out, ",")
}
