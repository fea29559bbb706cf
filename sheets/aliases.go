package sheets

import (
	"strings"

	"github.com/timbersport/ranking-system/models"
)

// field is a canonical column the parser knows how to map. The four
// event fields share their names with models.EventName.
type field string

const (
	fieldName  field = "name"
	fieldEmail field = "email"
)

func eventField(event models.EventName) field {
	return field(event)
}

// fieldAliases maps each canonical field to the spellings accepted for
// it, already in normalized form (lowercase, alphanumerics only).
// Loaded once at startup; never mutated.
var fieldAliases = map[field][]string{
	fieldName:  {"name", "competitor", "competitorname", "athlete", "athletename", "fullname", "participant"},
	fieldEmail: {"email", "emailaddress", "mail"},

	eventField(models.EventKnockdowns): {"knockdowns", "knockdown", "knockdownspoints", "kd"},
	eventField(models.EventDistance):   {"distance", "distancepoints", "dist"},
	eventField(models.EventSpeed):      {"speed", "speedpoints"},
	eventField(models.EventWoods):      {"woods", "wood", "woodspoints"},
}

// normalizeHeader lowercases a header cell and strips everything that is
// not a letter or digit, so "Knock-Downs ", "knock_downs" and
// "KNOCKDOWNS" all compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchField returns the canonical field a header cell spells, if any.
func matchField(cell string) (field, bool) {
	normalized := normalizeHeader(cell)
	if normalized == "" {
		return "", false
	}
	for f, aliases := range fieldAliases {
		for _, alias := range aliases {
			if normalized == alias {
				return f, true
			}
		}
	}
	return "", false
}
