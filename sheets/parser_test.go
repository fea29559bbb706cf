package sheets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbersport/ranking-system/models"
)

func allActive() Settings {
	return Settings{
		ActiveEvents: models.AllEvents,
		TotalPoints: map[models.EventName]float64{
			models.EventKnockdowns: 100,
			models.EventDistance:   100,
			models.EventSpeed:      100,
			models.EventWoods:      100,
		},
	}
}

func TestParse_CleanSheet(t *testing.T) {
	raw := strings.Join([]string{
		"Name,Email,Knockdowns,Distance,Speed,Woods",
		"Alice,alice@example.com,80,90,70,60",
		"Bob,,50,40,30,20",
	}, "\n")

	result := Parse(raw, allActive())

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Competitors, 2)

	alice := result.Competitors[0]
	assert.Equal(t, "Alice", alice.Name)
	require.NotNil(t, alice.Email)
	assert.Equal(t, "alice@example.com", *alice.Email)
	require.NotNil(t, alice.Earned[models.EventKnockdowns])
	assert.Equal(t, 80.0, *alice.Earned[models.EventKnockdowns])

	bob := result.Competitors[1]
	assert.Equal(t, "Bob", bob.Name)
	assert.Nil(t, bob.Email)
}

func TestParse_HeaderAliases(t *testing.T) {
	// Spelling, casing, punctuation and surrounding whitespace must not
	// matter for column recognition.
	raw := strings.Join([]string{
		`Athlete Name, E-Mail ,Knock-Downs,DIST,"Speed Points",wood`,
		"Alice,alice@example.com,10,20,30,40",
	}, "\n")

	result := Parse(raw, allActive())

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 1)
	c := result.Competitors[0]
	require.NotNil(t, c.Email)
	assert.Equal(t, 10.0, *c.Earned[models.EventKnockdowns])
	assert.Equal(t, 20.0, *c.Earned[models.EventDistance])
	assert.Equal(t, 30.0, *c.Earned[models.EventSpeed])
	assert.Equal(t, 40.0, *c.Earned[models.EventWoods])
}

func TestParse_HeaderAfterLeadingRows(t *testing.T) {
	raw := strings.Join([]string{
		"Spring Cup 2026,,,",
		",,,",
		"Name,Knockdowns,Distance,Speed",
		"Alice,10,20,30",
	}, "\n")

	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns, models.EventDistance, models.EventSpeed},
		TotalPoints:  map[models.EventName]float64{},
	}
	result := Parse(raw, settings)

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 1)
	// The fully empty row is dropped before the scan, so only one real
	// leading row is reported.
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "skipped 1 leading row(s)")
}

func TestParse_NoHeaderWithinWindow(t *testing.T) {
	lines := []string{"junk,junk", "junk,junk", "junk,junk", "junk,junk", "junk,junk"}
	lines = append(lines, "Name,Knockdowns", "Alice,10")

	result := Parse(strings.Join(lines, "\n"), allActive())

	require.True(t, result.HasFatal())
	assert.Contains(t, result.Errors[0], "no header row found")
	assert.Empty(t, result.Competitors)
}

func TestParse_CellClassification(t *testing.T) {
	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns},
		TotalPoints:  map[models.EventName]float64{models.EventKnockdowns: 100},
	}

	tests := []struct {
		name        string
		cell        string
		wantValue   float64
		wantWarning string
	}{
		{"valid", "85.5", 85.5, ""},
		{"blank defaults to zero", "", 0, "blank"},
		{"non-numeric defaults to zero", "DNF", 0, "non-numeric"},
		{"negative defaults to zero", "-5", 0, "negative"},
		{"over maximum kept as-is", "150", 150, "exceeds the event maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "Name,Knockdowns\nAlice," + tt.cell
			result := Parse(raw, settings)

			require.False(t, result.HasFatal(), "errors: %v", result.Errors)
			require.Len(t, result.Competitors, 1)
			earned := result.Competitors[0].Earned[models.EventKnockdowns]
			require.NotNil(t, earned)
			assert.Equal(t, tt.wantValue, *earned)

			if tt.wantWarning == "" {
				assert.Empty(t, result.Warnings)
			} else {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantWarning)
			}
		})
	}
}

func TestParse_MissingEventColumnWarnsOnce(t *testing.T) {
	raw := strings.Join([]string{
		"Name,Knockdowns",
		"Alice,10",
		"Bob,20",
		"Carol,30",
	}, "\n")

	result := Parse(raw, allActive())

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 3)

	// One warning per missing column, never one per competitor.
	missing := 0
	for _, w := range result.Warnings {
		if strings.Contains(w, "no") && strings.Contains(w, "column found") {
			missing++
		}
	}
	assert.Equal(t, 3, missing)

	for _, c := range result.Competitors {
		require.NotNil(t, c.Earned[models.EventDistance])
		assert.Equal(t, 0.0, *c.Earned[models.EventDistance])
	}
}

func TestParse_InactiveEventStaysNil(t *testing.T) {
	// A woods column is present, but the tournament did not hold woods:
	// the value must come out nil, never 0.
	raw := strings.Join([]string{
		"Name,Knockdowns,Woods",
		"Alice,10,99",
	}, "\n")

	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns},
		TotalPoints:  map[models.EventName]float64{},
	}
	result := Parse(raw, settings)

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 1)
	assert.Nil(t, result.Competitors[0].Earned[models.EventWoods])
	require.NotNil(t, result.Competitors[0].Earned[models.EventKnockdowns])
}

func TestParse_SkipsBlankAndDuplicateNames(t *testing.T) {
	raw := strings.Join([]string{
		"Name,Knockdowns",
		"Alice,10",
		",20",
		"ALICE,30",
		"Bob,40",
	}, "\n")

	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns},
		TotalPoints:  map[models.EventName]float64{},
	}
	result := Parse(raw, settings)

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 2)
	assert.Equal(t, "Alice", result.Competitors[0].Name)
	assert.Equal(t, "Bob", result.Competitors[1].Name)
	// First occurrence wins for the duplicate.
	assert.Equal(t, 10.0, *result.Competitors[0].Earned[models.EventKnockdowns])

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "blank competitor name")
	assert.Contains(t, result.Warnings[1], "duplicate competitor")
}

func TestParse_FatalCases(t *testing.T) {
	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns},
		TotalPoints:  map[models.EventName]float64{},
	}

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"empty sheet", "", "header row and at least one data row"},
		{"header only", "Name,Knockdowns", "header row and at least one data row"},
		{"all rows skipped", "Name,Knockdowns\n,10\n,20", "no competitor rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw, settings)
			require.True(t, result.HasFatal())
			assert.Contains(t, result.Errors[0], tt.wantErr)
			assert.Empty(t, result.Competitors)
		})
	}
}

func TestParse_RaggedRows(t *testing.T) {
	// Short rows are padded with blanks (and warned), not rejected.
	raw := strings.Join([]string{
		"Name,Knockdowns,Distance",
		"Alice,10",
	}, "\n")

	settings := Settings{
		ActiveEvents: []models.EventName{models.EventKnockdowns, models.EventDistance},
		TotalPoints:  map[models.EventName]float64{},
	}
	result := Parse(raw, settings)

	require.False(t, result.HasFatal(), "errors: %v", result.Errors)
	require.Len(t, result.Competitors, 1)
	require.NotNil(t, result.Competitors[0].Earned[models.EventDistance])
	assert.Equal(t, 0.0, *result.Competitors[0].Earned[models.EventDistance])
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "blank distance value")
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Knock-Downs ", "knockdowns"},
		{"knock_downs", "knockdowns"},
		{"KNOCKDOWNS", "knockdowns"},
		{"  E-Mail  ", "email"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeader(tt.in), "input %q", tt.in)
	}
}
