package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/repcoach/internal/models"
)

const sample = `
[[exercises]]
name = "Romanian Deadlift"
primary_muscle = "hamstrings"
secondary_muscles = ["glutes", "tail"]
equipment = ["Barbell"]
compound = true

[[exercises]]
id = "mystery"
name = "Mystery Move"
primary_muscle = "wings"

[[exercises]]
id = "sled_push"
name = "Sled Push"
primary_muscle = "quads"
equipment = ["sled"]
compound = true

[[exercises]]
name = "Romanian Deadlift"
primary_muscle = "hamstrings"
`

func TestParse(t *testing.T) {
	got, skipped, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, got, 2)

	rdl := got[0]
	assert.Equal(t, "romanian_deadlift", rdl.ID)
	assert.Equal(t, models.Hamstrings, rdl.Primary)
	assert.Equal(t, []models.MuscleGroup{models.Glutes}, rdl.Secondary)
	assert.Equal(t, []models.Equipment{models.Barbell}, rdl.Equipment)
	assert.True(t, rdl.Compound)

	// unknown equipment is kept so the exercise is filtered out later
	assert.Equal(t, []models.Equipment{"sled"}, got[1].Equipment)

	require.Len(t, skipped, 2)
	assert.Contains(t, skipped[0].Reason, "wings")
	assert.Contains(t, skipped[1].Reason, "duplicate")
}

func TestParse_InvalidTOML(t *testing.T) {
	_, _, err := Parse(strings.NewReader("[[exercises]\nname = "))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	exercises := Default()
	require.NotEmpty(t, exercises)

	ids := map[string]bool{}
	compounds := 0
	for _, ex := range exercises {
		assert.False(t, ids[ex.ID], "duplicate id %s", ex.ID)
		ids[ex.ID] = true
		for _, e := range ex.Equipment {
			_, known := models.ParseEquipment(string(e))
			assert.True(t, known, "%s uses unknown equipment %s", ex.ID, e)
		}
		if ex.Compound {
			compounds++
		}
	}
	assert.Greater(t, compounds, 0)
	assert.Less(t, compounds, len(exercises))
	assert.Equal(t, "back_squat", exercises[0].ID)
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()[:3]))

	got, skipped, err := Parse(&buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, Default()[:3], got)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ez_bar_curl", Slug("EZ-Bar Curl"))
	assert.Equal(t, "pull_up", Slug("  Pull-Up!"))
}
