package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericogr/duel-arena/internal/game"
)

const sampleYAML = `
moves:
  - name: Thunderbolt
    type: Electric
    category: special
    power: 90
    accuracy: 100
    pp: 15
    effect:
      status: par
      status_chance: 10
  - name: Rain Dance
    type: Water
    category: status
    pp: 5
    effect:
      weather: rain
species:
  - name: Pikachu
    types: [Electric]
    base: {hp: 35, atk: 55, def: 40, spa: 50, spd: 50, spe: 90}
`

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	m, err := c.Move("thunder-bolt")
	require.NoError(t, err)
	require.Equal(t, 90, m.Power)
	require.Equal(t, game.StatusParalysis, m.Effect.Status)
	require.Equal(t, game.TargetFoe, m.Target)

	rain, err := c.Move("Rain Dance")
	require.NoError(t, err)
	require.Equal(t, game.TargetField, rain.Target)

	s, err := c.Species("PIKACHU")
	require.NoError(t, err)
	require.Equal(t, []game.Type{game.TypeElectric}, s.Types)
	require.Equal(t, 90, s.Base.Speed)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{"moves":[{"name":"Tackle","type":"Normal","category":"physical","power":40,"accuracy":100,"pp":35}]}`)
	c, err := Parse(data, FormatJSON)
	require.NoError(t, err)
	moves, species := c.Len()
	require.Equal(t, 1, moves)
	require.Equal(t, 0, species)
}

func TestUnknownLookups(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)
	_, err = c.Move("Tackle")
	require.True(t, errors.Is(err, ErrUnknownMove))
	_, err = c.Species("Mew")
	require.True(t, errors.Is(err, ErrUnknownSpecies))
}

func TestValidation(t *testing.T) {
	cases := map[string]game.Move{
		"no pp":         {Name: "A", Category: game.CategoryPhysical, Power: 10},
		"bad category":  {Name: "B", Category: "other", PP: 5},
		"no power":      {Name: "C", Category: game.CategorySpecial, PP: 5},
		"bad accuracy":  {Name: "D", Category: game.CategoryStatus, PP: 5, Accuracy: 120},
		"bad priority":  {Name: "E", Category: game.CategoryStatus, PP: 5, Priority: 9},
		"bad hit range": {Name: "F", Category: game.CategoryPhysical, PP: 5, Power: 20, Effect: game.MoveEffect{MinHits: 5, MaxHits: 2}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New([]game.Move{m}, nil)
			require.ErrorIs(t, err, ErrInvalidData)
		})
	}

	dup := game.Move{Name: "Tackle", Category: game.CategoryPhysical, Power: 40, PP: 35}
	_, err := New([]game.Move{dup, dup}, nil)
	require.ErrorIs(t, err, ErrInvalidData)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	c, err := Load(path)
	require.NoError(t, err)
	_, err = c.Species("pikachu")
	require.NoError(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestID(t *testing.T) {
	require.Equal(t, "thunderpunch", ID("Thunder Punch"))
	require.Equal(t, "thunderpunch", ID("thunder-punch"))
	require.Equal(t, "mrmime", ID("Mr. Mime"))
}

func TestBundledCatalogLoads(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "data", "catalog.yaml"))
	require.NoError(t, err)
	moves, species := c.Len()
	require.Greater(t, moves, 20)
	require.Greater(t, species, 10)

	zard, err := c.Species("charizard")
	require.NoError(t, err)
	require.NotNil(t, zard.Mega)

	tr, err := c.Move("Trick Room")
	require.NoError(t, err)
	require.Equal(t, game.TargetField, tr.Target)
}
