package game

// Type is an elemental type tag ("Fire", "Water", ...). TypeNone marks
// typeless damage such as Struggle.
type Type string

const (
	TypeNone     Type = ""
	TypeNormal   Type = "Normal"
	TypeFire     Type = "Fire"
	TypeWater    Type = "Water"
	TypeElectric Type = "Electric"
	TypeGrass    Type = "Grass"
	TypeIce      Type = "Ice"
	TypeFighting Type = "Fighting"
	TypePoison   Type = "Poison"
	TypeGround   Type = "Ground"
	TypeFlying   Type = "Flying"
	TypePsychic  Type = "Psychic"
	TypeBug      Type = "Bug"
	TypeRock     Type = "Rock"
	TypeGhost    Type = "Ghost"
	TypeDragon   Type = "Dragon"
	TypeDark     Type = "Dark"
	TypeSteel    Type = "Steel"
	TypeFairy    Type = "Fairy"
)

// MoveCategory decides which attack/defense pair a move uses.
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// MoveTarget tells the resolver who a move affects.
type MoveTarget string

const (
	TargetFoe   MoveTarget = "foe"
	TargetSelf  MoveTarget = "self"
	TargetField MoveTarget = "field"
)

// Status is a non-volatile condition. It survives switching out.
type Status string

const (
	StatusNone      Status = ""
	StatusBurn      Status = "brn"
	StatusFreeze    Status = "frz"
	StatusParalysis Status = "par"
	StatusPoison    Status = "psn"
	StatusSleep     Status = "slp"
)

// Weather is the field-wide weather tag.
type Weather string

const (
	WeatherNone Weather = ""
	WeatherSun  Weather = "sun"
	WeatherRain Weather = "rain"
	WeatherSand Weather = "sand"
	WeatherHail Weather = "hail"
)

// BattleType selects the ruleset of a battle.
type BattleType string

const (
	// BattleSingle fields only the chosen lead of each roster.
	BattleSingle BattleType = "single"
	// BattleFull lets every roster member (up to MaxRosterSize) take part.
	BattleFull BattleType = "full"
	// BattleInverse is a full-roster battle on the inverted type chart.
	BattleInverse BattleType = "inverse"
)

// Valid reports whether t is a known battle type.
func (t BattleType) Valid() bool {
	switch t {
	case BattleSingle, BattleFull, BattleInverse:
		return true
	}
	return false
}

// Stat names a battle statistic. HP is never staged; accuracy and evasion
// only exist as stages.
type Stat string

const (
	StatHP        Stat = "hp"
	StatAttack    Stat = "atk"
	StatDefense   Stat = "def"
	StatSpAttack  Stat = "spa"
	StatSpDefense Stat = "spd"
	StatSpeed     Stat = "spe"
	StatAccuracy  Stat = "accuracy"
	StatEvasion   Stat = "evasion"
)

const (
	MaxRosterSize = 6
	MaxMoves      = 4
	MaxStage      = 6
	MinStage      = -6

	// DefaultWeatherTurns and DefaultTrickRoomTurns are the durations set by
	// moves that start those field effects.
	DefaultWeatherTurns   = 5
	DefaultTrickRoomTurns = 5
)

// Stats holds the six calculated statistics of a combatant.
type Stats struct {
	HP        int `json:"hp" yaml:"hp"`
	Attack    int `json:"atk" yaml:"atk"`
	Defense   int `json:"def" yaml:"def"`
	SpAttack  int `json:"spa" yaml:"spa"`
	SpDefense int `json:"spd" yaml:"spd"`
	Speed     int `json:"spe" yaml:"spe"`
}

// Get returns the value for s, or 0 for stage-only stats.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatHP:
		return s.HP
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatSpAttack:
		return s.SpAttack
	case StatSpDefense:
		return s.SpDefense
	case StatSpeed:
		return s.Speed
	}
	return 0
}

// Stages holds the -6..+6 boosts of a combatant, accuracy and evasion
// included.
type Stages struct {
	Attack    int `json:"atk"`
	Defense   int `json:"def"`
	SpAttack  int `json:"spa"`
	SpDefense int `json:"spd"`
	Speed     int `json:"spe"`
	Accuracy  int `json:"accuracy"`
	Evasion   int `json:"evasion"`
}

func (s *Stages) ref(stat Stat) *int {
	switch stat {
	case StatAttack:
		return &s.Attack
	case StatDefense:
		return &s.Defense
	case StatSpAttack:
		return &s.SpAttack
	case StatSpDefense:
		return &s.SpDefense
	case StatSpeed:
		return &s.Speed
	case StatAccuracy:
		return &s.Accuracy
	case StatEvasion:
		return &s.Evasion
	}
	return nil
}

// Get returns the current stage of stat.
func (s Stages) Get(stat Stat) int {
	if p := s.ref(stat); p != nil {
		return *p
	}
	return 0
}

// Apply shifts stat by delta, clamped to MinStage..MaxStage, and returns the
// change that actually took place.
func (s *Stages) Apply(stat Stat, delta int) int {
	p := s.ref(stat)
	if p == nil {
		return 0
	}
	next := *p + delta
	if next > MaxStage {
		next = MaxStage
	}
	if next < MinStage {
		next = MinStage
	}
	applied := next - *p
	*p = next
	return applied
}

// StageChange is a stat stage shift carried by a move.
type StageChange struct {
	Stat   Stat `json:"stat" yaml:"stat"`
	Delta  int  `json:"delta" yaml:"delta"`
	Self   bool `json:"self" yaml:"self"`
	Chance int  `json:"chance" yaml:"chance"` // percent, 0 means always
}

// MoveEffect groups every secondary behavior a move may have. All fields are
// optional.
type MoveEffect struct {
	Status        Status        `json:"status,omitempty" yaml:"status"`
	StatusChance  int           `json:"status_chance,omitempty" yaml:"status_chance"`
	Confuse       bool          `json:"confuse,omitempty" yaml:"confuse"`
	ConfuseChance int           `json:"confuse_chance,omitempty" yaml:"confuse_chance"`
	FlinchChance  int           `json:"flinch_chance,omitempty" yaml:"flinch_chance"`
	Stages        []StageChange `json:"stages,omitempty" yaml:"stages"`
	Weather       Weather       `json:"weather,omitempty" yaml:"weather"`
	TrickRoom     bool          `json:"trick_room,omitempty" yaml:"trick_room"`
	Trap          bool          `json:"trap,omitempty" yaml:"trap"`
	Substitute    bool          `json:"substitute,omitempty" yaml:"substitute"`
	RecoilPercent int           `json:"recoil_percent,omitempty" yaml:"recoil_percent"`
	DrainPercent  int           `json:"drain_percent,omitempty" yaml:"drain_percent"`
	HealPercent   int           `json:"heal_percent,omitempty" yaml:"heal_percent"`
	MinHits       int           `json:"min_hits,omitempty" yaml:"min_hits"`
	MaxHits       int           `json:"max_hits,omitempty" yaml:"max_hits"`
	// LockTurns > 0 pins the user to this move for 2..LockTurns turns and
	// confuses it once the lock expires.
	LockTurns int `json:"lock_turns,omitempty" yaml:"lock_turns"`
}

// Move is the catalog description of a move.
type Move struct {
	Name     string       `json:"name" yaml:"name"`
	Type     Type         `json:"type" yaml:"type"`
	Category MoveCategory `json:"category" yaml:"category"`
	Target   MoveTarget   `json:"target" yaml:"target"`
	Power    int          `json:"power" yaml:"power"`
	Accuracy int          `json:"accuracy" yaml:"accuracy"` // 0 never misses
	Priority int          `json:"priority" yaml:"priority"`
	PP       int          `json:"pp" yaml:"pp"`
	Effect   MoveEffect   `json:"effect" yaml:"effect"`
}

// StruggleSlot is the move slot used to request Struggle.
const StruggleSlot = -1

// Struggle is used when a combatant has no PP left on any move.
var Struggle = Move{
	Name:     "Struggle",
	Type:     TypeNone,
	Category: CategoryPhysical,
	Target:   TargetFoe,
	Power:    50,
}

// MegaForm is the alternate form a mega-eligible combatant can take once
// per battle.
type MegaForm struct {
	Name  string `json:"name" yaml:"name"`
	Types []Type `json:"types" yaml:"types"`
	Stats Stats  `json:"stats" yaml:"stats"`
}

// Species is the catalog description of a species.
type Species struct {
	Name  string    `json:"name" yaml:"name"`
	Types []Type    `json:"types" yaml:"types"`
	Base  Stats     `json:"base" yaml:"base"`
	Mega  *MegaForm `json:"mega,omitempty" yaml:"mega"`
}
