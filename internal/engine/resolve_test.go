package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/ericogr/duel-arena/internal/game"
)

func TestResolveTurn_BasicAttacks(t *testing.T) {
	tackle := physical("tackle", game.TypeNormal, 40, 0)
	tackle.Accuracy = 0
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Eevee", []game.Type{game.TypeNormal}, testStats, tackle)},
		[]*game.Combatant{newCombatant("Rattata", []game.Type{game.TypeNormal}, testStats, tackle)},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})

	res := mustResolve(t, b, 1)

	for side := 0; side < 2; side++ {
		c := b.Active(side)
		if c.HP >= c.MaxHP {
			t.Fatalf("expected side %d to take damage, got HP=%d", side, c.HP)
		}
		if c.Moves[0].PP != 9 {
			t.Fatalf("expected PP to drop to 9, got %d", c.Moves[0].PP)
		}
		if b.Sides[side].Pending != nil {
			t.Fatalf("expected pending action of side %d to be cleared", side)
		}
	}
	if res.Ended {
		t.Fatalf("battle should not end")
	}
	if b.Turn != 0 {
		t.Fatalf("resolver must not advance the turn counter, got %d", b.Turn)
	}
}

// Scenario A: priority beats a speed tie and higher power.
func TestResolveTurn_PriorityFirst(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		slam := physical("body-slam", game.TypeNormal, 80, 0)
		quick := physical("quick-attack", game.TypeNormal, 40, 1)
		b := newBattle(game.BattleFull,
			[]*game.Combatant{newCombatant("Snorlax", []game.Type{game.TypeNormal}, testStats, slam)},
			[]*game.Combatant{newCombatant("Rattata", []game.Type{game.TypeNormal}, testStats, quick)},
		)
		setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
		res := mustResolve(t, b, seed)

		q := lineIndex(res.Log, "used Quick Attack")
		s := lineIndex(res.Log, "used Body Slam")
		if q < 0 || s < 0 || q > s {
			t.Fatalf("seed %d: expected Quick Attack before Body Slam, log=%v", seed, res.Log)
		}
	}
}

func TestResolveTurn_TrickRoomInvertsSpeed(t *testing.T) {
	fast := testStats
	fast.Speed = 200
	slow := testStats
	slow.Speed = 50
	tackle := physical("tackle", game.TypeNormal, 10, 0)

	for _, trickRoom := range []bool{false, true} {
		b := newBattle(game.BattleFull,
			[]*game.Combatant{newCombatant("Jolteon", []game.Type{game.TypeElectric}, fast, tackle)},
			[]*game.Combatant{newCombatant("Slowbro", []game.Type{game.TypeWater}, slow, tackle)},
		)
		if trickRoom {
			b.Field.ToggleTrickRoom(3)
		}
		setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
		res := mustResolve(t, b, 7)

		j := lineIndex(res.Log, "Red's Jolteon used")
		s := lineIndex(res.Log, "Blue's Slowbro used")
		if trickRoom && s > j {
			t.Fatalf("trick room: slower side must move first, log=%v", res.Log)
		}
		if !trickRoom && j > s {
			t.Fatalf("no trick room: faster side must move first, log=%v", res.Log)
		}
	}
}

func TestResolveTurn_SwitchBeforeMove(t *testing.T) {
	fast := physical("extreme-speed", game.TypeNormal, 80, 2)
	b := newBattle(game.BattleFull,
		[]*game.Combatant{
			newCombatant("Pidgey", []game.Type{game.TypeFlying}, testStats, fast),
			newCombatant("Geodude", []game.Type{game.TypeRock, game.TypeGround}, testStats, fast),
		},
		[]*game.Combatant{newCombatant("Arcanine", []game.Type{game.TypeFire}, testStats, fast)},
	)
	b.Active(0).Stages.Attack = 2
	setPending(b, game.SwitchAction{Index: 1}, game.MoveAction{Slot: 0})
	res := mustResolve(t, b, 3)

	sw := lineIndex(res.Log, "sent out Geodude")
	mv := lineIndex(res.Log, "used Extreme Speed")
	if sw < 0 || mv < 0 || sw > mv {
		t.Fatalf("switch must run before the move, log=%v", res.Log)
	}
	if b.Sides[0].Active != 1 {
		t.Fatalf("expected Geodude active, got %d", b.Sides[0].Active)
	}
	if b.Sides[0].Roster[0].Stages.Attack != 0 {
		t.Fatalf("outgoing combatant must have its stages reset")
	}
	if !b.Sides[0].Roster[1].SentOut {
		t.Fatalf("incoming combatant must be marked sent out")
	}
}

// Scenario B: a mid-turn faint asks for exactly one replacement and the
// fainted combatant never acts.
func TestResolveTurn_FaintRequiresSwitch(t *testing.T) {
	strong := physical("hyper-beam", game.TypeNormal, 150, 1)
	strong.Accuracy = 0
	weak := physical("scratch", game.TypeNormal, 40, 0)
	target := newCombatant("Magikarp", []game.Type{game.TypeWater}, testStats, weak)
	target.HP = 1
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Dragonite", []game.Type{game.TypeDragon}, testStats, strong)},
		[]*game.Combatant{target, newCombatant("Gyarados", []game.Type{game.TypeWater}, testStats, weak)},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	res := mustResolve(t, b, 11)

	if res.Ended {
		t.Fatalf("battle should continue while Blue has Gyarados")
	}
	if res.NeedSwitch != [2]bool{false, true} {
		t.Fatalf("expected only Blue to need a switch, got %v", res.NeedSwitch)
	}
	if lineIndex(res.Log, "used Scratch") >= 0 {
		t.Fatalf("fainted combatant must not act, log=%v", res.Log)
	}
	if got := LegalSwitches(b, 1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected Gyarados as the only legal switch, got %v", got)
	}
	if _, err := ResolveTurn(b, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvariant) {
		t.Fatalf("resolving with a fainted active must fail, got %v", err)
	}

	if _, err := ApplySwitch(b, 1, 1, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("apply switch: %v", err)
	}
	if b.Active(1).Species != "Gyarados" {
		t.Fatalf("expected Gyarados active after forced switch")
	}
}

func TestResolveTurn_LastFaintEndsBattle(t *testing.T) {
	strong := physical("hyper-beam", game.TypeNormal, 150, 0)
	strong.Accuracy = 0
	target := newCombatant("Magikarp", []game.Type{game.TypeWater}, testStats, strong)
	target.HP = 1
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Dragonite", []game.Type{game.TypeDragon}, testStats, strong)},
		[]*game.Combatant{target},
	)
	b.Field.SetWeather(game.WeatherSand, 3)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	b.Active(1).Stats.Speed = 1
	res := mustResolve(t, b, 5)

	if !res.Ended || res.Winner != 0 {
		t.Fatalf("expected Red to win, got ended=%v winner=%d", res.Ended, res.Winner)
	}
	if res.NeedSwitch != [2]bool{} {
		t.Fatalf("no switch is requested once the battle ended")
	}
	if b.Field.WeatherTurns != 3 {
		t.Fatalf("field must not tick on a turn that ended the battle")
	}
}

// Scenario D: weather with one turn left is gone after the next turn.
func TestResolveTurn_WeatherExpires(t *testing.T) {
	splash := selfStatus("splash")
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Onix", []game.Type{game.TypeRock}, testStats, splash)},
		[]*game.Combatant{newCombatant("Steelix", []game.Type{game.TypeSteel}, testStats, splash)},
	)
	b.Field.SetWeather(game.WeatherSand, 1)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	res := mustResolve(t, b, 1)

	if b.Field.Weather != game.WeatherNone || b.Field.WeatherTurns != 0 {
		t.Fatalf("expected weather to clear, got %q/%d", b.Field.Weather, b.Field.WeatherTurns)
	}
	if lineIndex(res.Log, "sandstorm subsided") < 0 {
		t.Fatalf("expected weather end line, log=%v", res.Log)
	}
	if b.Active(0).HP != b.Active(0).MaxHP || b.Active(1).HP != b.Active(1).MaxHP {
		t.Fatalf("rock and steel types ignore sandstorm chip damage")
	}
}

func TestResolveTurn_Residuals(t *testing.T) {
	splash := selfStatus("splash")
	burned := newCombatant("Machop", []game.Type{game.TypeFighting}, testStats, splash)
	burned.Status = game.StatusBurn
	poisoned := newCombatant("Oddish", []game.Type{game.TypeGrass}, testStats, splash)
	poisoned.Status = game.StatusPoison
	b := newBattle(game.BattleFull, []*game.Combatant{burned}, []*game.Combatant{poisoned})
	b.Field.SetWeather(game.WeatherHail, 5)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 1)

	if want := 150 - 150/16 - 150/16; burned.HP != want {
		t.Fatalf("burn + hail: expected HP %d, got %d", want, burned.HP)
	}
	if want := 150 - 150/16 - 150/8; poisoned.HP != want {
		t.Fatalf("poison + hail: expected HP %d, got %d", want, poisoned.HP)
	}
	if b.Field.WeatherTurns != 4 {
		t.Fatalf("expected weather counter 4, got %d", b.Field.WeatherTurns)
	}
}

// Scenario E: no PP anywhere leaves Struggle as the only legal move.
func TestStruggle(t *testing.T) {
	tackle := physical("tackle", game.TypeNormal, 40, 0)
	tired := newCombatant("Ditto", []game.Type{game.TypeNormal}, testStats, tackle, tackle)
	for i := range tired.Moves {
		tired.Moves[i].PP = 0
	}

	slots, forced := LegalMoves(tired)
	if len(slots) != 1 || slots[0] != game.StruggleSlot || forced {
		t.Fatalf("expected only Struggle, got %v forced=%v", slots, forced)
	}

	b := newBattle(game.BattleFull,
		[]*game.Combatant{tired},
		[]*game.Combatant{newCombatant("Gastly", []game.Type{game.TypeGhost}, testStats, selfStatus("splash"))},
	)
	ch := ChoicesFor(b, 0, false)
	if !ch.Struggle {
		t.Fatalf("expected choices to flag Struggle")
	}
	if err := ValidateAction(b, 0, game.MoveAction{Slot: 0}, false); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("slot without PP must be illegal, got %v", err)
	}

	setPending(b, game.MoveAction{Slot: game.StruggleSlot}, game.MoveAction{Slot: 0})
	res := mustResolve(t, b, 2)
	if lineIndex(res.Log, "used Struggle") < 0 {
		t.Fatalf("expected Struggle in log, got %v", res.Log)
	}
	if b.Active(1).HP == b.Active(1).MaxHP {
		t.Fatalf("typeless Struggle must hit a ghost")
	}
	if want := tired.MaxHP - tired.MaxHP/4; tired.HP != want {
		t.Fatalf("expected recoil of a quarter max HP, HP=%d want %d", tired.HP, want)
	}
}

func TestSubstituteAbsorbsDamage(t *testing.T) {
	sub := selfStatus("substitute")
	sub.Effect.Substitute = true
	sub.Priority = 4
	tackle := physical("tackle", game.TypeNormal, 20, 0)
	tackle.Accuracy = 0
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Mew", []game.Type{game.TypePsychic}, testStats, sub)},
		[]*game.Combatant{newCombatant("Pidgey", []game.Type{game.TypeNormal}, testStats, tackle)},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 9)

	mew := b.Active(0)
	if mew.HP != mew.MaxHP-mew.MaxHP/4 {
		t.Fatalf("substitute must cost a quarter max HP, HP=%d", mew.HP)
	}
	if mew.Volatile.SubstituteHP >= mew.MaxHP/4 {
		t.Fatalf("substitute should have absorbed the hit, sub HP=%d", mew.Volatile.SubstituteHP)
	}
}

func TestTrickRoomMoveToggles(t *testing.T) {
	tr := game.Move{Name: "trick-room", Type: game.TypePsychic, Category: game.CategoryStatus, Target: game.TargetField, Priority: -7, PP: 5, Effect: game.MoveEffect{TrickRoom: true}}
	splash := selfStatus("splash")
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Bronzong", []game.Type{game.TypeSteel}, testStats, tr)},
		[]*game.Combatant{newCombatant("Chansey", []game.Type{game.TypeNormal}, testStats, splash)},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 1)
	if !b.Field.TrickRoom || b.Field.TrickRoomTurns != game.DefaultTrickRoomTurns-1 {
		t.Fatalf("expected trick room with %d turns, got %v/%d", game.DefaultTrickRoomTurns-1, b.Field.TrickRoom, b.Field.TrickRoomTurns)
	}

	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 2)
	if b.Field.TrickRoom {
		t.Fatalf("using trick room while active must end it")
	}
}

func TestTrappedCannotSwitch(t *testing.T) {
	block := game.Move{Name: "mean-look", Type: game.TypeNormal, Category: game.CategoryStatus, Target: game.TargetFoe, PP: 5, Effect: game.MoveEffect{Trap: true}}
	splash := selfStatus("splash")
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Umbreon", []game.Type{game.TypeDark}, testStats, block)},
		[]*game.Combatant{
			newCombatant("Alakazam", []game.Type{game.TypePsychic}, testStats, splash),
			newCombatant("Abra", []game.Type{game.TypePsychic}, testStats, splash),
		},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 1)

	if got := LegalSwitches(b, 1); len(got) != 0 {
		t.Fatalf("trapped side must not switch, got %v", got)
	}
	if err := ValidateAction(b, 1, game.SwitchAction{Index: 1}, false); !errors.Is(err, ErrIllegalSwitch) {
		t.Fatalf("expected illegal switch, got %v", err)
	}

	// the trap ends when the trapper leaves
	b.Sides[0].Roster = append(b.Sides[0].Roster, newCombatant("Eevee", []game.Type{game.TypeNormal}, testStats, splash))
	setPending(b, game.SwitchAction{Index: 1}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 2)
	if got := LegalSwitches(b, 1); len(got) != 1 {
		t.Fatalf("expected Blue to be free to switch, got %v", got)
	}
}

func TestForcedMoveLock(t *testing.T) {
	outrage := physical("outrage", game.TypeDragon, 20, 0)
	outrage.Accuracy = 0
	outrage.Effect.LockTurns = 3
	other := physical("tackle", game.TypeNormal, 20, 0)
	sturdy := testStats
	sturdy.HP = 1000
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("Salamence", []game.Type{game.TypeDragon}, sturdy, outrage, other)},
		[]*game.Combatant{newCombatant("Snorlax", []game.Type{game.TypeNormal}, sturdy, selfStatus("splash"))},
	)
	setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
	mustResolve(t, b, 4)

	slots, forced := LegalMoves(b.Active(0))
	if !forced || len(slots) != 1 || slots[0] != 0 {
		t.Fatalf("expected a forced move on slot 0, got %v forced=%v", slots, forced)
	}
	if !ChoicesFor(b, 0, false).ForcedMove {
		t.Fatalf("choices must signal the forced move")
	}
	pp := b.Active(0).Moves[0].PP

	// drive the lock to its end
	for i := 0; i < 3 && b.Active(0).Locked(); i++ {
		setPending(b, game.MoveAction{Slot: 0}, game.MoveAction{Slot: 0})
		mustResolve(t, b, int64(10+i))
	}
	if b.Active(0).Locked() {
		t.Fatalf("lock must expire within its duration")
	}
	if b.Active(0).Moves[0].PP != pp {
		t.Fatalf("locked continuation must not spend PP")
	}
}

func TestMegaEvolutionOncePerSide(t *testing.T) {
	tackle := physical("tackle", game.TypeNormal, 20, 0)
	species := game.Species{Name: "Charizard", Types: []game.Type{game.TypeFire, game.TypeFlying},
		Mega: &game.MegaForm{Name: "Charizard-Mega-Y", Types: []game.Type{game.TypeFire, game.TypeFlying}, Stats: game.Stats{Attack: 104, Defense: 78, SpAttack: 159, SpDefense: 115, Speed: 100}}}
	zard := game.NewCombatant(species, "", 50, testStats, []game.Move{tackle})
	b := newBattle(game.BattleFull,
		[]*game.Combatant{zard},
		[]*game.Combatant{newCombatant("Blissey", []game.Type{game.TypeNormal}, testStats, selfStatus("splash"))},
	)
	if err := ValidateAction(b, 0, game.MoveAction{Slot: 0, Mega: true}, false); err != nil {
		t.Fatalf("mega must be available: %v", err)
	}
	if err := ValidateAction(b, 1, game.MoveAction{Slot: 0, Mega: true}, false); !errors.Is(err, ErrMegaUnavailable) {
		t.Fatalf("expected mega unavailable, got %v", err)
	}

	setPending(b, game.MoveAction{Slot: 0, Mega: true}, game.MoveAction{Slot: 0})
	res := mustResolve(t, b, 1)
	if !zard.MegaActive || !b.Sides[0].MegaUsed {
		t.Fatalf("expected mega evolution to apply")
	}
	if zard.Stats.SpAttack != 159 || zard.Stats.HP != testStats.HP {
		t.Fatalf("mega stats must replace all but HP, got %+v", zard.Stats)
	}
	if lineIndex(res.Log, "mega evolved") != 0 {
		t.Fatalf("mega evolution must be the first event, log=%v", res.Log)
	}
	if CanMega(b, 0) {
		t.Fatalf("mega is once per battle")
	}
}

func TestApplySwitch_Lead(t *testing.T) {
	splash := selfStatus("splash")
	a := game.NewParticipant("red", "Red", game.KindHuman, []*game.Combatant{
		newCombatant("Pikachu", []game.Type{game.TypeElectric}, testStats, splash),
		newCombatant("Raichu", []game.Type{game.TypeElectric}, testStats, splash),
	})
	bl := game.NewParticipant("ai", "Rival", game.KindAutomated, []*game.Combatant{
		newCombatant("Eevee", []game.Type{game.TypeNormal}, testStats, splash),
	})
	b := game.NewBattle(game.BattleSingle, a, bl)
	rng := rand.New(rand.NewSource(1))

	if _, err := ApplySwitch(b, 0, 1, rng); err != nil {
		t.Fatalf("lead selection: %v", err)
	}
	if a.Lead != 1 || a.Active != 1 {
		t.Fatalf("expected lead 1, got lead=%d active=%d", a.Lead, a.Active)
	}
	// single battles only field the lead
	if got := LegalSwitches(b, 0); len(got) != 0 {
		t.Fatalf("single battle must not offer switches, got %v", got)
	}
	if b.Living(0) != 1 {
		t.Fatalf("single battle counts only the lead, got %d", b.Living(0))
	}
	if _, err := ApplySwitch(b, 1, 3, rng); !errors.Is(err, ErrIllegalSwitch) {
		t.Fatalf("expected illegal lead index, got %v", err)
	}
}

func TestEffectiveness(t *testing.T) {
	cases := []struct {
		attack  game.Type
		defense []game.Type
		inverse bool
		want    float64
	}{
		{game.TypeElectric, []game.Type{game.TypeWater, game.TypeFlying}, false, 4},
		{game.TypeElectric, []game.Type{game.TypeGround}, false, 0},
		{game.TypeElectric, []game.Type{game.TypeGround}, true, 2},
		{game.TypeFire, []game.Type{game.TypeGrass}, true, 0.5},
		{game.TypeNormal, []game.Type{game.TypeNormal}, true, 1},
		{game.TypeNone, []game.Type{game.TypeGhost}, false, 1},
		{game.TypeFighting, []game.Type{game.TypeNormal, game.TypeGhost}, false, 0},
	}
	for _, c := range cases {
		if got := Effectiveness(c.attack, c.defense, c.inverse); got != c.want {
			t.Fatalf("%s vs %v (inverse=%v): got %v want %v", c.attack, c.defense, c.inverse, got, c.want)
		}
	}
}

func TestCheckInvariants(t *testing.T) {
	b := newBattle(game.BattleFull,
		[]*game.Combatant{newCombatant("A", []game.Type{game.TypeNormal}, testStats, selfStatus("splash"))},
		[]*game.Combatant{newCombatant("B", []game.Type{game.TypeNormal}, testStats, selfStatus("splash"))},
	)
	if err := CheckInvariants(b); err != nil {
		t.Fatalf("fresh battle: %v", err)
	}
	b.Active(1).HP = -3
	if err := CheckInvariants(b); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
}
