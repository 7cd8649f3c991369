package engine

import "github.com/ericogr/duel-arena/internal/game"

// executePlans runs the sorted plans until the battle ends.
func (tc *turnContext) executePlans(plans []plannedAction) {
	for _, plan := range plans {
		if tc.ended {
			return
		}
		switch a := plan.action.(type) {
		case game.SwitchAction:
			tc.runSwitch(plan.side, a)
		case game.MoveAction:
			tc.runMove(plan, a)
		}
	}
}

// runSwitch re-validates a voluntary switch and performs it.
func (tc *turnContext) runSwitch(side int, a game.SwitchAction) {
	if !containsInt(LegalSwitches(tc.b, side), a.Index) {
		tc.addf("%s could not switch to roster slot %d.", tc.b.Sides[side].Name, a.Index)
		return
	}
	tc.switchIn(side, a.Index)
}

// switchIn withdraws the current active (clearing its stages and volatile
// conditions) and sends out roster index idx.
func (tc *turnContext) switchIn(side, idx int) {
	p := tc.b.Sides[side]
	if out := p.ActiveCombatant(); out != nil {
		if !out.Fainted() {
			tc.addf("%s, come back!", tc.display(out.Name()))
		}
		if out.Volatile.TrappingFoe {
			tc.release(game.Opponent(side))
		}
		out.Withdraw()
	}
	p.Active = idx
	in := p.Roster[idx]
	in.SentOut = true
	tc.fainted[side] = false
	tc.addf("%s sent out %s!", p.Name, tc.display(in.Name()))
}

// runMove re-validates and executes one move plan.
func (tc *turnContext) runMove(plan plannedAction, a game.MoveAction) {
	side, foe := plan.side, game.Opponent(plan.side)
	actor := tc.b.Active(side)
	if actor == nil || actor.Fainted() || actor != plan.actor {
		return
	}
	tc.acted[side] = true

	move, continuing, ok := tc.resolveSlot(actor, a.Slot)
	if !ok {
		tc.addf("%s has no usable move in slot %d.", tc.label(side), a.Slot)
		return
	}
	if !tc.canAct(side, actor) {
		tc.breakLock(actor)
		return
	}
	if a.Slot >= 0 && !continuing {
		actor.Moves[a.Slot].PP--
	}
	tc.addf("%s used %s!", tc.label(side), tc.display(move.Name))

	var landed bool
	switch move.Target {
	case game.TargetField:
		landed = tc.fieldMove(move)
	case game.TargetSelf:
		landed = tc.selfMove(side, actor, move)
	default:
		landed = tc.attack(side, foe, actor, move, a.Slot == game.StruggleSlot)
	}
	tc.updateLock(side, actor, move, a.Slot, continuing, landed)
}

// resolveSlot maps a slot to its move. continuing is set when the
// combatant is already locked into this move, which costs no PP.
func (tc *turnContext) resolveSlot(c *game.Combatant, slot int) (move game.Move, continuing, ok bool) {
	legal, _ := LegalMoves(c)
	if !containsInt(legal, slot) {
		return game.Move{}, false, false
	}
	if slot == game.StruggleSlot {
		return game.Struggle, false, true
	}
	return c.Moves[slot].Move, c.Locked(), true
}

// updateLock starts, advances or ends a forced-move lock. A lock that runs
// out confuses the user; a lock broken by a miss or a failed attempt does
// not.
func (tc *turnContext) updateLock(side int, c *game.Combatant, move game.Move, slot int, continuing, landed bool) {
	if move.Effect.LockTurns <= 1 || slot < 0 {
		return
	}
	if !landed {
		tc.breakLock(c)
		return
	}
	if !continuing {
		c.Volatile.LockedSlot = slot
		c.Volatile.LockedTurns = 1 + tc.rng.Intn(move.Effect.LockTurns-1)
		return
	}
	c.Volatile.LockedTurns--
	if c.Volatile.LockedTurns <= 0 {
		tc.breakLock(c)
		if !c.Fainted() {
			tc.addf("%s became confused due to fatigue!", tc.label(side))
			if c.Volatile.ConfusionTurns == 0 {
				c.Volatile.ConfusionTurns = 2 + tc.rng.Intn(4)
			}
		}
	}
}

func (tc *turnContext) breakLock(c *game.Combatant) {
	c.Volatile.LockedSlot = -1
	c.Volatile.LockedTurns = 0
}

// attack runs a foe-targeted move. It returns whether the move landed.
func (tc *turnContext) attack(side, foe int, actor *game.Combatant, move game.Move, struggle bool) bool {
	target := tc.b.Active(foe)
	if target == nil || target.Fainted() {
		tc.add("But there was no target...")
		return false
	}
	if !tc.accuracyCheck(actor, target, move) {
		tc.addf("%s's attack missed!", tc.label(side))
		return false
	}

	if move.Category == game.CategoryStatus {
		if target.Volatile.SubstituteHP > 0 {
			tc.add("But it failed!")
			return false
		}
		tc.secondary(side, foe, actor, target, move, true)
		tc.selfEffects(side, actor, move)
		return true
	}

	eff := Effectiveness(move.Type, target.Types, tc.b.Inverse())
	if eff == 0 {
		tc.addf("It doesn't affect %s...", tc.label(foe))
		return false
	}

	hits := tc.hitCount(move)
	dealt, landed := 0, 0
	behindSub := false
	for i := 0; i < hits; i++ {
		crit := tc.rollCrit()
		dmg := tc.damage(actor, target, move, crit, eff)
		if target.Volatile.SubstituteHP > 0 {
			behindSub = true
			absorbed := dmg
			if absorbed > target.Volatile.SubstituteHP {
				absorbed = target.Volatile.SubstituteHP
			}
			target.Volatile.SubstituteHP -= absorbed
			dealt += absorbed
			tc.add("The substitute took damage for " + tc.label(foe) + "!")
			if target.Volatile.SubstituteHP == 0 {
				tc.addf("%s's substitute faded!", tc.label(foe))
			}
		} else {
			dealt += target.Damage(dmg)
		}
		landed++
		if crit {
			tc.add("A critical hit!")
		}
		tc.faintCheck(foe)
		if target.Fainted() {
			break
		}
	}
	switch {
	case eff > 1:
		tc.add("It's super effective!")
	case eff < 1:
		tc.add("It's not very effective...")
	}
	if hits > 1 {
		tc.addf("Hit %d time(s)!", landed)
	}

	if move.Effect.DrainPercent > 0 && dealt > 0 {
		heal := dealt * move.Effect.DrainPercent / 100
		if heal < 1 {
			heal = 1
		}
		if actor.Heal(heal) > 0 {
			tc.addf("%s had its energy drained!", tc.label(foe))
		}
	}
	recoil := 0
	if struggle {
		recoil = actor.Fraction(4)
	} else if move.Effect.RecoilPercent > 0 && dealt > 0 {
		recoil = dealt * move.Effect.RecoilPercent / 100
		if recoil < 1 {
			recoil = 1
		}
	}
	if recoil > 0 && actor.Damage(recoil) > 0 {
		tc.addf("%s is damaged by recoil!", tc.label(side))
	}
	tc.faintCheck(foe, side)

	if !behindSub && !target.Fainted() {
		tc.secondary(side, foe, actor, target, move, false)
	}
	tc.selfEffects(side, actor, move)
	return true
}

// secondary applies the effects a move has on its target. primary is set
// for status moves, whose effects are the point of the move.
func (tc *turnContext) secondary(side, foe int, actor, target *game.Combatant, move game.Move, primary bool) {
	e := move.Effect
	if e.Status != game.StatusNone && tc.roll(e.StatusChance) {
		tc.inflictStatus(foe, target, e.Status, primary)
	}
	if e.Confuse && tc.roll(e.ConfuseChance) {
		tc.confuse(foe, target, primary)
	}
	if e.FlinchChance > 0 && !tc.acted[foe] && tc.rng.Intn(100) < e.FlinchChance {
		target.Volatile.Flinched = true
	}
	if e.Trap && !target.Fainted() && !target.Volatile.Trapped {
		target.Volatile.Trapped = true
		actor.Volatile.TrappingFoe = true
		tc.addf("%s can no longer escape!", tc.label(foe))
	}
	for _, sc := range e.Stages {
		if !sc.Self && tc.roll(sc.Chance) {
			tc.applyStage(foe, target, sc)
		}
	}
}

// selfEffects applies the stage changes a move has on its user.
func (tc *turnContext) selfEffects(side int, actor *game.Combatant, move game.Move) {
	for _, sc := range move.Effect.Stages {
		if sc.Self && tc.roll(sc.Chance) {
			tc.applyStage(side, actor, sc)
		}
	}
}

// selfMove runs a move that only affects its user.
func (tc *turnContext) selfMove(side int, actor *game.Combatant, move game.Move) bool {
	e := move.Effect
	if e.Substitute {
		cost := actor.Fraction(4)
		switch {
		case actor.Volatile.SubstituteHP > 0:
			tc.addf("%s already has a substitute!", tc.label(side))
			return false
		case actor.HP <= cost:
			tc.add("But it does not have enough HP left to make a substitute!")
			return false
		}
		actor.Damage(cost)
		actor.Volatile.SubstituteHP = cost
		tc.addf("%s put in a substitute!", tc.label(side))
	}
	if e.HealPercent > 0 {
		if actor.Heal(actor.MaxHP*e.HealPercent/100) == 0 {
			tc.addf("%s's HP is full!", tc.label(side))
		} else {
			tc.addf("%s regained health!", tc.label(side))
		}
	}
	for _, sc := range e.Stages {
		if tc.roll(sc.Chance) {
			tc.applyStage(side, actor, sc)
		}
	}
	return true
}

var weatherStart = map[game.Weather]string{
	game.WeatherSun:  "The sunlight turned harsh!",
	game.WeatherRain: "It started to rain!",
	game.WeatherSand: "A sandstorm kicked up!",
	game.WeatherHail: "It started to hail!",
}

var weatherEnd = map[game.Weather]string{
	game.WeatherSun:  "The harsh sunlight faded.",
	game.WeatherRain: "The rain stopped.",
	game.WeatherSand: "The sandstorm subsided.",
	game.WeatherHail: "The hail stopped.",
}

// fieldMove sets weather or toggles trick room.
func (tc *turnContext) fieldMove(move game.Move) bool {
	f := &tc.b.Field
	landed := false
	if w := move.Effect.Weather; w != game.WeatherNone {
		if f.Weather == w {
			tc.add("But it failed!")
		} else {
			f.SetWeather(w, game.DefaultWeatherTurns)
			tc.add(weatherStart[w])
			landed = true
		}
	}
	if move.Effect.TrickRoom {
		if f.ToggleTrickRoom(game.DefaultTrickRoomTurns) {
			tc.add("The dimensions were twisted!")
		} else {
			tc.add("The twisted dimensions returned to normal!")
		}
		landed = true
	}
	return landed
}

// megaEvolve applies requested mega evolutions before any action runs.
func (tc *turnContext) megaEvolve() {
	for side, p := range tc.b.Sides {
		a, ok := p.Pending.(game.MoveAction)
		if !ok || !a.Mega || !CanMega(tc.b, side) {
			continue
		}
		c := p.ActiveCombatant()
		c.MegaEvolve()
		p.MegaUsed = true
		tc.addf("%s has mega evolved into %s!", tc.labelOf(side, c), tc.display(c.Mega.Name))
	}
}
