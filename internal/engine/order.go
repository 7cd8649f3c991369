package engine

import (
	"sort"

	"github.com/ericogr/duel-arena/internal/game"
)

// --- Planned action model ---------------------------------------------
type plannedAction struct {
	side     int
	actor    *game.Combatant
	action   game.Action
	priority int
	speed    int
}

// isSwitch reports whether the plan belongs to the switch bracket, which
// always runs before moves.
func (p plannedAction) isSwitch() bool {
	_, ok := p.action.(game.SwitchAction)
	return ok
}

// buildPlans converts the pending actions of both sides into plans. Nil and
// forfeit actions produce no plan; forfeits never reach the resolver.
func (tc *turnContext) buildPlans() []plannedAction {
	plans := make([]plannedAction, 0, 2)
	for side, p := range tc.b.Sides {
		actor := p.ActiveCombatant()
		switch a := p.Pending.(type) {
		case game.SwitchAction:
			plans = append(plans, plannedAction{side: side, actor: actor, action: a})
		case game.MoveAction:
			plans = append(plans, plannedAction{
				side:     side,
				actor:    actor,
				action:   a,
				priority: movePriority(actor, a.Slot),
				speed:    EffectiveSpeed(actor),
			})
		}
	}
	return plans
}

func movePriority(c *game.Combatant, slot int) int {
	if c == nil || slot < 0 || slot >= len(c.Moves) {
		return game.Struggle.Priority
	}
	return c.Moves[slot].Move.Priority
}

// sortPlans orders plans: switches first, then moves by priority
// (descending), then by effective speed (descending, ascending under trick
// room), then side 0 before side 1.
func sortPlans(plans []plannedAction, trickRoom bool) {
	sort.SliceStable(plans, func(i, j int) bool {
		return planBefore(plans[i], plans[j], trickRoom)
	})
}

func planBefore(a, b plannedAction, trickRoom bool) bool {
	if a.isSwitch() != b.isSwitch() {
		return a.isSwitch()
	}
	if !a.isSwitch() {
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.speed != b.speed {
			if trickRoom {
				return a.speed < b.speed
			}
			return a.speed > b.speed
		}
	}
	return a.side < b.side
}
