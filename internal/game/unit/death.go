package unit

import "go.uber.org/zap"

// ExperienceRange is the radius around a death within which enemy champions
// share its experience.
const ExperienceRange = 1400.0

// ComebackGoldThreshold is the assisted gold a losing killer must collect
// before its kill-death counter steps back toward zero.
const ComebackGoldThreshold = 50.0

// Die kills the unit, releases everything targeting it, and distributes
// experience and the kill bounty. It runs at most once per unit.
//
// Postcondition: IsDead() and IsToRemove() are true; IsDashing() is false.
func (u *Unit) Die(killer *Unit) {
	if u.dead {
		return
	}
	u.dead = true
	u.toRemove = true
	u.deps.World.StopAllTargetingOf(u)

	u.notify(Died{Victim: u.id, Killer: idOf(killer)})

	u.hooks.onDie.call(HookArgs{Self: u, Other: killer})

	u.shareExperience()
	if killer != nil {
		u.payBounty(killer)
	}

	if u.dashing {
		u.dashing = false
	}
}

func (u *Unit) shareExperience() {
	exp := u.deps.Rules.ExperienceFor(u)
	var champs []*Unit
	for _, c := range u.deps.World.UnitsOfKindInRadius(u.pos, ExperienceRange, KindChampion) {
		if c.team == u.team || c.dead || c == u {
			continue
		}
		if !u.deps.World.TeamHasVisionOf(c.team, u) {
			continue
		}
		champs = append(champs, c)
	}
	if len(champs) == 0 {
		return
	}

	share := exp / float64(len(champs))
	for _, c := range champs {
		c.stats.AddExperience(share)
		u.notify(ExperienceGranted{Unit: c.id, Victim: u.id, Amount: share})
	}
}

func (u *Unit) payBounty(killer *Unit) {
	if killer.kind != KindChampion {
		return
	}
	gold := u.deps.Rules.CurrencyFor(u)
	if gold <= 0 {
		return
	}

	killer.stats.AddGold(gold)
	u.notify(CurrencyGranted{Unit: killer.id, Victim: u.id, Amount: gold})

	if killer.killDeathCounter >= 0 {
		return
	}
	killer.assistedGold += gold
	u.logger.Debug("assisted gold toward comeback",
		zap.Uint32("killer", uint32(killer.id)),
		zap.Float64("assisted_gold", killer.assistedGold),
		zap.Int("kill_death_counter", killer.killDeathCounter),
	)
	if killer.assistedGold >= ComebackGoldThreshold {
		killer.assistedGold = 0
		killer.killDeathCounter++
	}
}
