package unit

import (
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// Waypoint hysteresis, in world units.
const (
	stopShortMargin = 2.0
	repathThreshold = 25.0
)

const secondsPerMilli = 1.0 / 1000

// Projectile is an auto-attack in flight. Critical is fixed at launch.
type Projectile struct {
	ID       NetID
	Owner    *Unit
	Target   *Unit
	Position Vector2
	Speed    float64
	Critical bool
}

// updateAutoAttackTarget runs one frame of the attack cycle.
func (u *Unit) updateAutoAttackTarget(diff float64) {
	if u.HasStatus(status.Disarm) || u.HasStatus(status.Stun) {
		return
	}
	if u.dead {
		u.ReleaseTarget()
		return
	}

	switch {
	case u.targetUnit != nil:
		u.pursue(diff)
	case u.isAttacking:
		t := u.autoAttackTarget
		if t == nil || t.dead || !u.deps.World.TeamHasVisionOf(u.team, t) {
			u.isAttacking = false
			u.hasMadeInitialAttack = false
			u.autoAttackTarget = nil
		}
	}

	if u.attackCooldownRemaining > 0 {
		u.attackCooldownRemaining -= diff * secondsPerMilli
	}
}

func (u *Unit) pursue(diff float64) {
	t := u.targetUnit
	switch {
	case t.dead || !u.deps.World.TeamHasVisionOf(u.team, t):
		u.ReleaseTarget()

	case u.isAttacking && u.autoAttackTarget != nil:
		u.windUp(diff)

	case u.DistanceTo(t) <= u.stats.TotalRange():
		u.refreshWaypoints()
		u.isNextHitCritical = dice.Chance(u.deps.Random, u.stats.TotalCritChance())
		if u.attackCooldownRemaining <= 0 {
			u.commitAttack(t)
		}

	default:
		u.refreshWaypoints()
	}
}

func (u *Unit) commitAttack(t *Unit) {
	u.isAttacking = true
	u.attackDelayElapsed = 0
	u.autoAttackProjID = u.deps.World.NewNetID()
	u.autoAttackTarget = t

	if !u.hasMadeInitialAttack {
		u.hasMadeInitialAttack = true
		u.notify(AttackBegun{
			Attacker: u.id,
			Target:   t.id,
			AttackID: u.autoAttackProjID,
			Critical: u.isNextHitCritical,
		})
	} else {
		u.attackFrameParity = !u.attackFrameParity
		u.notify(AttackContinued{
			Attacker: u.id,
			Target:   t.id,
			AttackID: u.autoAttackProjID,
			Critical: u.isNextHitCritical,
			Parity:   u.attackFrameParity,
		})
	}

	attackType := AttackTargeted
	if u.isMelee {
		attackType = AttackMelee
	}
	u.notify(AttackDeclared{Attacker: u.id, Target: t.id, Type: attackType})
}

// windUp accumulates the attack delay and resolves the attack once the
// speed-scaled windup has elapsed. The cooldown is read from the stats at
// resolution, so attack-speed changes during the windup apply to it.
func (u *Unit) windUp(diff float64) {
	u.attackDelayElapsed += diff * secondsPerMilli
	if u.attackDelayElapsed < u.attackDelay/u.stats.TotalAttackSpeedMultiplier() {
		return
	}

	target := u.autoAttackTarget
	if u.isMelee {
		u.AutoAttackHit(target)
	} else {
		p := &Projectile{
			ID:       u.autoAttackProjID,
			Owner:    u,
			Target:   target,
			Position: u.pos,
			Speed:    u.projectileSpeed,
			Critical: u.isNextHitCritical,
		}
		u.deps.World.SpawnProjectile(p)
		u.notify(ProjectileShown{Projectile: p.ID, Owner: u.id, Target: target.id, Speed: p.Speed})
	}
	u.attackCooldownRemaining = 1 / u.stats.TotalAttacksPerSecond()
	u.isAttacking = false
	u.autoAttackTarget = nil
}

// AutoAttackHit resolves an auto-attack against target using the crit
// decision made when the attack was committed.
func (u *Unit) AutoAttackHit(target *Unit) {
	u.resolveHit(target, u.isNextHitCritical)
}

// ProjectileHit resolves a projectile that reached its target.
func (u *Unit) ProjectileHit(p *Projectile) {
	u.resolveHit(p.Target, p.Critical)
}

func (u *Unit) resolveHit(target *Unit, crit bool) {
	if u.HasStatus(status.Blind) {
		target.TakeDamageText(u, 0, DamagePhysical, SourceAttack, TextMiss)
		return
	}

	damage := u.stats.TotalAttackDamage()
	if crit {
		damage *= u.stats.CritDamagePercent()
	}

	u.hooks.onAutoAttack.call(HookArgs{Self: u, Other: target})

	target.TakeDamage(u, damage, DamagePhysical, SourceAttack, crit)
}

// refreshWaypoints keeps the path pointed at the target without re-pathing
// every frame while both units move.
func (u *Unit) refreshWaypoints() {
	t := u.targetUnit
	if t == nil {
		return
	}
	dist := u.DistanceTo(t)
	rng := u.stats.TotalRange()
	if dist <= rng && len(u.waypoints) == 1 {
		return
	}

	if dist <= rng-stopShortMargin {
		u.SetWaypoints([]Vector2{u.pos})
		return
	}

	last := u.pos
	if n := len(u.waypoints); n > 0 {
		last = u.waypoints[n-1]
	}
	if last.Distance(t.pos) >= repathThreshold {
		u.SetWaypoints([]Vector2{u.pos, t.pos})
	}
}
