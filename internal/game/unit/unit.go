// Package unit implements the per-tick combat state of an arena unit: the
// auto-attack cycle, status-effect gating, target classification and death
// rewards. A Unit is driven by a single goroutine; nothing here is safe for
// concurrent use.
package unit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/status"
)

// StatUpdateInterval is the regeneration cadence in milliseconds.
const StatUpdateInterval = 500.0

// Params describe a unit at construction.
type Params struct {
	ID         NetID
	Model      string
	Kind       Kind
	MinionType MinionType
	Team       Team
	Position   Vector2
	IsMelee    bool
	// AttackDelay is the base windup in seconds.
	AttackDelay     float64
	ProjectileSpeed float64
	CollisionRadius float64
	VisionRadius    float64
	Stats           Stats
}

// Unit is a combat-capable entity.
type Unit struct {
	id              NetID
	model           string
	kind            Kind
	minionType      MinionType
	team            Team
	pos             Vector2
	waypoints       []Vector2
	collisionRadius float64
	visionRadius    float64
	isMelee         bool
	attackDelay     float64
	projectileSpeed float64

	stats   Stats
	effects *status.Ledger
	hooks   hookTable
	deps    Deps
	logger  *zap.Logger

	targetUnit       *Unit
	autoAttackTarget *Unit
	distressCause    NetID

	attackDelayElapsed      float64
	attackCooldownRemaining float64
	autoAttackProjID        NetID

	isAttacking          bool
	hasMadeInitialAttack bool
	isNextHitCritical    bool
	attackFrameParity    bool

	dead            bool
	toRemove        bool
	dashing         bool
	statUpdateTimer float64

	killDeathCounter int
	assistedGold     float64
}

// New builds a unit from p and resolves its scripted hooks once.
//
// Precondition: p.Model non-empty; p.Stats, deps.World, deps.Rules and deps.Random non-nil.
// Postcondition: Returns a live unit with a single-point path at p.Position, or an error.
func New(p Params, deps Deps) (*Unit, error) {
	var errs []error
	if p.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if p.Stats == nil {
		errs = append(errs, errors.New("stats must not be nil"))
	}
	if deps.World == nil {
		errs = append(errs, errors.New("world must not be nil"))
	}
	if deps.Rules == nil {
		errs = append(errs, errors.New("rules must not be nil"))
	}
	if deps.Random == nil {
		errs = append(errs, errors.New("random source must not be nil"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("unit.New %q: %w", p.Model, err)
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	u := &Unit{
		id:              p.ID,
		model:           p.Model,
		kind:            p.Kind,
		minionType:      p.MinionType,
		team:            p.Team,
		pos:             p.Position,
		waypoints:       []Vector2{p.Position},
		collisionRadius: p.CollisionRadius,
		visionRadius:    p.VisionRadius,
		isMelee:         p.IsMelee,
		attackDelay:     p.AttackDelay,
		projectileSpeed: p.ProjectileSpeed,
		stats:           p.Stats,
		hooks:           resolveHooks(deps.Hooks, p.Model),
		deps:            deps,
	}
	u.logger = deps.Logger.With(zap.Uint32("unit", uint32(p.ID)), zap.String("model", p.Model))
	u.effects = status.NewLedger(u.StopMovement)
	return u, nil
}

// Tick advances the unit by diff milliseconds: status effects, the OnUpdate
// hook, the attack cycle, movement, then regeneration every StatUpdateInterval.
//
// Precondition: diff is finite and non-negative.
func (u *Unit) Tick(diff float64) {
	u.effects.Advance(diff)

	u.hooks.onUpdate.call(HookArgs{Self: u, Diff: diff})

	u.updateAutoAttackTarget(diff)

	if u.deps.Motion != nil {
		u.deps.Motion.Step(u, diff)
	}

	u.statUpdateTimer += diff
	if u.statUpdateTimer >= StatUpdateInterval {
		u.stats.Update(u.statUpdateTimer)
		u.statUpdateTimer = 0
	}
}

// OnAdded registers the unit as a vision source once it enters the world.
func (u *Unit) OnAdded() {
	u.deps.World.AddVisionSource(u)
}

// OnRemoved unregisters the unit as a vision source.
func (u *Unit) OnRemoved() {
	u.deps.World.RemoveVisionSource(u)
}

// OnCollision runs the collision hooks. A nil other means terrain.
func (u *Unit) OnCollision(other *Unit) {
	if other == nil {
		u.hooks.onCollideWithTerrain.call(HookArgs{Self: u})
		return
	}
	u.hooks.onCollide.call(HookArgs{Self: u, Other: other})
}

// SetTargetUnit sets the unit this one intends to attack, keeping the
// distress back-reference of the old and new targets consistent. A nil target
// also stops any attack in progress.
//
// Postcondition: target == nil or target.DistressCause() == u.ID().
func (u *Unit) SetTargetUnit(target *Unit) {
	if old := u.targetUnit; old != nil && old != target && old.distressCause == u.id {
		old.distressCause = 0
	}
	if target == nil {
		u.isAttacking = false
	} else {
		target.distressCause = u.id
	}
	u.targetUnit = target
	u.refreshWaypoints()
}

// StopTargeting drops target as this unit's target and attack target.
// It is how the registry releases a unit that died or left the world.
func (u *Unit) StopTargeting(target *Unit) {
	if u.targetUnit == target {
		u.SetTargetUnit(nil)
		u.autoAttackTarget = nil
		u.isAttacking = false
		u.notify(TargetSet{Unit: u.id})
		return
	}
	if u.autoAttackTarget == target {
		u.autoAttackTarget = nil
		u.isAttacking = false
		u.hasMadeInitialAttack = false
	}
}

// ReleaseTarget drops the declared target and any attack in progress, and
// announces the cleared target. It does nothing without a declared target.
//
// Postcondition: TargetUnit() == nil and the old target's distress no longer names u.
func (u *Unit) ReleaseTarget() {
	if u.targetUnit == nil {
		return
	}
	u.SetTargetUnit(nil)
	u.autoAttackTarget = nil
	u.isAttacking = false
	u.notify(TargetSet{Unit: u.id})
	u.hasMadeInitialAttack = false
}

// IsInDistress reports whether this unit is calling for help. No trigger is
// defined yet, so it is always false.
func (u *Unit) IsInDistress() bool {
	return false
}

// StopMovement collapses the path to a zero-length segment at the current position.
func (u *Unit) StopMovement() {
	u.SetWaypoints([]Vector2{u.pos, u.pos})
}

// SetWaypoints replaces the path with a copy of wps.
func (u *Unit) SetWaypoints(wps []Vector2) {
	u.waypoints = append(u.waypoints[:0:0], wps...)
}

// Waypoints returns a copy of the current path.
func (u *Unit) Waypoints() []Vector2 {
	return append([]Vector2(nil), u.waypoints...)
}

// ApplyStatusEffect adds e to the unit's ledger.
func (u *Unit) ApplyStatusEffect(e *status.Effect) error {
	return u.effects.Apply(e)
}

// RemoveStatusEffect removes e by identity.
func (u *Unit) RemoveStatusEffect(e *status.Effect) bool {
	return u.effects.Remove(e)
}

// ClearStatusEffects removes every active effect.
func (u *Unit) ClearStatusEffects() {
	u.effects.Clear()
}

// HasStatus reports whether an effect of category c is active.
func (u *Unit) HasStatus(c status.Category) bool {
	return u.effects.Has(c)
}

// StatusEffects returns a snapshot of the active effects.
func (u *Unit) StatusEffects() []*status.Effect {
	return u.effects.All()
}

// TakeDamage applies a hit, shown as critical when crit is set.
func (u *Unit) TakeDamage(attacker *Unit, amount float64, dtype DamageType, source DamageSource, crit bool) {
	text := TextNormal
	if crit {
		text = TextCritical
	}
	u.TakeDamageText(attacker, amount, dtype, source, text)
}

// TakeDamageText applies a hit with an explicit damage text. Reaching zero
// health kills the unit with attacker as the killer. Dead units ignore hits.
func (u *Unit) TakeDamageText(attacker *Unit, amount float64, dtype DamageType, source DamageSource, text DamageText) {
	if u.dead {
		return
	}
	u.stats.SetCurrentHealth(u.stats.CurrentHealth() - amount)
	u.notify(DamageDealt{
		Source: idOf(attacker),
		Target: u.id,
		Amount: amount,
		Type:   dtype,
		Origin: source,
		Text:   text,
	})
	if u.stats.CurrentHealth() <= 0 {
		u.Die(attacker)
	}
}

// DistanceTo returns the center distance to other.
func (u *Unit) DistanceTo(other *Unit) float64 {
	return u.pos.Distance(other.pos)
}

func (u *Unit) notify(ev Event) {
	u.deps.Notifier.Notify(ev)
}

func idOf(u *Unit) NetID {
	if u == nil {
		return 0
	}
	return u.id
}

func (u *Unit) ID() NetID                  { return u.id }
func (u *Unit) Model() string              { return u.model }
func (u *Unit) Kind() Kind                 { return u.kind }
func (u *Unit) MinionType() MinionType     { return u.minionType }
func (u *Unit) Team() Team                 { return u.team }
func (u *Unit) Position() Vector2          { return u.pos }
func (u *Unit) SetPosition(p Vector2)      { u.pos = p }
func (u *Unit) CollisionRadius() float64   { return u.collisionRadius }
func (u *Unit) VisionRadius() float64      { return u.visionRadius }
func (u *Unit) IsMelee() bool              { return u.isMelee }
func (u *Unit) ProjectileSpeed() float64   { return u.projectileSpeed }
func (u *Unit) Stats() Stats               { return u.stats }
func (u *Unit) IsDead() bool               { return u.dead }
func (u *Unit) IsToRemove() bool           { return u.toRemove }
func (u *Unit) TargetUnit() *Unit          { return u.targetUnit }
func (u *Unit) AutoAttackTarget() *Unit    { return u.autoAttackTarget }
func (u *Unit) DistressCause() NetID       { return u.distressCause }
func (u *Unit) IsAttacking() bool          { return u.isAttacking }
func (u *Unit) HasMadeInitialAttack() bool { return u.hasMadeInitialAttack }
func (u *Unit) IsNextHitCritical() bool    { return u.isNextHitCritical }
func (u *Unit) AttackFrameParity() bool    { return u.attackFrameParity }

// AttackDelayElapsed returns the windup accumulated for the current attack, in seconds.
func (u *Unit) AttackDelayElapsed() float64 { return u.attackDelayElapsed }

// AttackCooldownRemaining returns seconds until the next attack may be committed.
func (u *Unit) AttackCooldownRemaining() float64 { return u.attackCooldownRemaining }

// IsDashing reports whether the unit is mid-dash.
func (u *Unit) IsDashing() bool { return u.dashing }

// SetDashing sets the dash flag.
func (u *Unit) SetDashing(d bool) { u.dashing = d }

// KillDeathCounter returns the streak counter; negative while on a losing streak.
func (u *Unit) KillDeathCounter() int { return u.killDeathCounter }

// AdjustKillDeathCounter adds delta to the streak counter.
func (u *Unit) AdjustKillDeathCounter(delta int) { u.killDeathCounter += delta }

// AssistedGold returns currency accumulated toward the next comeback step.
func (u *Unit) AssistedGold() float64 { return u.assistedGold }
