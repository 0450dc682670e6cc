package unit

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// Stats is the externally owned stat aggregate a unit reads from.
type Stats interface {
	TotalRange() float64
	TotalMoveSpeed() float64
	TotalAttackDamage() float64
	TotalCritChance() float64
	CritDamagePercent() float64
	TotalAttackSpeedMultiplier() float64
	TotalAttacksPerSecond() float64
	CurrentHealth() float64
	SetCurrentHealth(hp float64)
	AddExperience(xp float64)
	AddGold(gold float64)
	// Update applies regeneration for diff milliseconds.
	Update(diff float64)
}

// World is the spatial and registry service shared by all units.
type World interface {
	TeamHasVisionOf(team Team, u *Unit) bool
	UnitsOfKindInRadius(origin Vector2, radius float64, kind Kind) []*Unit
	StopAllTargetingOf(u *Unit)
	SpawnProjectile(p *Projectile)
	NewNetID() NetID
	AddVisionSource(u *Unit)
	RemoveVisionSource(u *Unit)
}

// Rules computes kill rewards.
type Rules interface {
	ExperienceFor(victim *Unit) float64
	CurrencyFor(victim *Unit) float64
}

// Motion executes a unit's waypoint path for one frame.
type Motion interface {
	Step(u *Unit, diff float64)
}

// Deps are the collaborators a unit is constructed with.
type Deps struct {
	World    World
	Notifier Notifier
	Rules    Rules
	Hooks    HookRegistry
	Motion   Motion
	Random   dice.Source
	Logger   *zap.Logger
}
