// Package stats provides a base-plus-modifier stat sheet for units.
package stats

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/content"
)

// Stat is one resolvable attribute: (Base + Flat) scaled by (1 + Percent).
type Stat struct {
	Base    float64
	Flat    float64
	Percent float64
}

// Total returns the resolved value.
func (s Stat) Total() float64 {
	return (s.Base + s.Flat) * (1 + s.Percent)
}

// Sheet is the aggregate stat block of one unit.
// It is not safe for concurrent use.
type Sheet struct {
	Range                 Stat
	MoveSpeed             Stat
	AttackDamage          Stat
	CritChance            Stat
	CritDamage            Stat
	AttackSpeedMultiplier Stat
	HealthPoints          Stat
	ManaPoints            Stat
	HealthRegen           Stat
	ManaRegen             Stat

	// BaseAttackSpeed is attacks per second at a multiplier of 1.
	BaseAttackSpeed float64

	currentHealth float64
	currentMana   float64
	experience    float64
	gold          float64
}

// NewSheet builds a Sheet from a unit definition with full health and mana.
//
// Precondition: cd must not be nil.
// Postcondition: CurrentHealth() == HealthPoints.Total(); AttackSpeedMultiplier.Base == 1.
func NewSheet(cd *content.CharData) *Sheet {
	s := &Sheet{
		Range:                 Stat{Base: cd.AttackRange},
		MoveSpeed:             Stat{Base: cd.MoveSpeed},
		AttackDamage:          Stat{Base: cd.AttackDamage},
		CritChance:            Stat{Base: cd.CritChance},
		CritDamage:            Stat{Base: cd.CritDamage},
		AttackSpeedMultiplier: Stat{Base: 1},
		HealthPoints:          Stat{Base: cd.Health},
		ManaPoints:            Stat{Base: cd.Mana},
		HealthRegen:           Stat{Base: cd.HealthRegen},
		ManaRegen:             Stat{Base: cd.ManaRegen},
		BaseAttackSpeed:       cd.AttackSpeed,
	}
	s.currentHealth = s.HealthPoints.Total()
	s.currentMana = s.ManaPoints.Total()
	return s
}

func (s *Sheet) TotalRange() float64                 { return s.Range.Total() }
func (s *Sheet) TotalMoveSpeed() float64             { return s.MoveSpeed.Total() }
func (s *Sheet) TotalAttackDamage() float64          { return s.AttackDamage.Total() }
func (s *Sheet) TotalCritChance() float64            { return s.CritChance.Total() }
func (s *Sheet) CritDamagePercent() float64          { return s.CritDamage.Total() }
func (s *Sheet) TotalAttackSpeedMultiplier() float64 { return s.AttackSpeedMultiplier.Total() }

// TotalAttacksPerSecond returns the base attack speed scaled by the multiplier.
// A zero multiplier yields zero; callers dividing by it get +Inf.
func (s *Sheet) TotalAttacksPerSecond() float64 {
	return s.BaseAttackSpeed * s.AttackSpeedMultiplier.Total()
}

// CurrentHealth returns the unit's remaining health.
func (s *Sheet) CurrentHealth() float64 { return s.currentHealth }

// SetCurrentHealth sets remaining health, clamped to [0, HealthPoints.Total()].
func (s *Sheet) SetCurrentHealth(hp float64) {
	s.currentHealth = math.Max(0, math.Min(hp, s.HealthPoints.Total()))
}

// MaxHealth returns the health cap.
func (s *Sheet) MaxHealth() float64 { return s.HealthPoints.Total() }

// CurrentMana returns the unit's remaining mana.
func (s *Sheet) CurrentMana() float64 { return s.currentMana }

// Experience returns accumulated experience.
func (s *Sheet) Experience() float64 { return s.experience }

// AddExperience adds xp to the accumulated experience.
func (s *Sheet) AddExperience(xp float64) { s.experience += xp }

// Gold returns the unit's currency balance.
func (s *Sheet) Gold() float64 { return s.gold }

// AddGold credits gold to the balance.
func (s *Sheet) AddGold(gold float64) { s.gold += gold }

// Update applies health and mana regeneration for diff milliseconds. Regen
// values are per second. Dead units (zero health) do not regenerate.
func (s *Sheet) Update(diff float64) {
	if s.currentHealth <= 0 {
		return
	}
	secs := diff / 1000
	s.currentHealth = math.Min(s.currentHealth+s.HealthRegen.Total()*secs, s.HealthPoints.Total())
	s.currentMana = math.Min(s.currentMana+s.ManaRegen.Total()*secs, s.ManaPoints.Total())
}
