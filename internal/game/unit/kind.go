package unit

import (
	"fmt"
	"math"
)

// NetID identifies a unit, projectile, or attack on the wire. Zero means none.
type NetID uint32

// Team is the side a unit fights for.
type Team int

const (
	TeamNeutral Team = 0
	TeamBlue    Team = 100
	TeamPurple  Team = 200
)

// Kind is the closed set of unit variants the combat core distinguishes.
type Kind int

const (
	KindMonster Kind = iota
	KindChampion
	KindMinion
	KindTurret
	KindInhibitor
	KindNexus
	KindPlaceable
)

var kindNames = map[Kind]string{
	KindMonster:   "monster",
	KindChampion:  "champion",
	KindMinion:    "minion",
	KindTurret:    "turret",
	KindInhibitor: "inhibitor",
	KindNexus:     "nexus",
	KindPlaceable: "placeable",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a content kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown unit kind %q", s)
}

// MinionType is a minion's spawn subtype.
type MinionType int

const (
	MinionNone MinionType = iota
	MinionMelee
	MinionCaster
	MinionCannon
	MinionSuper
)

// ParseMinionType maps a content subtype name to a MinionType. The empty
// string maps to MinionNone.
func ParseMinionType(s string) (MinionType, error) {
	switch s {
	case "":
		return MinionNone, nil
	case "melee":
		return MinionMelee, nil
	case "caster":
		return MinionCaster, nil
	case "cannon":
		return MinionCannon, nil
	case "super":
		return MinionSuper, nil
	}
	return MinionNone, fmt.Errorf("unknown minion type %q", s)
}

// Vector2 is a point on the map plane.
type Vector2 struct {
	X, Y float64
}

// Distance returns the Euclidean distance between v and o.
func (v Vector2) Distance(o Vector2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// AttackType tells the receiver how an attack is delivered.
type AttackType uint8

const (
	AttackRadial AttackType = iota
	AttackMelee
	AttackTargeted
)

// DamageType is the mitigation class of a hit.
type DamageType uint8

const (
	DamagePhysical DamageType = iota
	DamageMagical
	DamageTrue
)

// DamageSource records what produced a hit.
type DamageSource int

const (
	SourceAttack DamageSource = iota
	SourceSpell
	SourceSummonerSpell
	SourcePassive
)

// DamageText is the floating-text style shown for a hit.
type DamageText uint8

const (
	TextInvulnerable DamageText = 0
	TextDodge        DamageText = 2
	TextCritical     DamageText = 3
	TextNormal       DamageText = 4
	TextMiss         DamageText = 5
)
