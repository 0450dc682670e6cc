package unit

// Category is a target's priority class; lower values are preferred.
type Category int

const (
	ChampionAttackingChampion Category = iota + 1
	MinionAttackingChampion
	MinionAttackingMinion
	TurretAttackingMinion
	ChampionAttackingMinion
	Placeable
	MeleeMinion
	CasterMinion
	SuperOrCannonMinion
	Turret
	Champion
	Inhibitor
	Nexus
	Default
)

// distressTable ranks a candidate by who it is attacking while its target is
// in distress. Order matters: first match wins.
var distressTable = []struct {
	attacker Kind
	victim   Kind
	category Category
}{
	{KindChampion, KindChampion, ChampionAttackingChampion},
	{KindMinion, KindChampion, MinionAttackingChampion},
	{KindMinion, KindMinion, MinionAttackingMinion},
	{KindTurret, KindMinion, TurretAttackingMinion},
	{KindChampion, KindMinion, ChampionAttackingMinion},
}

// Classify returns the priority category of candidate. It has no side effects.
//
// Precondition: candidate must not be nil.
func Classify(candidate *Unit) Category {
	if t := candidate.targetUnit; t != nil && t.IsInDistress() {
		for _, row := range distressTable {
			if candidate.kind == row.attacker && t.kind == row.victim {
				return row.category
			}
		}
	}

	switch candidate.kind {
	case KindPlaceable:
		return Placeable
	case KindMinion:
		switch candidate.minionType {
		case MinionMelee:
			return MeleeMinion
		case MinionCaster:
			return CasterMinion
		case MinionCannon, MinionSuper:
			return SuperOrCannonMinion
		}
	case KindTurret:
		return Turret
	case KindChampion:
		return Champion
	case KindInhibitor:
		if !candidate.dead {
			return Inhibitor
		}
	case KindNexus:
		return Nexus
	}
	return Default
}
