package unit

// Event is a semantic notification produced by the combat core. The sink is
// responsible for any encoding.
type Event interface {
	isEvent()
}

// TargetSet announces a unit's new target. Target is zero when cleared.
type TargetSet struct {
	Unit   NetID
	Target NetID
}

// ProjectileShown announces an auto-attack projectile.
type ProjectileShown struct {
	Projectile NetID
	Owner      NetID
	Target     NetID
	Speed      float64
}

// AttackBegun announces the first attack of an engagement.
type AttackBegun struct {
	Attacker NetID
	Target   NetID
	AttackID NetID
	Critical bool
}

// AttackContinued announces a follow-up attack. Parity alternates on every one.
type AttackContinued struct {
	Attacker NetID
	Target   NetID
	AttackID NetID
	Critical bool
	Parity   bool
}

// AttackDeclared announces that an attack was committed.
type AttackDeclared struct {
	Attacker NetID
	Target   NetID
	Type     AttackType
}

// DamageDealt announces a hit landing on Target.
type DamageDealt struct {
	Source NetID
	Target NetID
	Amount float64
	Type   DamageType
	Origin DamageSource
	Text   DamageText
}

// Died announces a unit's death. Killer is zero when unknown.
type Died struct {
	Victim NetID
	Killer NetID
}

// ExperienceGranted announces an experience share.
type ExperienceGranted struct {
	Unit   NetID
	Victim NetID
	Amount float64
}

// CurrencyGranted announces a kill bounty.
type CurrencyGranted struct {
	Unit   NetID
	Victim NetID
	Amount float64
}

func (TargetSet) isEvent()         {}
func (ProjectileShown) isEvent()   {}
func (AttackBegun) isEvent()       {}
func (AttackContinued) isEvent()   {}
func (AttackDeclared) isEvent()    {}
func (DamageDealt) isEvent()       {}
func (Died) isEvent()              {}
func (ExperienceGranted) isEvent() {}
func (CurrencyGranted) isEvent()   {}

// Notifier receives events. Implementations must not block the tick.
type Notifier interface {
	Notify(ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
