// Package arena hosts the match registry that owns every unit, answers the
// spatial and vision queries the combat core asks, and drives units through
// frames in a deterministic order.
package arena

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/stats"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/game/unit"
)

// DetectRange is the radius within which an idle non-champion unit looks for
// something to attack.
const DetectRange = 475.0

// firstNetID is the id space of dynamically spawned objects.
const firstNetID unit.NetID = 0x40000000

// Options configure a World.
type Options struct {
	Width, Height float64
	// AutoAcquire lets idle non-champion units pick their own targets.
	AutoAcquire bool
	// MatchID identifies the match. Zero generates a fresh id.
	MatchID uuid.UUID
}

// Deps are the collaborators a World hands to every unit it spawns.
type Deps struct {
	Content  *content.Registry
	Effects  *status.Registry
	Rules    unit.Rules
	Hooks    unit.HookRegistry
	Notifier unit.Notifier
	Random   dice.Source
	Logger   *zap.Logger
}

// SpawnRequest places one unit of Model for Team at Position.
type SpawnRequest struct {
	Model    string
	Team     unit.Team
	Position unit.Vector2
}

// World is the registry of one match. It implements unit.World.
//
// World is not safe for concurrent use. It is owned by the goroutine running
// its Loop; other goroutines reach it through Loop.Submit.
type World struct {
	matchID uuid.UUID
	opts    Options
	deps    Deps
	logger  *zap.Logger
	motion  *Motion

	units         map[unit.NetID]*unit.Unit
	order         []unit.NetID
	visionSources map[unit.NetID]*unit.Unit
	projectiles   []*unit.Projectile
	nextID        unit.NetID
	elapsed       float64
}

// NewWorld creates an empty match.
//
// Precondition: Width and Height > 0; deps.Content, deps.Rules and deps.Random non-nil.
// Postcondition: Returns a World with no units, or an error describing every missing dependency.
func NewWorld(opts Options, deps Deps) (*World, error) {
	var errs []error
	if opts.Width <= 0 || opts.Height <= 0 {
		errs = append(errs, fmt.Errorf("map bounds must be positive, got %gx%g", opts.Width, opts.Height))
	}
	if deps.Content == nil {
		errs = append(errs, errors.New("content registry must not be nil"))
	}
	if deps.Rules == nil {
		errs = append(errs, errors.New("rules must not be nil"))
	}
	if deps.Random == nil {
		errs = append(errs, errors.New("random source must not be nil"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("arena.NewWorld: %w", err)
	}
	if deps.Effects == nil {
		deps.Effects = status.NewRegistry()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	if opts.MatchID == uuid.Nil {
		opts.MatchID = uuid.New()
	}
	w := &World{
		matchID:       opts.MatchID,
		opts:          opts,
		deps:          deps,
		units:         make(map[unit.NetID]*unit.Unit),
		visionSources: make(map[unit.NetID]*unit.Unit),
		nextID:        firstNetID,
	}
	w.logger = deps.Logger.With(zap.String("match_id", w.matchID.String()))
	w.motion = &Motion{world: w}
	return w, nil
}

// MatchID identifies this match in logs and the journal.
func (w *World) MatchID() uuid.UUID { return w.matchID }

// Elapsed returns the simulated milliseconds since the match started.
func (w *World) Elapsed() float64 { return w.elapsed }

// Effects returns the status effect definitions units can be given.
func (w *World) Effects() *status.Registry { return w.deps.Effects }

// Spawn creates a unit from its content definition and adds it to the match.
//
// Postcondition: The unit is registered, is a vision source, and has a fresh net id.
func (w *World) Spawn(req SpawnRequest) (*unit.Unit, error) {
	cd, err := w.deps.Content.Get(req.Model)
	if err != nil {
		return nil, fmt.Errorf("arena.Spawn: %w", err)
	}
	kind, err := unit.ParseKind(cd.Kind)
	if err != nil {
		return nil, fmt.Errorf("arena.Spawn %q: %w", req.Model, err)
	}
	minion, err := unit.ParseMinionType(cd.MinionType)
	if err != nil {
		return nil, fmt.Errorf("arena.Spawn %q: %w", req.Model, err)
	}

	u, err := unit.New(unit.Params{
		ID:              w.NewNetID(),
		Model:           cd.Model,
		Kind:            kind,
		MinionType:      minion,
		Team:            req.Team,
		Position:        w.clamp(req.Position),
		IsMelee:         cd.IsMelee,
		AttackDelay:     cd.AttackDelay,
		ProjectileSpeed: cd.AttackProjectileSpeed,
		CollisionRadius: cd.CollisionRadius,
		VisionRadius:    cd.VisionRadius,
		Stats:           stats.NewSheet(cd),
	}, unit.Deps{
		World:    w,
		Notifier: w.deps.Notifier,
		Rules:    w.deps.Rules,
		Hooks:    w.deps.Hooks,
		Motion:   w.motion,
		Random:   w.deps.Random,
		Logger:   w.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("arena.Spawn: %w", err)
	}

	w.units[u.ID()] = u
	w.order = append(w.order, u.ID())
	u.OnAdded()
	w.logger.Debug("unit spawned",
		zap.Uint32("unit", uint32(u.ID())),
		zap.String("model", u.Model()),
		zap.Int("team", int(u.Team())),
	)
	return u, nil
}

// Unit returns the live unit with id.
func (w *World) Unit(id unit.NetID) (*unit.Unit, bool) {
	u, ok := w.units[id]
	return u, ok
}

// Units returns every live unit in tick order.
func (w *World) Units() []*unit.Unit {
	out := make([]*unit.Unit, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.units[id])
	}
	return out
}

// Projectiles returns the projectiles in flight.
func (w *World) Projectiles() []*unit.Projectile {
	return slices.Clone(w.projectiles)
}

// Tick advances the match by diff milliseconds: every unit in id order, then
// projectiles, then target acquisition, then removal of dead units.
//
// Precondition: diff is finite and non-negative.
func (w *World) Tick(diff float64) {
	w.elapsed += diff
	for _, id := range slices.Clone(w.order) {
		if u, ok := w.units[id]; ok {
			u.Tick(diff)
		}
	}
	w.advanceProjectiles(diff)
	if w.opts.AutoAcquire {
		w.acquireTargets()
	}
	w.removeDead()
}

// Remove takes u out of the match, releasing its own target and everything
// targeting it. A unit killed after its tick ran never reached its death
// gate, so its target is released here.
func (w *World) Remove(u *unit.Unit) {
	if _, ok := w.units[u.ID()]; !ok {
		return
	}
	u.ReleaseTarget()
	w.StopAllTargetingOf(u)
	u.OnRemoved()
	delete(w.units, u.ID())
	w.order = slices.DeleteFunc(w.order, func(id unit.NetID) bool { return id == u.ID() })
}

func (w *World) removeDead() {
	for _, id := range slices.Clone(w.order) {
		if u := w.units[id]; u.IsToRemove() {
			w.Remove(u)
		}
	}
}

// TeamHasVisionOf reports whether any vision source of team sees u. A team
// always sees its own units; nobody else sees an invisible unit.
func (w *World) TeamHasVisionOf(team unit.Team, u *unit.Unit) bool {
	if u.Team() == team {
		return true
	}
	if u.HasStatus(status.Invisible) {
		return false
	}
	for _, src := range w.visionSources {
		if src.Team() != team || src.IsDead() {
			continue
		}
		if src.Position().Distance(u.Position()) <= src.VisionRadius() {
			return true
		}
	}
	return false
}

// UnitsOfKindInRadius returns the live units of kind within radius of origin, in id order.
func (w *World) UnitsOfKindInRadius(origin unit.Vector2, radius float64, kind unit.Kind) []*unit.Unit {
	var out []*unit.Unit
	for _, id := range w.order {
		u := w.units[id]
		if u.Kind() == kind && u.Position().Distance(origin) <= radius {
			out = append(out, u)
		}
	}
	return out
}

// StopAllTargetingOf releases target from every unit in the match.
func (w *World) StopAllTargetingOf(target *unit.Unit) {
	for _, id := range w.order {
		w.units[id].StopTargeting(target)
	}
	w.projectiles = slices.DeleteFunc(w.projectiles, func(p *unit.Projectile) bool { return p.Target == target })
}

// SpawnProjectile puts p in flight.
func (w *World) SpawnProjectile(p *unit.Projectile) {
	w.projectiles = append(w.projectiles, p)
}

// NewNetID allocates the next object id.
func (w *World) NewNetID() unit.NetID {
	w.nextID++
	return w.nextID
}

// AddVisionSource registers u as a vision source for its team.
func (w *World) AddVisionSource(u *unit.Unit) { w.visionSources[u.ID()] = u }

// RemoveVisionSource unregisters u.
func (w *World) RemoveVisionSource(u *unit.Unit) { delete(w.visionSources, u.ID()) }

// SetTarget points attacker at target and announces it. A nil target clears.
func (w *World) SetTarget(attacker, target *unit.Unit) {
	attacker.SetTargetUnit(target)
	ev := unit.TargetSet{Unit: attacker.ID()}
	if target != nil {
		ev.Target = target.ID()
	}
	if w.deps.Notifier != nil {
		w.deps.Notifier.Notify(ev)
	}
}

// ApplyEffect gives u a fresh instance of the effect defID. Non-positive
// seconds use the definition's default duration.
func (w *World) ApplyEffect(u *unit.Unit, defID string, seconds float64) error {
	def, ok := w.deps.Effects.Get(defID)
	if !ok {
		return fmt.Errorf("arena.ApplyEffect: unknown status effect %q", defID)
	}
	e := status.NewDefaultEffect(def)
	if seconds > 0 {
		e = status.NewEffect(def, seconds)
	}
	return u.ApplyStatusEffect(e)
}

func (w *World) advanceProjectiles(diff float64) {
	// A hit can kill, which prunes w.projectiles through StopAllTargetingOf.
	inFlight := w.projectiles
	w.projectiles = nil
	var live []*unit.Projectile
	for _, p := range inFlight {
		if p.Target.IsDead() {
			continue
		}
		step := p.Speed * diff / 1000
		dist := p.Position.Distance(p.Target.Position())
		if dist <= step+p.Target.CollisionRadius() {
			w.logger.Debug("projectile impact",
				zap.Uint32("projectile", uint32(p.ID)),
				zap.Uint32("target", uint32(p.Target.ID())),
			)
			p.Owner.ProjectileHit(p)
			continue
		}
		p.Position = moveToward(p.Position, p.Target.Position(), step)
		live = append(live, p)
	}
	w.projectiles = append(live, w.projectiles...)
}

// acquireTargets gives every idle, living, non-champion unit the best visible
// enemy within DetectRange: lowest Classify category, then nearest, then lowest id.
func (w *World) acquireTargets() {
	for _, id := range w.order {
		u := w.units[id]
		if u.Kind() == unit.KindChampion || u.Team() == unit.TeamNeutral {
			continue
		}
		if u.IsDead() || u.TargetUnit() != nil || u.IsAttacking() {
			continue
		}
		if best := w.bestTargetFor(u); best != nil {
			w.logger.Debug("target acquired",
				zap.Uint32("unit", uint32(u.ID())),
				zap.Uint32("target", uint32(best.ID())),
			)
			w.SetTarget(u, best)
		}
	}
}

type candidate struct {
	u        *unit.Unit
	category unit.Category
	dist     float64
}

func (w *World) bestTargetFor(u *unit.Unit) *unit.Unit {
	var cands []candidate
	for _, id := range w.order {
		c := w.units[id]
		if c.Team() == u.Team() || c.IsDead() {
			continue
		}
		d := u.DistanceTo(c)
		if d > DetectRange || !w.TeamHasVisionOf(u.Team(), c) {
			continue
		}
		cands = append(cands, candidate{u: c, category: unit.Classify(c), dist: d})
	}
	if len(cands) == 0 {
		return nil
	}
	best := slices.MinFunc(cands, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.category, b.category),
			cmp.Compare(a.dist, b.dist),
			cmp.Compare(a.u.ID(), b.u.ID()),
		)
	})
	return best.u
}

func (w *World) clamp(p unit.Vector2) unit.Vector2 {
	return unit.Vector2{
		X: min(max(p.X, 0), w.opts.Width),
		Y: min(max(p.Y, 0), w.opts.Height),
	}
}
