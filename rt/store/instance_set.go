package store

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvariant is wrapped by every InstanceSet.Validate failure.
var ErrInvariant = errors.New("instance set invariant violated")

// InstanceSet is one immutable snapshot of all instances.
// Index i addresses Positions[3i:3i+3], Colors[3i:3i+3] and Selected[i].
type InstanceSet struct {
	Count     int
	Positions []float32
	Colors    []float32
	Selected  []bool
}

// SelectionMode chooses how SetSelection treats the clicked index.
type SelectionMode int

const (
	// ExclusiveOrExtend keeps an existing selection that already contains the index,
	// otherwise replaces the whole selection with the index.
	ExclusiveOrExtend SelectionMode = iota
	// Toggle flips the flag of the index only.
	Toggle
)

func (m SelectionMode) String() string {
	switch m {
	case ExclusiveOrExtend:
		return "exclusive-or-extend"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("SelectionMode(%d)", int(m))
	}
}

const (
	DefaultSide       = 20.0
	DefaultSaturation = 0.7
	DefaultLightness  = 0.5
)

// Generator produces new instances: a uniform position inside an origin centred cube
// and a random hue at fixed saturation/lightness.
type Generator struct {
	Rand       *rand.Rand
	Side       float32
	Saturation float32
	Lightness  float32
}

// NewGenerator returns a generator with default cube and color parameters seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		Rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Side:       DefaultSide,
		Saturation: DefaultSaturation,
		Lightness:  DefaultLightness,
	}
}

func (g *Generator) float() float32 {
	if g == nil || g.Rand == nil {
		return rand.Float32()
	}
	return g.Rand.Float32()
}

func (g *Generator) params() (side, sat, light float32) {
	side, sat, light = DefaultSide, DefaultSaturation, DefaultLightness
	if g == nil {
		return
	}
	if g.Side > 0 {
		side = g.Side
	}
	if g.Saturation > 0 {
		sat = g.Saturation
	}
	if g.Lightness > 0 {
		light = g.Lightness
	}
	return
}

// appendRandom appends n generated instances to the given slices.
func (g *Generator) appendRandom(positions, colors []float32, n int) ([]float32, []float32) {
	side, sat, light := g.params()
	for i := 0; i < n; i++ {
		positions = append(positions,
			(g.float()-0.5)*side,
			(g.float()-0.5)*side,
			(g.float()-0.5)*side,
		)
		c := colorful.Hsl(float64(g.float())*360.0, float64(sat), float64(light)).Clamped()
		colors = append(colors, float32(c.R), float32(c.G), float32(c.B))
	}
	return positions, colors
}

// Create returns a snapshot of n freshly generated, unselected instances.
func Create(n int, gen *Generator) *InstanceSet {
	if n < 0 {
		n = 0
	}
	positions, colors := gen.appendRandom(make([]float32, 0, 3*n), make([]float32, 0, 3*n), n)
	return &InstanceSet{
		Count:     n,
		Positions: positions,
		Colors:    colors,
		Selected:  make([]bool, n),
	}
}

// AddInstances appends n generated instances at indices Count..Count+n-1.
func AddInstances(set *InstanceSet, n int, gen *Generator) *InstanceSet {
	if n <= 0 {
		return set.clone()
	}
	positions := slices.Grow(slices.Clone(set.Positions), 3*n)
	colors := slices.Grow(slices.Clone(set.Colors), 3*n)
	positions, colors = gen.appendRandom(positions, colors, n)
	return &InstanceSet{
		Count:     set.Count + n,
		Positions: positions,
		Colors:    colors,
		Selected:  append(slices.Clone(set.Selected), make([]bool, n)...),
	}
}

// SetSelection applies a click on index with the given mode.
func SetSelection(set *InstanceSet, index int, mode SelectionMode) *InstanceSet {
	next := set.clone()
	if !set.InRange(index) {
		return next
	}
	switch mode {
	case Toggle:
		next.Selected[index] = !next.Selected[index]
	default:
		if next.Selected[index] {
			return next
		}
		clear(next.Selected)
		next.Selected[index] = true
	}
	return next
}

func DeselectAll(set *InstanceSet) *InstanceSet {
	next := set.clone()
	clear(next.Selected)
	return next
}

func SelectAll(set *InstanceSet) *InstanceSet {
	next := set.clone()
	for i := range next.Selected {
		next.Selected[i] = true
	}
	return next
}

// MoveSelected translates every selected instance by delta.
func MoveSelected(set *InstanceSet, delta mgl32.Vec3) *InstanceSet {
	next := set.clone()
	for i, sel := range next.Selected {
		if !sel {
			continue
		}
		next.Positions[3*i] += delta[0]
		next.Positions[3*i+1] += delta[1]
		next.Positions[3*i+2] += delta[2]
	}
	return next
}

// EditOne overwrites position and color of one instance; the selection is untouched.
func EditOne(set *InstanceSet, index int, position, color mgl32.Vec3) *InstanceSet {
	next := set.clone()
	if !set.InRange(index) {
		return next
	}
	copy(next.Positions[3*index:3*index+3], position[:])
	copy(next.Colors[3*index:3*index+3], color[:])
	return next
}

// DeleteSelected keeps the unselected instances in their original relative order.
// The result has no selection.
func DeleteSelected(set *InstanceSet) *InstanceSet {
	keep := set.Count - SelectedCount(set)
	next := &InstanceSet{
		Count:     keep,
		Positions: make([]float32, 0, 3*keep),
		Colors:    make([]float32, 0, 3*keep),
		Selected:  make([]bool, keep),
	}
	for i, sel := range set.Selected {
		if sel {
			continue
		}
		next.Positions = append(next.Positions, set.Positions[3*i:3*i+3]...)
		next.Colors = append(next.Colors, set.Colors[3*i:3*i+3]...)
	}
	return next
}

func SelectedCount(set *InstanceSet) int {
	n := 0
	for _, sel := range set.Selected {
		if sel {
			n++
		}
	}
	return n
}

// FirstSelectedIndex returns the lowest selected index, or false when nothing is selected.
func FirstSelectedIndex(set *InstanceSet) (int, bool) {
	for i, sel := range set.Selected {
		if sel {
			return i, true
		}
	}
	return -1, false
}

func SelectedIndices(set *InstanceSet) []int {
	var out []int
	for i, sel := range set.Selected {
		if sel {
			out = append(out, i)
		}
	}
	return out
}

func (s *InstanceSet) InRange(index int) bool {
	return s != nil && index >= 0 && index < s.Count
}

func (s *InstanceSet) Position(index int) mgl32.Vec3 {
	return mgl32.Vec3{s.Positions[3*index], s.Positions[3*index+1], s.Positions[3*index+2]}
}

func (s *InstanceSet) Color(index int) mgl32.Vec3 {
	return mgl32.Vec3{s.Colors[3*index], s.Colors[3*index+1], s.Colors[3*index+2]}
}

func (s *InstanceSet) IsSelected(index int) bool {
	return s.InRange(index) && s.Selected[index]
}

// Validate checks the length invariants between Count and the parallel arrays.
func (s *InstanceSet) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvariant)
	}
	if s.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvariant, s.Count)
	}
	if len(s.Positions) != 3*s.Count {
		return fmt.Errorf("%w: %d position components for %d instances", ErrInvariant, len(s.Positions), s.Count)
	}
	if len(s.Colors) != 3*s.Count {
		return fmt.Errorf("%w: %d color components for %d instances", ErrInvariant, len(s.Colors), s.Count)
	}
	if len(s.Selected) != s.Count {
		return fmt.Errorf("%w: %d selection flags for %d instances", ErrInvariant, len(s.Selected), s.Count)
	}
	return nil
}

func (s *InstanceSet) clone() *InstanceSet {
	return &InstanceSet{
		Count:     s.Count,
		Positions: slices.Clone(s.Positions),
		Colors:    slices.Clone(s.Colors),
		Selected:  slices.Clone(s.Selected),
	}
}
