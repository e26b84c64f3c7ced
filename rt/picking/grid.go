package picking

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cellKey [3]int32

// Grid is a uniform spatial hash over instance bounding spheres. Each instance is listed
// in every cell its sphere's AABB overlaps. A Grid describes one positions slice and has
// to be rebuilt when the positions change.
type Grid struct {
	cellSize  float32
	radius    float32
	positions []float32
	cells     map[cellKey][]int

	// inclusive cell range touched by any instance
	lo, hi cellKey
}

// NewGrid indexes positions (flattened xyz) with spheres of radius. A non-positive
// cellSize picks one from the radius.
func NewGrid(positions []float32, radius, cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = 8 * radius
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	g := &Grid{
		cellSize:  cellSize,
		radius:    radius,
		positions: positions,
		cells:     make(map[cellKey][]int),
	}

	ext := mgl32.Vec3{radius, radius, radius}
	for i := 0; i < g.Len(); i++ {
		c := g.center(i)
		lo, hi := g.cellOf(c.Sub(ext)), g.cellOf(c.Add(ext))
		for x := lo[0]; x <= hi[0]; x++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for z := lo[2]; z <= hi[2]; z++ {
					key := cellKey{x, y, z}
					g.cells[key] = append(g.cells[key], i)
				}
			}
		}
		if i == 0 {
			g.lo, g.hi = lo, hi
			continue
		}
		for a := 0; a < 3; a++ {
			g.lo[a] = min(g.lo[a], lo[a])
			g.hi[a] = max(g.hi[a], hi[a])
		}
	}
	return g
}

func (g *Grid) Len() int { return len(g.positions) / 3 }

func (g *Grid) Radius() float32 { return g.radius }

func (g *Grid) center(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.positions[3*i], g.positions[3*i+1], g.positions[3*i+2]}
}

func (g *Grid) cellIndex(v float32) int32 {
	return int32(math32.Floor(v / g.cellSize))
}

func (g *Grid) cellOf(p mgl32.Vec3) cellKey {
	return cellKey{g.cellIndex(p[0]), g.cellIndex(p[1]), g.cellIndex(p[2])}
}

// QueryAABB returns, once each, the instances listed in the cells overlapping [lo, hi].
// It is a broadphase: callers test the candidates themselves.
func (g *Grid) QueryAABB(lo, hi mgl32.Vec3) []int {
	clo, chi := g.cellOf(lo), g.cellOf(hi)

	unique := make(map[int]struct{})
	var results []int
	for x := clo[0]; x <= chi[0]; x++ {
		for y := clo[1]; y <= chi[1]; y++ {
			for z := clo[2]; z <= chi[2]; z++ {
				for _, id := range g.cells[cellKey{x, y, z}] {
					if _, ok := unique[id]; !ok {
						unique[id] = struct{}{}
						results = append(results, id)
					}
				}
			}
		}
	}
	return results
}

// PickRay returns the same instance as PickInstance over the indexed positions, walking
// only the cells the ray crosses and stopping once no later cell can hold a nearer hit.
func (g *Grid) PickRay(ray Ray) (int, bool) {
	dirLen := ray.Direction.Len()
	if g.Len() == 0 || dirLen < ParallelEpsilon || g.radius <= 0 {
		return -1, false
	}
	dir := ray.Direction.Mul(1 / dirLen)
	origin := ray.Origin
	cs := g.cellSize

	bmin := mgl32.Vec3{float32(g.lo[0]) * cs, float32(g.lo[1]) * cs, float32(g.lo[2]) * cs}
	bmax := mgl32.Vec3{float32(g.hi[0]+1) * cs, float32(g.hi[1]+1) * cs, float32(g.hi[2]+1) * cs}
	tEnter, tExit, ok := raySlab(origin, dir, bmin, bmax)
	if !ok || tExit < 0 {
		return -1, false
	}
	tEnter = max(tEnter, 0)

	cell := g.cellOf(origin.Add(dir.Mul(tEnter)))
	var step cellKey
	var tMax, tDelta [3]float32
	for a := 0; a < 3; a++ {
		cell[a] = min(max(cell[a], g.lo[a]), g.hi[a])
		switch {
		case dir[a] > 0:
			step[a] = 1
			tMax[a] = (float32(cell[a]+1)*cs - origin[a]) / dir[a]
			tDelta[a] = cs / dir[a]
		case dir[a] < 0:
			step[a] = -1
			tMax[a] = (float32(cell[a])*cs - origin[a]) / dir[a]
			tDelta[a] = -cs / dir[a]
		default:
			tMax[a] = math32.Inf(1)
			tDelta[a] = math32.Inf(1)
		}
	}

	r2 := g.radius * g.radius
	best := -1
	bestT := float32(math.MaxFloat32)
	for {
		for _, idx := range g.cells[cell] {
			t, ok := hitSphere(origin, dir, g.center(idx), r2)
			if !ok {
				continue
			}
			if t < bestT || (t == bestT && idx < best) {
				best, bestT = idx, t
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		next := tMax[axis]
		if best >= 0 && bestT <= next {
			break
		}
		if next > tExit {
			break
		}
		cell[axis] += step[axis]
		if cell[axis] < g.lo[axis] || cell[axis] > g.hi[axis] {
			break
		}
		tMax[axis] += tDelta[axis]
	}
	return best, best >= 0
}

// raySlab clips the ray to the box [bmin, bmax] and returns the parametric interval.
func raySlab(origin, dir, bmin, bmax mgl32.Vec3) (float32, float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)
	for a := 0; a < 3; a++ {
		if dir[a] == 0 {
			if origin[a] < bmin[a] || origin[a] > bmax[a] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / dir[a]
		t1 := (bmin[a] - origin[a]) * inv
		t2 := (bmax[a] - origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}
