package systems

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// NoiseField samples a smooth pseudo-random scalar field.
// Sample returns a value in [0,1]; equal inputs give equal outputs.
type NoiseField interface {
	Sample(x, y, t float64) float64
}

// NoiseFunc adapts a plain function to NoiseField.
type NoiseFunc func(x, y, t float64) float64

// Sample calls f.
func (f NoiseFunc) Sample(x, y, t float64) float64 {
	return f(x, y, t)
}

// NewNoiseField returns the field for the configured backend.
// Unknown kinds fall back to Perlin.
func NewNoiseField(kind string, seed int64) NoiseField {
	if kind == "simplex" {
		return NewSimplexField(seed)
	}
	return NewPerlinField(seed)
}

// PerlinField is seeded improved Perlin noise mapped onto [0,1].
type PerlinField struct {
	perm [512]int
}

// NewPerlinField builds the permutation table from seed.
func NewPerlinField(seed int64) *PerlinField {
	f := &PerlinField{}
	rng := rand.New(rand.NewSource(seed))
	for i, v := range rng.Perm(256) {
		f.perm[i] = v
		f.perm[i+256] = v
	}
	return f
}

// Sample implements NoiseField.
func (f *PerlinField) Sample(x, y, t float64) float64 {
	return clamp01((f.Noise3D(x, y, t) + 1) * 0.5)
}

// Noise3D returns raw noise in roughly [-1,1].
func (f *PerlinField) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi := int(fx) & 255
	yi := int(fy) & 255
	zi := int(fz) & 255
	x, y, z = x-fx, y-fy, z-fz

	u, v, w := fade(x), fade(y), fade(z)
	p := &f.perm

	a := p[xi] + yi
	aa, ab := p[a]+zi, p[a+1]+zi
	b := p[xi+1] + yi
	ba, bb := p[b]+zi, p[b+1]+zi

	near := lerp(v,
		lerp(u, grad(p[aa], x, y, z), grad(p[ba], x-1, y, z)),
		lerp(u, grad(p[ab], x, y-1, z), grad(p[bb], x-1, y-1, z)))
	far := lerp(v,
		lerp(u, grad(p[aa+1], x, y, z-1), grad(p[ba+1], x-1, y, z-1)),
		lerp(u, grad(p[ab+1], x, y-1, z-1), grad(p[bb+1], x-1, y-1, z-1)))
	return lerp(w, near, far)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad picks one of the 12 cube-edge gradients from the low 4 bits of hash.
func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// SimplexField wraps OpenSimplex noise, already normalized to [0,1].
type SimplexField struct {
	noise opensimplex.Noise
}

// NewSimplexField creates a simplex-backed field.
func NewSimplexField(seed int64) *SimplexField {
	return &SimplexField{noise: opensimplex.NewNormalized(seed)}
}

// Sample implements NoiseField.
func (f *SimplexField) Sample(x, y, t float64) float64 {
	return clamp01(f.noise.Eval3(x, y, t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
