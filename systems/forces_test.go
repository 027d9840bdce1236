package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/tideline/config"
	"github.com/pthm-cable/tideline/input"
)

func defaultParams(t *testing.T) ForceParams {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return ForceParamsFrom(cfg)
}

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestForceParamsUseDerivedAngleSpan(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if p := ForceParamsFrom(cfg); p.AngleSpan != cfg.Derived.AngleSpan {
		t.Errorf("expected angle span %v, got %v", cfg.Derived.AngleSpan, p.AngleSpan)
	}

	cfg.Derived.AngleSpan = 1
	if p := ForceParamsFrom(cfg); p.AngleSpan != 1 {
		t.Errorf("expected overridden angle span 1, got %v", p.AngleSpan)
	}
}

func TestPointerRadius(t *testing.T) {
	p := defaultParams(t)

	tests := []struct {
		class   input.DeviceClass
		engaged bool
		want    float32
	}{
		{input.DevicePointer, false, 120},
		{input.DevicePointer, true, 600},
		{input.DeviceTouch, false, 150},
		{input.DeviceTouch, true, 150},
	}
	for _, tc := range tests {
		if got := PointerRadius(tc.class, tc.engaged, &p); got != tc.want {
			t.Errorf("PointerRadius(%v, engaged=%v) = %v, want %v", tc.class, tc.engaged, got, tc.want)
		}
	}
}

func TestPointerHoverVersusDragAtDistance50(t *testing.T) {
	p := defaultParams(t)
	px, py := float32(150), float32(100) // 50 units right of the pointer

	hover := input.State{X: 100, Y: 100, Engaged: false}
	r := PointerRadius(input.DevicePointer, hover.Engaged, &p)
	if r != 120 {
		t.Fatalf("expected hover radius 120, got %v", r)
	}
	ax, ay, hit := PointerForce(px, py, hover, r, &p)
	if !hit {
		t.Fatal("expected particle at distance 50 inside hover radius")
	}
	// Repulsion: pushed away from the pointer (+x)
	wantHover := float32(5 * (1 - 50.0/120) * 0.5)
	if !approx(ax, wantHover, 1e-4) || ay != 0 {
		t.Errorf("hover force = (%v, %v), want (%v, 0)", ax, ay, wantHover)
	}

	drag := input.State{X: 100, Y: 100, Engaged: true}
	r = PointerRadius(input.DevicePointer, drag.Engaged, &p)
	if r != 600 {
		t.Fatalf("expected drag radius 600, got %v", r)
	}
	ax, _, hit = PointerForce(px, py, drag, r, &p)
	if !hit {
		t.Fatal("expected particle inside drag radius")
	}
	// Attraction: pulled toward the pointer (-x)
	wantDrag := float32(-5 * (1 - 50.0/600) * 1.2)
	if !approx(ax, wantDrag, 1e-4) {
		t.Errorf("drag force x = %v, want %v", ax, wantDrag)
	}
	towardX := drag.X - px
	if ax*towardX <= 0 {
		t.Errorf("expected attraction toward pointer, got ax=%v", ax)
	}
}

func TestPointerForceOutsideRadius(t *testing.T) {
	p := defaultParams(t)
	ptr := input.State{X: 0, Y: 0, Engaged: true}
	if _, _, hit := PointerForce(600, 0, ptr, 600, &p); hit {
		t.Error("expected no force exactly at the radius")
	}
	if _, _, hit := PointerForce(-5000, -5000, input.State{X: 500, Y: 500}, 120, &p); hit {
		t.Error("expected no force far outside the radius")
	}
}

func TestPointerForceZeroDistance(t *testing.T) {
	p := defaultParams(t)
	ptr := input.State{X: 10, Y: 10, Engaged: true}
	ax, ay, hit := PointerForce(10, 10, ptr, 600, &p)
	if !hit {
		t.Fatal("expected hit at zero distance")
	}
	for _, v := range []float32{ax, ay} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("expected finite force at zero distance, got (%v, %v)", ax, ay)
		}
	}
}

func TestPointerForceFalloff(t *testing.T) {
	p := defaultParams(t)
	ptr := input.State{X: 0, Y: 0}
	near, _, _ := PointerForce(10, 0, ptr, 120, &p)
	far, _, _ := PointerForce(100, 0, ptr, 120, &p)
	if near <= far {
		t.Errorf("expected stronger push near the pointer: near=%v far=%v", near, far)
	}
}

func TestFlowSteer(t *testing.T) {
	p := defaultParams(t)

	tests := []struct {
		name   string
		n      float64
		vx, vy float32
		wantX  float32
		wantY  float32
	}{
		{"angle zero from rest", 0, 0, 0, 0.08, 0},
		{"full turn wraps to zero", 0.25, 0, 0, 0.08, 0},
		{"quarter turn points down", 1.0 / 16, 0, 0, 0, 0.08},
		{"small correction unclamped", 0, 2.99, 0, 0.01, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			field := NoiseFunc(func(x, y, tt float64) float64 { return tc.n })
			ax, ay := FlowSteer(10, 10, tc.vx, tc.vy, 3, 0, field, &p)
			if !approx(ax, tc.wantX, 1e-4) || !approx(ay, tc.wantY, 1e-4) {
				t.Errorf("FlowSteer = (%v, %v), want (%v, %v)", ax, ay, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestFlowSteerSamplesScaledCoordinates(t *testing.T) {
	p := defaultParams(t)
	var gotX, gotY, gotT float64
	field := NoiseFunc(func(x, y, tt float64) float64 {
		gotX, gotY, gotT = x, y, tt
		return 0
	})
	FlowSteer(1000, 500, 0, 0, 2, 100, field, &p)

	if math.Abs(gotX-3) > 1e-9 || math.Abs(gotY-1.5) > 1e-9 || math.Abs(gotT-0.2) > 1e-9 {
		t.Errorf("sampled (%v, %v, %v), want (3, 1.5, 0.2)", gotX, gotY, gotT)
	}
}

func TestBuoyancyPointsUp(t *testing.T) {
	p := defaultParams(t)
	if got := BuoyancyForce(&p); !approx(got, -0.012, 1e-7) {
		t.Errorf("BuoyancyForce = %v, want -0.012", got)
	}
}

func TestLimitMagnitude(t *testing.T) {
	x, y := LimitMagnitude(3, 4, 10)
	if x != 3 || y != 4 {
		t.Errorf("expected vector under limit unchanged, got (%v, %v)", x, y)
	}
	x, y = LimitMagnitude(3, 4, 1)
	if !approx(x, 0.6, 1e-6) || !approx(y, 0.8, 1e-6) {
		t.Errorf("expected (0.6, 0.8), got (%v, %v)", x, y)
	}
	x, y = LimitMagnitude(0, 0, 0)
	if x != 0 || y != 0 {
		t.Errorf("expected zero vector unchanged, got (%v, %v)", x, y)
	}
}
