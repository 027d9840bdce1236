package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Swarm.NarrowCount != 4000 || cfg.Swarm.WideCount != 6400 {
		t.Errorf("expected counts 4000/6400, got %d/%d", cfg.Swarm.NarrowCount, cfg.Swarm.WideCount)
	}
	if cfg.Threshold.Ratio != 0.5 {
		t.Errorf("expected threshold ratio 0.5, got %v", cfg.Threshold.Ratio)
	}
	if cfg.Pointer.HoverRadius != 120 || cfg.Pointer.DragRadius != 600 {
		t.Errorf("expected hover/drag radii 120/600, got %v/%v", cfg.Pointer.HoverRadius, cfg.Pointer.DragRadius)
	}
	want := color.RGBA{R: 0xEB, G: 0x00, B: 0x13, A: 0xFF}
	if cfg.Derived.Accent != want {
		t.Errorf("expected accent %v, got %v", want, cfg.Derived.Accent)
	}
	if cfg.Derived.AngleSpan < 25.1 || cfg.Derived.AngleSpan > 25.2 {
		t.Errorf("expected angle span ~8π, got %v", cfg.Derived.AngleSpan)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("flow:\n  steer_limit: 0.2\nnoise:\n  kind: simplex\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}
	if cfg.Flow.SteerLimit != 0.2 {
		t.Errorf("expected steer limit override 0.2, got %v", cfg.Flow.SteerLimit)
	}
	if cfg.Flow.NoiseScale != 0.003 {
		t.Errorf("expected default noise scale to survive, got %v", cfg.Flow.NoiseScale)
	}
	if cfg.Noise.Kind != "simplex" {
		t.Errorf("expected noise kind simplex, got %q", cfg.Noise.Kind)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad color":  "render:\n  accent: \"#XYZ\"\n",
		"bad range":  "boundary:\n  max_speed: { min: 4, max: 2 }\n",
		"bad device": "pointer:\n  device: stylus\n",
		"bad noise":  "noise:\n  kind: worley\n",
		"zero speed": "boundary:\n  max_speed: { min: 0, max: 2 }\n",
		"spawn down": "boundary:\n  spawn_vy: { min: -1, max: 2 }\n",
		"spawn zero": "boundary:\n  spawn_vy: { min: 0, max: 0 }\n",
		"zero ratio": "threshold:\n  ratio: 0\n",
		"ratio > 1":  "threshold:\n  ratio: 1.5\n",
		"offset up":  "threshold:\n  erosion_offset: { min: -20, max: 10 }\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", name)
			}
		})
	}
}

func TestLoadAcceptsBoundaryValues(t *testing.T) {
	cases := map[string]string{
		"full ratio":     "threshold:\n  ratio: 1\n",
		"spawn vy to 0":  "boundary:\n  spawn_vy: { min: -2, max: 0 }\n",
		"offset at line": "threshold:\n  erosion_offset: { min: 0, max: 10 }\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ok.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err != nil {
				t.Errorf("expected %s to load, got %v", name, err)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FCFCFC", color.RGBA{0xFC, 0xFC, 0xFC, 0xFF}, true},
		{"000000", color.RGBA{0, 0, 0, 0xFF}, true},
		{"#EB001380", color.RGBA{0xEB, 0x00, 0x13, 0x80}, true},
		{"#FFF", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseHexColor(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseHexColor(%q): expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Buoyancy.Accel = 0.02

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Buoyancy.Accel != 0.02 {
		t.Errorf("expected buoyancy 0.02 after roundtrip, got %v", loaded.Buoyancy.Accel)
	}
}
