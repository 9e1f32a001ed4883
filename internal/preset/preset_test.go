package preset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/folio3d/internal/engine/scene"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", DefaultFile)
	s := NewStore(path, "")

	want := scene.DefaultState()
	want.Transform.Rotation = [3]float32{0.1, 0.2, 0.3}
	want.Transform.Scale = [3]float32{2, 2, 2}
	want.Transform.Position = [3]float32{0, -1, 0.5}
	want.Lighting.ModelColor = [3]float32{1, 0, 0}
	want.Lighting.ColorIntensity = 0.5
	want.Lighting.Intensity = 1.5
	want.AutoRotate = false

	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestStore_NoPreset(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(filepath.Join(dir, "missing.yaml"), "")
	if _, err := s.Load(); !errors.Is(err, ErrNoPreset) {
		t.Errorf("missing file: err = %v, want %v", err, ErrNoPreset)
	}

	path := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(path, []byte("someoneElse:\n  autoRotate: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path, "").Load(); !errors.Is(err, ErrNoPreset) {
		t.Errorf("missing key: err = %v, want %v", err, ErrNoPreset)
	}
}

func TestStore_SaveKeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("other:\n  note: keep me\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewStore(path, "").Save(scene.DefaultState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keep me") {
		t.Errorf("other entry lost:\n%s", data)
	}
	if !strings.Contains(string(data), DefaultKey+":") {
		t.Errorf("preset key missing:\n%s", data)
	}
}

func TestStore_LegacyAndMalformedFields(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		check func(t *testing.T, got scene.State)
	}{
		{
			name:  "partial entry gets defaults",
			entry: "  rotation: [0, 1, 0]\n",
			check: func(t *testing.T, got scene.State) {
				want := scene.DefaultState()
				want.Transform.Rotation = [3]float32{0, 1, 0}
				if got != want {
					t.Errorf("got %+v, want %+v", got, want)
				}
			},
		},
		{
			name:  "short vector",
			entry: "  scale: [2, 2]\n  ambientLight: 0.5\n",
			check: func(t *testing.T, got scene.State) {
				if got.Transform.Scale != [3]float32{1, 1, 1} {
					t.Errorf("scale = %v, want default", got.Transform.Scale)
				}
				if got.Lighting.Ambient != 0.5 {
					t.Errorf("ambient = %v, want 0.5", got.Lighting.Ambient)
				}
			},
		},
		{
			name:  "wrong scalar types",
			entry: "  lightIntensity: bright\n  autoRotate: maybe\n  colorIntensity: 0.25\n",
			check: func(t *testing.T, got scene.State) {
				if got.Lighting.Intensity != 1 {
					t.Errorf("intensity = %v, want default 1", got.Lighting.Intensity)
				}
				if !got.AutoRotate {
					t.Error("autoRotate should keep default true")
				}
				if got.Lighting.ColorIntensity != 0.25 {
					t.Errorf("colorIntensity = %v, want 0.25", got.Lighting.ColorIntensity)
				}
			},
		},
		{
			name:  "out of range values",
			entry: "  scale: [2, 0, 2]\n  colorIntensity: 1.5\n  ambientLight: -0.2\n  lightIntensity: -1\n  position: [0, 0, 1]\n",
			check: func(t *testing.T, got scene.State) {
				want := scene.DefaultState()
				want.Transform.Position = [3]float32{0, 0, 1}
				if got != want {
					t.Errorf("got %+v, want defaults except position", got)
				}
			},
		},
		{
			name:  "non-finite values",
			entry: "  rotation: [.nan, 0, 0]\n  lightIntensity: .inf\n  ambientLight: 0.8\n",
			check: func(t *testing.T, got scene.State) {
				want := scene.DefaultState()
				want.Lighting.Ambient = 0.8
				if got != want {
					t.Errorf("got %+v, want defaults except ambient", got)
				}
			},
		},
		{
			name:  "range boundaries accepted",
			entry: "  colorIntensity: 0\n  ambientLight: 1\n  lightIntensity: 0\n  scale: [0.01, 3, 3]\n",
			check: func(t *testing.T, got scene.State) {
				if got.Lighting.ColorIntensity != 0 || got.Lighting.Ambient != 1 || got.Lighting.Intensity != 0 {
					t.Errorf("lighting = %+v", got.Lighting)
				}
				if got.Transform.Scale != [3]float32{0.01, 3, 3} {
					t.Errorf("scale = %v", got.Transform.Scale)
				}
			},
		},
		{
			name:  "unknown fields ignored",
			entry: "  wireframe: true\n  position: [1, 2, 3]\n",
			check: func(t *testing.T, got scene.State) {
				if got.Transform.Position != [3]float32{1, 2, 3} {
					t.Errorf("position = %v", got.Transform.Position)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			data := DefaultKey + ":\n" + tt.entry
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := NewStore(path, "").Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestStore_EntryNotMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(DefaultKey+": 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := NewStore(path, "").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != scene.DefaultState() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestStore_CustomKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	a := NewStore(path, "a")
	b := NewStore(path, "b")

	sa := scene.DefaultState()
	sa.Lighting.Ambient = 0.1
	sb := scene.DefaultState()
	sb.Lighting.Ambient = 0.9

	if err := a.Save(sa); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(sb); err != nil {
		t.Fatal(err)
	}

	got, err := a.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Lighting.Ambient != 0.1 {
		t.Errorf("a ambient = %v, want 0.1", got.Lighting.Ambient)
	}
}
