package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/folio3d/internal/logger"
	"github.com/Faultbox/folio3d/pkg/formats"
)

// observeLogs routes the package logger into an in-memory recorder for the
// duration of the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })
	return logs
}

func TestParseOBJ_SingleTriangle(t *testing.T) {
	mesh, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if want := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}; !reflect.DeepEqual(mesh.Positions, want) {
		t.Errorf("positions = %v, want %v", mesh.Positions, want)
	}
	if want := []uint16{0, 1, 2}; !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("indices = %v, want %v", mesh.Indices, want)
	}
	if want := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}; !reflect.DeepEqual(mesh.Normals, want) {
		t.Errorf("normals = %v, want %v", mesh.Normals, want)
	}
	if want := []float32{0, 0, 0, 0, 0, 0}; !reflect.DeepEqual(mesh.UVs, want) {
		t.Errorf("uvs = %v, want %v", mesh.UVs, want)
	}
	if mesh.VertexCount != 3 {
		t.Errorf("vertexCount = %d, want 3", mesh.VertexCount)
	}
	if !mesh.Valid() {
		t.Error("mesh should be valid")
	}
}

func TestBuildMesh_TriangleFacesTraceable(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/2
f 3/3/2 4//1 1/1
`
	obj, err := formats.ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	mesh, err := BuildMesh(obj)
	if err != nil {
		t.Fatalf("BuildMesh failed: %v", err)
	}

	if got, want := len(mesh.Indices), 3*len(obj.Faces); got != want {
		t.Fatalf("index count = %d, want %d", got, want)
	}

	k := 0
	for _, face := range obj.Faces {
		for _, fv := range face {
			pos := obj.Vertices[fv.Vertex]
			if got := [3]float32(mesh.Positions[k*3 : k*3+3]); got != pos {
				t.Errorf("vertex %d position = %v, want %v", k, got, pos)
			}

			normal := DefaultNormal
			if fv.Normal != formats.NoIndex {
				normal = obj.Normals[fv.Normal]
			}
			if got := [3]float32(mesh.Normals[k*3 : k*3+3]); got != normal {
				t.Errorf("vertex %d normal = %v, want %v", k, got, normal)
			}

			uv := DefaultUV
			if fv.UV != formats.NoIndex {
				uv = obj.UVs[fv.UV]
			}
			if got := [2]float32(mesh.UVs[k*2 : k*2+2]); got != uv {
				t.Errorf("vertex %d uv = %v, want %v", k, got, uv)
			}
			if mesh.Indices[k] != uint16(k) {
				t.Errorf("index %d = %d, want %d", k, mesh.Indices[k], k)
			}
			k++
		}
	}
}

func TestBuildMesh_FanTriangulation(t *testing.T) {
	for n := 3; n <= 8; n++ {
		t.Run(fmt.Sprintf("%d-gon", n), func(t *testing.T) {
			var b strings.Builder
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "v %d %d 0\n", i, i*i)
			}
			b.WriteString("f")
			for i := 1; i <= n; i++ {
				fmt.Fprintf(&b, " %d", i)
			}
			b.WriteString("\n")

			mesh, err := ParseOBJ([]byte(b.String()))
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if got := mesh.TriangleCount(); got != n-2 {
				t.Fatalf("triangles = %d, want %d", got, n-2)
			}

			// Triangle i-1 is (0, i, i+1); vertex j sits at x=j.
			for tri := 0; tri < n-2; tri++ {
				want := [3]float32{0, float32(tri + 1), float32(tri + 2)}
				for c := 0; c < 3; c++ {
					x := mesh.Positions[(tri*3+c)*3]
					if x != want[c] {
						t.Errorf("triangle %d corner %d from vertex %v, want %v", tri, c, x, want[c])
					}
				}
			}
			if !mesh.Valid() {
				t.Error("mesh should be valid")
			}
		})
	}
}

func TestBuildMesh_DefaultsForMissingReferences(t *testing.T) {
	// UV 9 and normal 5 dangle; they must fall back to defaults, never zero-length.
	mesh, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5 0.5\nf 1/9/5 2/1 3//\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if want := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}; !reflect.DeepEqual(mesh.Normals, want) {
		t.Errorf("normals = %v, want %v", mesh.Normals, want)
	}
	if want := []float32{0, 0, 0.5, 0.5, 0, 0}; !reflect.DeepEqual(mesh.UVs, want) {
		t.Errorf("uvs = %v, want %v", mesh.UVs, want)
	}
}

func TestBuildMesh_SkipsMissingVertex(t *testing.T) {
	mesh, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nf 1 2 9\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	// Second triangle loses its third corner; arrays stay consistent.
	if mesh.VertexCount != 5 {
		t.Errorf("vertexCount = %d, want 5", mesh.VertexCount)
	}
	if !mesh.Valid() {
		t.Error("attribute arrays should still agree in length")
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("complete triangles = %d, want 1", mesh.TriangleCount())
	}
}

func TestParseOBJ_UnreadableVertexReferenceSkipsCorner(t *testing.T) {
	const quad = "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\n"

	tests := []struct {
		name string
		face string
	}{
		{"non-numeric", "f 2 x 4\n"},
		{"empty vertex part", "f /1 2 4\n"},
		{"garbage uv and normal", "f 2/a/b 3 z\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)

			mesh, err := ParseOBJ([]byte(quad + tt.face))
			if err != nil {
				t.Fatalf("ParseOBJ failed: %v", err)
			}
			if mesh.VertexCount != 5 {
				t.Errorf("vertexCount = %d, want 5", mesh.VertexCount)
			}
			if mesh.TriangleCount() != 1 {
				t.Errorf("complete triangles = %d, want 1", mesh.TriangleCount())
			}
			if !mesh.Valid() {
				t.Error("attribute arrays should still agree in length")
			}
			if n := logs.FilterMessage("missing vertex in face").Len(); n != 1 {
				t.Errorf("missing vertex warnings = %d, want 1", n)
			}
		})
	}
}

func TestBuildMesh_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"empty", "", ErrNoGeometry},
		{"vertices only", "v 0 0 0\nv 1 0 0\n", ErrNoGeometry},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrNoGeometry},
		{"all corners dangling", "v 0 0 0\nf 4 5 6\n", ErrNoGeometry},
		{"parse error", "v 0 0\n", formats.ErrInvalidOBJRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.src))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildMesh_TooManyVertices(t *testing.T) {
	obj := &formats.OBJ{Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	tri := formats.OBJFace{
		{Vertex: 0, UV: formats.NoIndex, Normal: formats.NoIndex},
		{Vertex: 1, UV: formats.NoIndex, Normal: formats.NoIndex},
		{Vertex: 2, UV: formats.NoIndex, Normal: formats.NoIndex},
	}
	for i := 0; i < MaxVertices/3+1; i++ {
		obj.Faces = append(obj.Faces, tri)
	}

	if _, err := BuildMesh(obj); !errors.Is(err, ErrTooManyVertices) {
		t.Errorf("error = %v, want %v", err, ErrTooManyVertices)
	}
}

func TestBuildMesh_Bounds(t *testing.T) {
	mesh, err := ParseOBJ([]byte("v -1 2 3\nv 4 -5 6\nv 0 0 -7\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	want := Bounds{Min: [3]float32{-1, -5, -7}, Max: [3]float32{4, 2, 6}}
	if mesh.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", mesh.Bounds, want)
	}
	if c := mesh.Bounds.Center(); c != [3]float32{1.5, -1.5, -0.5} {
		t.Errorf("center = %v, want [1.5 -1.5 -0.5]", c)
	}
}

func TestParseOBJ_LogsBounds(t *testing.T) {
	logs := observeLogs(t)
	if _, err := ParseOBJ([]byte("v -1 2 3\nv 4 -5 6\nv 0 0 -7\nf 1 2 3\n")); err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	built := logs.FilterMessage("built mesh buffers").All()
	if len(built) != 1 {
		t.Fatalf("built mesh entries = %d, want 1", len(built))
	}
	fields := built[0].ContextMap()
	for _, key := range []string{"center", "min", "max"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("log entry lacks %q: %v", key, fields)
		}
	}
}

func TestFallbackQuad(t *testing.T) {
	mesh := FallbackQuad()

	if mesh.VertexCount != 6 {
		t.Errorf("vertexCount = %d, want 6", mesh.VertexCount)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("triangles = %d, want 2", mesh.TriangleCount())
	}
	if !mesh.Valid() {
		t.Error("fallback quad should be valid")
	}
	for i := 0; i < mesh.VertexCount; i++ {
		if n := [3]float32(mesh.Normals[i*3 : i*3+3]); n != DefaultNormal {
			t.Errorf("normal %d = %v, want %v", i, n, DefaultNormal)
		}
	}
}
