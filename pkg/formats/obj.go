// Package formats provides parsers for the asset file formats used by the viewer.
// OBJ (Wavefront) text mesh parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OBJ format errors.
var (
	ErrInvalidOBJRecord = errors.New("invalid OBJ record")
	ErrInvalidOBJIndex  = errors.New("invalid OBJ face index")
)

// NoIndex marks an absent UV or normal reference in a face vertex.
const NoIndex = -1

// OBJFaceVertex references one corner of a face.
// Indices are 0-based; UV and Normal are NoIndex when the record omits them.
type OBJFaceVertex struct {
	Vertex int
	UV     int
	Normal int
}

// OBJFace is a polygon as an ordered list of corner references.
type OBJFace []OBJFaceVertex

// OBJ holds the raw records of an OBJ file. Faces are not triangulated and
// indices are not range checked; that happens when building a mesh.
type OBJ struct {
	Vertices    [][3]float32
	Normals     [][3]float32
	UVs         [][2]float32
	Faces       []OBJFace
	MaterialLib string // mtllib reference, informational only
	Skipped     int    // unrecognized or empty lines
}

// ParseOBJ parses OBJ text from a reader.
// Recognized records are v, vn, vt, f and mtllib; all other lines are skipped.
// A leading byte order mark is stripped, and UTF-16 input with a BOM is
// decoded; input without one is read as-is.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}

	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch {
		case strings.HasPrefix(line, "v "):
			var v [3]float32
			if v, err = parseFloats3(line); err == nil {
				obj.Vertices = append(obj.Vertices, v)
			}
		case strings.HasPrefix(line, "vn "):
			var n [3]float32
			if n, err = parseFloats3(line); err == nil {
				obj.Normals = append(obj.Normals, n)
			}
		case strings.HasPrefix(line, "vt "):
			var uv [2]float32
			if uv, err = parseFloats2(line); err == nil {
				obj.UVs = append(obj.UVs, uv)
			}
		case strings.HasPrefix(line, "f "):
			var face OBJFace
			if face, err = obj.parseFace(line); err == nil {
				obj.Faces = append(obj.Faces, face)
			}
		case strings.HasPrefix(line, "mtllib "):
			obj.MaterialLib = strings.TrimSpace(line[len("mtllib "):])
		default:
			obj.Skipped++
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return obj, nil
}

// ParseOBJBytes parses OBJ text held in memory.
func ParseOBJBytes(data []byte) (*OBJ, error) {
	return ParseOBJ(bytes.NewReader(data))
}

func parseFloats3(line string) ([3]float32, error) {
	var out [3]float32
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return out, fmt.Errorf("%w: %q needs 3 components", ErrInvalidOBJRecord, line)
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return out, fmt.Errorf("%w: %q: %v", ErrInvalidOBJRecord, line, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseFloats2(line string) ([2]float32, error) {
	var out [2]float32
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return out, fmt.Errorf("%w: %q needs 2 components", ErrInvalidOBJRecord, line)
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return out, fmt.Errorf("%w: %q: %v", ErrInvalidOBJRecord, line, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFace parses "f a b c ..." where each corner is v, v/vt, v/vt/vn or v//vn.
// Only the corner shape is checked here. A vertex, UV or normal reference
// that is empty or not a number becomes NoIndex, which the mesh builder
// treats like any other dangling reference.
func (o *OBJ) parseFace(line string) (OBJFace, error) {
	fields := strings.Fields(line)[1:]
	face := make(OBJFace, 0, len(fields))

	for _, tok := range fields {
		parts := strings.Split(tok, "/")
		if len(parts) > 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOBJIndex, tok)
		}

		fv := OBJFaceVertex{
			Vertex: resolveIndex(parts[0], len(o.Vertices)),
			UV:     NoIndex,
			Normal: NoIndex,
		}
		if len(parts) > 1 {
			fv.UV = resolveIndex(parts[1], len(o.UVs))
		}
		if len(parts) > 2 {
			fv.Normal = resolveIndex(parts[2], len(o.Normals))
		}
		face = append(face, fv)
	}
	return face, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
// An empty or non-numeric string yields NoIndex. Zero and relative indices
// reaching before the first record come out negative and are caught by the
// range checks of the mesh builder like any other dangling reference.
func resolveIndex(s string, count int) int {
	if s == "" {
		return NoIndex
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return NoIndex
	}
	if n < 0 {
		return count + n
	}
	return n - 1
}
