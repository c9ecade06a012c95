// Wavefront OBJ parser for triangle meshes.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors. Except for reader failures these are reported per line
// or per face as OBJIssue values and never abort a load.
var (
	ErrOBJUnexpectedDirective  = errors.New("expected 'v', 'f' or '#' at the start of the line")
	ErrOBJUnsupportedDirective = errors.New("unsupported data entry")
	ErrOBJFreeFormGeometry     = errors.New("free-form geometry is not supported")
	ErrOBJMalformedNumber      = errors.New("malformed number")
	ErrOBJTooFewCorners        = errors.New("face has fewer than 3 corners")
	ErrOBJInvalidIndex         = errors.New("invalid face index")
	ErrOBJIndexOutOfRange      = errors.New("face index out of range")
	ErrOBJDegenerateUV         = errors.New("degenerate tangent basis")
)

// objMaxLineLength bounds a single line; longer lines fail the read.
const objMaxLineLength = 1 << 20

// OBJPool holds the raw attribute pools in file order.
type OBJPool struct {
	Positions []float32 // x, y, z
	TexCoords []float32 // u, v
	Normals   []float32 // x, y, z
}

// PositionCount returns the number of positions in the pool.
func (p *OBJPool) PositionCount() int { return len(p.Positions) / 3 }

// TexCoordCount returns the number of texture coordinates in the pool.
func (p *OBJPool) TexCoordCount() int { return len(p.TexCoords) / 2 }

// NormalCount returns the number of normals in the pool.
func (p *OBJPool) NormalCount() int { return len(p.Normals) / 3 }

// OBJCorner references pool entries for one face corner.
// Indices are 0-based; -1 means the slot was absent.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a triangle. Faces with more corners are truncated to three.
type OBJFace struct {
	Corners [3]OBJCorner
	Line    int // Source line, for diagnostics
}

// HasTexCoords reports whether the face carries texture coordinates.
// Only corner 0 is consulted.
func (f *OBJFace) HasTexCoords() bool { return f.Corners[0].TexCoord >= 0 }

// HasNormals reports whether the face carries normals.
// Only corner 0 is consulted.
func (f *OBJFace) HasNormals() bool { return f.Corners[0].Normal >= 0 }

// OBJIssue is a recoverable problem found while parsing or expanding.
type OBJIssue struct {
	Line int    // 1-based source line
	Text string // Offending line, empty for expansion issues
	Err  error
}

// Error implements error.
func (i OBJIssue) Error() string {
	if i.Text != "" {
		return fmt.Sprintf("line %d: %v: %q", i.Line, i.Err, i.Text)
	}
	return fmt.Sprintf("line %d: %v", i.Line, i.Err)
}

// Unwrap returns the underlying sentinel error.
func (i OBJIssue) Unwrap() error { return i.Err }

// OBJData is the parser output: attribute pools plus the face list.
type OBJData struct {
	Pool   OBJPool
	Faces  []OBJFace
	Issues []OBJIssue
}

type objState int

const (
	objIdle objState = iota
	objReadVertex
	objReadTexCoord
	objReadNormal
	objReadFace
	objSkipLine
)

// String returns the state name.
func (s objState) String() string {
	switch s {
	case objIdle:
		return "Idle"
	case objReadVertex:
		return "ReadVertex"
	case objReadTexCoord:
		return "ReadTextureCoord"
	case objReadNormal:
		return "ReadNormal"
	case objReadFace:
		return "ReadFace"
	case objSkipLine:
		return "SkipToEndOfLine"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// objParser walks the input one line at a time. Each line starts and ends in
// objIdle; data states always hand over to objSkipLine.
type objParser struct {
	data   *OBJData
	state  objState
	line   int
	text   string
	fields []string
}

// ParseOBJ reads an OBJ stream to the end and returns its pools and faces.
// Malformed lines are recorded in OBJData.Issues and skipped; only a read
// failure returns an error.
func ParseOBJ(r io.Reader) (*OBJData, error) {
	p := &objParser{data: &OBJData{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), objMaxLineLength)
	for scanner.Scan() {
		p.line++
		p.run(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ line %d: %w", p.line+1, err)
	}

	return p.data, nil
}

// run drives the state machine over a single line.
func (p *objParser) run(text string) {
	p.text = strings.TrimSpace(text)
	p.fields = strings.Fields(p.text)
	p.state = objIdle

	for {
		switch p.state {
		case objIdle:
			if len(p.fields) == 0 {
				return
			}
			p.state = p.classify()

		case objReadVertex:
			p.readFloats(&p.data.Pool.Positions, 3)
			p.state = objSkipLine

		case objReadTexCoord:
			p.readFloats(&p.data.Pool.TexCoords, 2)
			p.state = objSkipLine

		case objReadNormal:
			p.readFloats(&p.data.Pool.Normals, 3)
			p.state = objSkipLine

		case objReadFace:
			p.readFace()
			p.state = objSkipLine

		case objSkipLine:
			// Whatever is left on the line (extra corners, w values) is dropped.
			p.state = objIdle
			return
		}
	}
}

// classify picks the next state from the line keyword.
func (p *objParser) classify() objState {
	keyword := p.fields[0]

	switch {
	case keyword[0] == '#':
		return objSkipLine
	case keyword == "f":
		return objReadFace
	case keyword == "v":
		return objReadVertex
	case keyword == "vt":
		return objReadTexCoord
	case keyword == "vn":
		return objReadNormal
	case keyword == "vp":
		p.report(ErrOBJFreeFormGeometry)
		return objSkipLine
	case keyword[0] == 'v':
		p.report(fmt.Errorf("%w %s", ErrOBJUnsupportedDirective, keyword))
		return objSkipLine
	default:
		p.report(fmt.Errorf("%w, found %q", ErrOBJUnexpectedDirective, keyword))
		return objSkipLine
	}
}

// readFloats appends exactly n values from the line to dst. Extra values
// (w-coordinates) are ignored. Nothing is appended if any value is bad.
func (p *objParser) readFloats(dst *[]float32, n int) {
	args := p.fields[1:]
	if len(args) < n {
		p.report(fmt.Errorf("%w: expected %d values, got %d", ErrOBJMalformedNumber, n, len(args)))
		return
	}

	var values [3]float32
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			p.report(fmt.Errorf("%w: %q", ErrOBJMalformedNumber, args[i]))
			return
		}
		values[i] = float32(v)
	}

	*dst = append(*dst, values[:n]...)
}

// readFace reads the first three corners of a face line.
func (p *objParser) readFace() {
	args := p.fields[1:]
	if len(args) < 3 {
		p.report(fmt.Errorf("%w: got %d", ErrOBJTooFewCorners, len(args)))
		return
	}

	face := OBJFace{Line: p.line}
	for i := 0; i < 3; i++ {
		corner, err := parseOBJCorner(args[i])
		if err != nil {
			p.report(err)
			return
		}
		face.Corners[i] = corner
	}

	p.data.Faces = append(p.data.Faces, face)
}

func (p *objParser) report(err error) {
	p.data.Issues = append(p.data.Issues, OBJIssue{
		Line: p.line,
		Text: p.text,
		Err:  err,
	})
}

// parseOBJCorner parses "p", "p/t", "p//n" or "p/t/n".
func parseOBJCorner(token string) (OBJCorner, error) {
	corner := OBJCorner{Position: -1, TexCoord: -1, Normal: -1}

	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return corner, fmt.Errorf("%w: %q", ErrOBJInvalidIndex, token)
	}

	var err error
	if corner.Position, err = parseOBJIndex(parts[0]); err != nil {
		return corner, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if corner.TexCoord, err = parseOBJIndex(parts[1]); err != nil {
			return corner, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if corner.Normal, err = parseOBJIndex(parts[2]); err != nil {
			return corner, err
		}
	}

	return corner, nil
}

// parseOBJIndex converts a 1-based index to 0-based. Relative (negative)
// and zero indices are rejected.
func parseOBJIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return -1, fmt.Errorf("%w: %q", ErrOBJInvalidIndex, s)
	}
	return n - 1, nil
}

// DecodeOBJ parses and expands an OBJ stream in one go.
func DecodeOBJ(r io.Reader) (*MeshBuffers, []OBJIssue, error) {
	data, err := ParseOBJ(r)
	if err != nil {
		return nil, nil, err
	}

	mesh, expandIssues := ExpandOBJ(data)
	issues := append(data.Issues, expandIssues...)
	return mesh, issues, nil
}

// LoadOBJ opens and decodes an OBJ file. A file that cannot be opened
// yields nil buffers and an error.
func LoadOBJ(path string) (*MeshBuffers, []OBJIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open obj file: %w", err)
	}
	defer f.Close()

	mesh, issues, err := DecodeOBJ(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, issues, nil
}
