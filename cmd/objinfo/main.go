// objinfo prints statistics and problems found in Wavefront OBJ files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/meshview/pkg/formats"
)

func main() {
	quiet := flag.Bool("q", false, "Only print the summary, not individual issues")
	strict := flag.Bool("strict", false, "Exit with status 2 if any file has issues")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	status := 0
	for _, path := range flag.Args() {
		n, err := report(os.Stdout, path, *quiet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		if n > 0 && *strict && status == 0 {
			status = 2
		}
	}
	os.Exit(status)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `objinfo - Wavefront OBJ inspector

Usage:
  objinfo [-q] [-strict] <file.obj>...

Options:
  -q        Only print the summary, not individual issues
  -strict   Exit with status 2 if any file has issues

Examples:
  objinfo model.obj
  objinfo -q -strict assets/*.obj`)
}

// report parses path and writes its summary to w. It returns the number
// of issues found.
func report(w io.Writer, path string, quiet bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open obj file: %w", err)
	}
	defer f.Close()

	data, err := formats.ParseOBJ(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	mesh, expandIssues := formats.ExpandOBJ(data)
	issues := append(data.Issues, expandIssues...)

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  Positions:      %d\n", data.Pool.PositionCount())
	fmt.Fprintf(w, "  Tex coords:     %d\n", data.Pool.TexCoordCount())
	fmt.Fprintf(w, "  Normals:        %d\n", data.Pool.NormalCount())
	fmt.Fprintf(w, "  Faces:          %d parsed, %d expanded\n", len(data.Faces), mesh.TriangleCount())
	fmt.Fprintf(w, "  Vertices:       %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "  Attributes:     %s\n", attributeSummary(mesh))
	if lo, hi, ok := mesh.Bounds(); ok {
		fmt.Fprintf(w, "  Bounds:         (%.4g, %.4g, %.4g) - (%.4g, %.4g, %.4g)\n",
			lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	}
	fmt.Fprintf(w, "  Issues:         %d\n", len(issues))

	if !quiet {
		for _, issue := range issues {
			fmt.Fprintf(w, "    %v\n", issue)
		}
	}
	return len(issues), nil
}

func attributeSummary(m *formats.MeshBuffers) string {
	s := "position"
	if m.HasTexCoords() {
		s += ", texcoord"
	}
	if m.HasNormals() {
		s += ", normal"
	}
	if m.HasTangents() {
		s += ", tangent, bitangent"
	}
	return s
}
