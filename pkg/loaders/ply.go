package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// maxListItems bounds the length of one list property, e.g. a face polygon
const maxListItems = 1 << 16

// Mesh is the triangle data read from a PLY file
type Mesh struct {
	Vertices []core.Vec3
	Colors   []core.Color // Per-vertex colors, empty if the file has none
	Faces    [][3]int     // Vertex indices; polygons are fan-triangulated
}

// FaceColor returns the average vertex color of face i
func (m *Mesh) FaceColor(i int) (core.Color, bool) {
	if len(m.Colors) == 0 {
		return core.Color{}, false
	}
	f := m.Faces[i]
	return core.Blend(m.Colors[f[0]], m.Colors[f[1]], m.Colors[f[2]]), true
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name      string
	Type      string // Scalar type, or item type for lists
	IsList    bool
	CountType string // For list properties, the type of the count
}

// PLYElement is one element declaration and its properties, in file order
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// LoadPLY loads vertex positions, optional vertex colors and faces
func LoadPLY(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrMeshFile, "open %s: %v", filename, err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "mesh file %s", filename)
	}
	return mesh, nil
}

// ReadPLY decodes a PLY stream
func ReadPLY(r io.Reader) (*Mesh, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{r: reader, order: binary.BigEndian}
	default:
		return nil, errorsmod.Wrapf(core.ErrMeshFile, "unsupported PLY format %q", header.Format)
	}

	mesh := &Mesh{}
	for _, element := range header.Elements {
		if err := readElement(values, element, mesh); err != nil {
			return nil, err
		}
	}

	for i, face := range mesh.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return nil, errorsmod.Wrapf(core.ErrMeshFile, "face %d references vertex %d of %d", i, idx, len(mesh.Vertices))
			}
		}
	}
	return mesh, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, errorsmod.Wrap(core.ErrMeshFile, "missing ply magic")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errorsmod.Wrapf(core.ErrMeshFile, "header ended early: %v", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, errorsmod.Wrap(core.ErrMeshFile, "missing format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, errorsmod.Wrapf(core.ErrMeshFile, "invalid format line %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore
		case "element":
			if len(parts) < 3 {
				return nil, errorsmod.Wrapf(core.ErrMeshFile, "invalid element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errorsmod.Wrapf(core.ErrMeshFile, "invalid element count %q", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errorsmod.Wrap(core.ErrMeshFile, "property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		default:
			return nil, errorsmod.Wrapf(core.ErrMeshFile, "unknown header keyword %q", parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errorsmod.Wrap(core.ErrMeshFile, "invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errorsmod.Wrap(core.ErrMeshFile, "invalid list property definition")
		}
		prop := PLYProperty{IsList: true, CountType: parts[1], Type: parts[2], Name: parts[3]}
		if typeSize(prop.CountType) == 0 || typeSize(prop.Type) == 0 {
			return PLYProperty{}, errorsmod.Wrapf(core.ErrMeshFile, "unsupported list types %s %s", prop.CountType, prop.Type)
		}
		return prop, nil
	}

	if typeSize(parts[0]) == 0 {
		return PLYProperty{}, errorsmod.Wrapf(core.ErrMeshFile, "unsupported data type %s", parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// readElement reads every instance of element; vertices and faces are kept,
// other elements are read and discarded
func readElement(values valueReader, element PLYElement, mesh *Mesh) error {
	hasColor := element.Name == "vertex" && hasProperties(element, "red", "green", "blue")

	for i := 0; i < element.Count; i++ {
		var pos [3]float64
		var rgb [3]float64

		for _, prop := range element.Properties {
			if prop.IsList {
				items, err := readList(values, prop)
				if err != nil {
					return errorsmod.Wrapf(err, "%s %d", element.Name, i)
				}
				if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
					if len(items) < 3 {
						return errorsmod.Wrapf(core.ErrMeshFile, "face %d has %d vertices", i, len(items))
					}
					for k := 1; k+1 < len(items); k++ {
						mesh.Faces = append(mesh.Faces, [3]int{items[0], items[k], items[k+1]})
					}
				}
				continue
			}

			v, err := values.read(prop.Type)
			if err != nil {
				return errorsmod.Wrapf(core.ErrMeshFile, "%s %d property %s: %v", element.Name, i, prop.Name, err)
			}
			if element.Name != "vertex" {
				continue
			}
			switch prop.Name {
			case "x":
				pos[0] = v
			case "y":
				pos[1] = v
			case "z":
				pos[2] = v
			case "red":
				rgb[0] = v
			case "green":
				rgb[1] = v
			case "blue":
				rgb[2] = v
			}
		}

		if element.Name == "vertex" {
			mesh.Vertices = append(mesh.Vertices, core.NewVec3(pos[0], pos[1], pos[2]))
			if hasColor {
				mesh.Colors = append(mesh.Colors, core.NewColor(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])))
			}
		}
	}
	return nil
}

func readList(values valueReader, prop PLYProperty) ([]int, error) {
	n, err := values.read(prop.CountType)
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrMeshFile, "list %s count: %v", prop.Name, err)
	}
	if n < 0 || n > maxListItems || n != math.Trunc(n) {
		return nil, errorsmod.Wrapf(core.ErrMeshFile, "list %s count %v", prop.Name, n)
	}

	// Grow as items arrive so a lying count fails on EOF, not on allocation
	items := make([]int, 0, min(int(n), 16))
	for k := 0; k < int(n); k++ {
		v, err := values.read(prop.Type)
		if err != nil {
			return nil, errorsmod.Wrapf(core.ErrMeshFile, "list %s item %d: %v", prop.Name, k, err)
		}
		items = append(items, int(v))
	}
	return items, nil
}

func hasProperties(element PLYElement, names ...string) bool {
	found := 0
	for _, prop := range element.Properties {
		for _, name := range names {
			if prop.Name == name && !prop.IsList {
				found++
			}
		}
	}
	return found == len(names)
}

// typeSize returns the size in bytes of a PLY data type, or 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// valueReader yields the next scalar of the body as a float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiReader struct {
	scanner *bufio.Scanner
}

func (a *asciiReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type %s", dataType)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}
