package scene

import (
	"path/filepath"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog/log"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// MeshSpec places a PLY mesh in the scene. Vertices are scaled about the
// origin, then translated by Offset.
type MeshSpec struct {
	File         string  `yaml:"file,omitempty"`
	Offset       Point   `yaml:"offset,omitempty"`
	Scale        float64 `yaml:"scale,omitempty"`         // Zero means 1
	VertexColors bool    `yaml:"vertex_colors,omitempty"` // Color faces from the file
}

// MeshStats reports how many faces of a mesh became triangles
type MeshStats struct {
	Triangles int
	Skipped   int // Degenerate faces
}

func (m MeshSpec) resolve(baseDir string) MeshSpec {
	if m.File != "" && !filepath.IsAbs(m.File) {
		m.File = filepath.Join(baseDir, m.File)
	}
	return m
}

func (m MeshSpec) transform(v core.Vec3) core.Vec3 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return v.Multiply(scale).Add(m.Offset.Vec3())
}

// AddMeshFile loads spec.File and adds its faces
func (s *Scene) AddMeshFile(spec MeshSpec, material geometry.Material) (MeshStats, error) {
	if spec.File == "" {
		return MeshStats{}, errorsmod.Wrap(core.ErrSceneFile, "mesh needs a file")
	}
	mesh, err := loaders.LoadPLY(spec.File)
	if err != nil {
		return MeshStats{}, err
	}
	return s.AddMesh(mesh, spec, material)
}

// AddMesh adds every face of mesh as a triangle. Faces that collapse to a
// line or point are skipped.
func (s *Scene) AddMesh(mesh *loaders.Mesh, spec MeshSpec, material geometry.Material) (MeshStats, error) {
	if spec.Scale < 0 {
		return MeshStats{}, errorsmod.Wrapf(core.ErrSceneFile, "mesh scale %v", spec.Scale)
	}

	var stats MeshStats
	for i, face := range mesh.Faces {
		m := material
		if spec.VertexColors {
			if c, ok := mesh.FaceColor(i); ok {
				m.Color = c
			}
		}

		_, err := s.AddTriangle(
			spec.transform(mesh.Vertices[face[0]]),
			spec.transform(mesh.Vertices[face[1]]),
			spec.transform(mesh.Vertices[face[2]]),
			m,
		)
		switch {
		case err == nil:
			stats.Triangles++
		case errorsmod.IsOf(err, core.ErrDegenerateGeometry):
			stats.Skipped++
		default:
			return stats, errorsmod.Wrapf(err, "face %d", i)
		}
	}

	log.Debug().
		Str("file", spec.File).
		Int("vertices", len(mesh.Vertices)).
		Int("triangles", stats.Triangles).
		Int("skipped", stats.Skipped).
		Msg("Mesh added")
	return stats, nil
}
