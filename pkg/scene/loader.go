package scene

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// File is the YAML layout of a scene file. Objects receive ids in file order.
type File struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Group       string        `yaml:"group,omitempty"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	Camera      *Point        `yaml:"camera,omitempty"`
	Light       *Point        `yaml:"light,omitempty"`
	Background  *RGB          `yaml:"background,omitempty"`
	Render      RenderOptions `yaml:"render,omitempty"`
	Objects     []Object      `yaml:"objects"`

	baseDir string // Mesh paths are relative to this directory
}

// Point is a position written as [x, y, z]
type Point [3]float64

func (p Point) Vec3() core.Vec3 { return core.NewVec3(p[0], p[1], p[2]) }

// RGB is a color written as [r, g, b]
type RGB [3]uint8

func (c RGB) Color() core.Color { return core.NewColor(c[0], c[1], c[2]) }

// RenderOptions overrides render settings; unset fields keep their defaults
type RenderOptions struct {
	Diffuse          *float64 `yaml:"diffuse,omitempty"`
	Ambient          *float64 `yaml:"ambient,omitempty"`
	Specular         *float64 `yaml:"specular,omitempty"`
	SpecularExponent *float64 `yaml:"specular_exponent,omitempty"`
	MaxDepth         *int     `yaml:"max_depth,omitempty"`
	ShadowGrid       *int     `yaml:"shadow_grid,omitempty"`
	ShadowUnit       *float64 `yaml:"shadow_unit,omitempty"`
	ShadowJitter     *bool    `yaml:"shadow_jitter,omitempty"`
	PixelSamples     *int     `yaml:"pixel_samples,omitempty"`
	PixelJitter      *bool    `yaml:"pixel_jitter,omitempty"`
	Epsilon          *float64 `yaml:"epsilon,omitempty"`
	Fresnel          string   `yaml:"fresnel,omitempty"`
	Seed             *int64   `yaml:"seed,omitempty"`
}

// MaterialSpec is the YAML form of geometry.Material
type MaterialSpec struct {
	Color           RGB     `yaml:"color"`
	Reflectance     float64 `yaml:"reflectance,omitempty"`
	RefractiveIndex float64 `yaml:"refractive_index,omitempty"`
	Transmittance   float64 `yaml:"transmittance,omitempty"`
}

func (m MaterialSpec) Material() geometry.Material {
	return geometry.Material{
		Color:           m.Color.Color(),
		Reflectance:     m.Reflectance,
		RefractiveIndex: m.RefractiveIndex,
		Transmittance:   m.Transmittance,
	}
}

// Object is one shape entry; Type selects which fields are read
type Object struct {
	Type        string       `yaml:"type"` // sphere, wall, triangle or mesh
	Center      Point        `yaml:"center,omitempty"`
	Radius      float64      `yaml:"radius,omitempty"`
	Position    Point        `yaml:"position,omitempty"`
	NormalPoint Point        `yaml:"normal_point,omitempty"`
	Vertices    []Point      `yaml:"vertices,omitempty"`
	Mesh        MeshSpec     `yaml:",inline"`
	Material    MaterialSpec `yaml:"material"`
}

// LoadFile reads a YAML scene file. The scene name defaults to the file name.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errorsmod.Wrapf(core.ErrSceneFile, "open %s: %v", path, err)
	}
	defer f.Close()

	s, err := load(f, filepath.Dir(path))
	if err != nil {
		return nil, errorsmod.Wrapf(err, "scene file %s", path)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Load decodes a YAML scene and builds it. Mesh paths are relative to the
// working directory.
func Load(r io.Reader) (*Scene, error) {
	return load(r, ".")
}

func load(r io.Reader, baseDir string) (*Scene, error) {
	file := File{baseDir: baseDir}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errorsmod.Wrapf(core.ErrSceneFile, "decode: %v", err)
	}
	return file.Build()
}

// Build creates the scene described by the file
func (f *File) Build() (*Scene, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, errorsmod.Wrapf(core.ErrSceneFile, "image size %dx%d", f.Width, f.Height)
	}

	s := New(f.Width, f.Height)
	s.Name = f.Name

	if f.Camera != nil {
		s.SetCamera(f.Camera.Vec3())
	}
	if f.Light != nil {
		s.SetLight(f.Light.Vec3())
	}
	if f.Background != nil {
		s.SetBackground(f.Background.Color())
	}
	f.Render.apply(&s.Config)

	for i, obj := range f.Objects {
		if err := s.addObject(obj, f.baseDir); err != nil {
			return nil, errorsmod.Wrapf(err, "object %d", i)
		}
	}

	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) addObject(obj Object, baseDir string) error {
	m := obj.Material.Material()

	var err error
	switch strings.ToLower(obj.Type) {
	case "sphere":
		_, err = s.AddSphere(obj.Center.Vec3(), obj.Radius, m)
	case "wall", "plane":
		_, err = s.AddWall(obj.Position.Vec3(), obj.NormalPoint.Vec3(), m)
	case "triangle":
		if len(obj.Vertices) != 3 {
			return errorsmod.Wrapf(core.ErrSceneFile, "triangle needs 3 vertices, got %d", len(obj.Vertices))
		}
		_, err = s.AddTriangle(obj.Vertices[0].Vec3(), obj.Vertices[1].Vec3(), obj.Vertices[2].Vec3(), m)
	case "mesh":
		_, err = s.AddMeshFile(obj.Mesh.resolve(baseDir), m)
	default:
		return errorsmod.Wrapf(core.ErrSceneFile, "unknown object type %q", obj.Type)
	}
	return err
}

func (o RenderOptions) apply(c *RenderConfig) {
	if o.Diffuse != nil {
		c.Diffuse = *o.Diffuse
	}
	if o.Ambient != nil {
		c.Ambient = *o.Ambient
	}
	if o.Specular != nil {
		c.Specular = *o.Specular
	}
	if o.SpecularExponent != nil {
		c.SpecularExponent = *o.SpecularExponent
	}
	if o.MaxDepth != nil {
		c.MaxDepth = *o.MaxDepth
	}
	if o.ShadowGrid != nil {
		c.ShadowGridSize = *o.ShadowGrid
	}
	if o.ShadowUnit != nil {
		c.ShadowUnitSize = *o.ShadowUnit
	}
	if o.ShadowJitter != nil {
		c.ShadowJitter = *o.ShadowJitter
	}
	if o.PixelSamples != nil {
		c.PixelSamples = *o.PixelSamples
	}
	if o.PixelJitter != nil {
		c.PixelJitter = *o.PixelJitter
	}
	if o.Epsilon != nil {
		c.Epsilon = *o.Epsilon
	}
	if o.Fresnel != "" {
		c.Fresnel = FresnelModel(strings.ToLower(o.Fresnel))
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
}
