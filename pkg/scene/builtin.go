package scene

import (
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "cornell",
			Name:        "Cornell Box",
			Description: "Five coloured walls and a slightly reflective sphere",
		},
		build: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Mirror, matte and glass spheres on a ground plane",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "glass",
			Name:        "Glass",
			Description: "Glass sphere, mirror sphere and a triangle pyramid",
		},
		build: NewGlassScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			Name:        "Sphere Grid",
			Description: "8x8 grid of rainbow-coloured reflective spheres",
		},
		build: NewSphereGridScene,
	},
}

// BuiltinScenes returns metadata for every built-in scene
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		infos[i] = info
	}
	return infos
}

// NewBuiltin creates the built-in scene with the given id
func NewBuiltin(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build()
		}
	}
	return nil, errorsmod.Wrapf(core.ErrUnknownScene, "%q", id)
}

// Resolve loads a scene from a YAML path or, failing that, by built-in id
func Resolve(nameOrPath string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(nameOrPath)) {
	case ".yaml", ".yml":
		return LoadFile(nameOrPath)
	}
	return NewBuiltin(nameOrPath)
}

// Lookup resolves a built-in id, a .yaml path, or the name of a scene file
// in dir, in that order
func Lookup(nameOrPath, dir string) (*Scene, error) {
	if nameOrPath == "" {
		return nil, errorsmod.Wrap(core.ErrUnknownScene, "no scene given")
	}

	s, err := Resolve(nameOrPath)
	if err == nil || !errorsmod.IsOf(err, core.ErrUnknownScene) {
		return s, err
	}

	for _, ext := range []string{".yaml", ".yml"} {
		candidate := filepath.Join(dir, nameOrPath+ext)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return LoadFile(candidate)
		}
	}
	return nil, err
}
