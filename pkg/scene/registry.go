package scene

import (
	"sort"

	"github.com/df07/go-pathtrace/pkg/core"
)

// SceneInfo describes a built-in scene for CLI listings and the web API
type SceneInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type builder struct {
	info  SceneInfo
	build func() *Scene
}

var builtins = []builder{
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Classic Cornell box with two rotated boxes"}, NewCornellScene},
	{SceneInfo{ID: "cornell-spheres", Name: "Cornell Spheres", Description: "Cornell box with a mirror and a glass sphere"}, NewCornellSphereScene},
	{SceneInfo{ID: "spheregrid", Name: "Sphere Grid", Description: "Grid of metallic spheres across the OKLCH color range"}, NewSphereGridScene},
	{SceneInfo{ID: "obj", Name: "OBJ Model", Description: "Faceted gem loaded through the OBJ pipeline"}, NewObjScene},
	{SceneInfo{ID: "showcase", Name: "Material Showcase", Description: "One of every material kind on a checkered floor"}, NewShowcaseScene},
	{SceneInfo{ID: "sphere-directional", Name: "Sphere and Sun", Description: "Single diffuse sphere under a directional light"}, NewSphereDirectionalScene},
}

// List returns the built-in scenes sorted by ID
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Build constructs the named built-in scene
func Build(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.build(), nil
		}
	}
	return nil, core.NewConfigError("scene", "unknown scene %q", id)
}
