// Package loaders imports external mesh formats into scene geometry.
package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for bump map files
	_ "image/jpeg"
	_ "image/png"

	"github.com/udhos/gwob"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/material"
)

// LoadObj reads a Wavefront OBJ file and returns one triangle mesh per
// material group. Polygon faces arrive triangulated from the parser.
// Materials come from the OBJ's mtllib: the diffuse color or texture becomes
// a Lambertian, and bump maps are converted to tangent-space normal maps.
// Groups without a resolvable material use the fallback; the optional
// transform is applied to every mesh.
func LoadObj(path string, transform *geometry.Transformer, fallback material.Material) ([]geometry.Shape, error) {
	obj, err := gwob.NewObjFromFile(path, &gwob.ObjParserOptions{})
	if err != nil {
		return nil, core.NewConstructionError(err, "parsing obj %q", path)
	}

	materials, err := loadMaterials(obj, filepath.Dir(path), fallback)
	if err != nil {
		return nil, err
	}
	return buildMeshes(obj, path, materials, transform, fallback)
}

// LoadObjBytes parses OBJ data held in memory, such as an embedded asset.
// Material library references cannot be resolved without a directory on
// disk, so every group gets the fallback material.
func LoadObjBytes(name string, data []byte, transform *geometry.Transformer, fallback material.Material) ([]geometry.Shape, error) {
	obj, err := gwob.NewObjFromBuf(name, data, &gwob.ObjParserOptions{})
	if err != nil {
		return nil, core.NewConstructionError(err, "parsing obj %q", name)
	}
	return buildMeshes(obj, name, map[string]material.Material{}, transform, fallback)
}

// buildMeshes converts a parsed OBJ into one triangle mesh per material group.
func buildMeshes(obj *gwob.Obj, name string, materials map[string]material.Material, transform *geometry.Transformer, fallback material.Material) ([]geometry.Shape, error) {
	vertices, normals, uvs := splitAttributes(obj)
	if len(vertices) == 0 {
		return nil, core.NewConstructionError(nil, "obj %q has no vertices", name)
	}

	var shapes []geometry.Shape
	for _, group := range obj.Groups {
		if group.IndexCount == 0 {
			continue
		}

		mat, ok := materials[group.Usemtl]
		if !ok {
			if fallback == nil {
				return nil, core.NewConstructionError(nil, "obj group %q has material %q but no library defines it and no fallback was given", group.Name, group.Usemtl)
			}
			mat = fallback
		}

		indices := make([]int32, group.IndexCount)
		for i := 0; i < group.IndexCount; i++ {
			indices[i] = int32(obj.Indices[group.IndexBegin+i])
		}

		mesh, err := geometry.NewTriangleMesh(vertices, indices, normals, uvs, transform, mat)
		if err != nil {
			return nil, core.NewConstructionError(err, "building mesh for obj group %q", group.Name)
		}
		shapes = append(shapes, mesh)
	}

	if len(shapes) == 0 {
		return nil, core.NewConstructionError(nil, "obj %q has no faces", name)
	}
	return shapes, nil
}

// splitAttributes unpacks gwob's interleaved vertex records into the shared
// attribute slices the mesh constructor expects. Strides and offsets are in
// bytes.
func splitAttributes(obj *gwob.Obj) ([]core.Vec3, []core.Vec3, []core.Vec2) {
	stride := obj.StrideSize / 4
	if stride == 0 {
		return nil, nil, nil
	}
	count := len(obj.Coord) / stride

	positionAt := obj.StrideOffsetPosition / 4
	vertices := make([]core.Vec3, count)
	for i := 0; i < count; i++ {
		base := i*stride + positionAt
		vertices[i] = core.NewVec3(
			float64(obj.Coord[base]),
			float64(obj.Coord[base+1]),
			float64(obj.Coord[base+2]),
		)
	}

	var normals []core.Vec3
	if obj.NormCoordFound {
		normalAt := obj.StrideOffsetNormal / 4
		normals = make([]core.Vec3, count)
		for i := 0; i < count; i++ {
			base := i*stride + normalAt
			normals[i] = core.NewVec3(
				float64(obj.Coord[base]),
				float64(obj.Coord[base+1]),
				float64(obj.Coord[base+2]),
			)
		}
	}

	var uvs []core.Vec2
	if obj.TextCoordFound {
		textureAt := obj.StrideOffsetTexture / 4
		uvs = make([]core.Vec2, count)
		for i := 0; i < count; i++ {
			base := i*stride + textureAt
			uvs[i] = core.NewVec2(
				float64(obj.Coord[base]),
				float64(obj.Coord[base+1]),
			)
		}
	}

	return vertices, normals, uvs
}

// loadMaterials builds a renderer material for every entry of the OBJ's
// material library. A missing mtllib is fine as long as a fallback exists.
func loadMaterials(obj *gwob.Obj, dir string, fallback material.Material) (map[string]material.Material, error) {
	materials := make(map[string]material.Material)
	if obj.Mtllib == "" {
		return materials, nil
	}

	mtlPath := filepath.Join(dir, obj.Mtllib)
	lib, err := gwob.ReadMaterialLibFromFile(mtlPath, &gwob.ObjParserOptions{})
	if err != nil {
		if fallback != nil && errors.Is(err, os.ErrNotExist) {
			return materials, nil
		}
		return nil, core.NewConstructionError(err, "reading material library %q", mtlPath)
	}

	bumps, err := parseBumpMaps(mtlPath)
	if err != nil {
		return nil, core.NewConstructionError(err, "scanning bump maps in %q", mtlPath)
	}

	for name, mtl := range lib.Lib {
		var albedo material.Texture = material.NewSolidColor(core.NewVec3(
			float64(mtl.Kd[0]),
			float64(mtl.Kd[1]),
			float64(mtl.Kd[2]),
		))
		if mtl.MapKd != "" {
			texture, err := material.LoadImageTexture(filepath.Join(dir, mtl.MapKd))
			if err != nil {
				return nil, core.NewConstructionError(err, "material %q diffuse map", name)
			}
			albedo = texture
		}

		var normalMap material.Texture
		if bumpFile, ok := bumps[name]; ok {
			img, err := loadImageFile(filepath.Join(dir, bumpFile))
			if err != nil {
				return nil, core.NewConstructionError(err, "material %q bump map", name)
			}
			normalMap = material.NewNormalFromHeightMap(img)
		}

		materials[name] = material.NewTexturedLambertian(albedo, normalMap)
	}
	return materials, nil
}

// parseBumpMaps scans an MTL file for bump directives, which the library
// parser does not surface. The map file is the last token, after any
// options like -bm.
func parseBumpMaps(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bumps := make(map[string]string)
	current := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "newmtl":
			current = fields[1]
		case "map_bump", "bump":
			if current != "" {
				bumps[current] = fields[len(fields)-1]
			}
		}
	}
	return bumps, scanner.Err()
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return img, nil
}
