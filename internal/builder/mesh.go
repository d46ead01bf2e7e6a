package builder

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg" // texture decoding
	_ "image/png"  // texture decoding
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/geom"
)

// Material is a mesh material: a diffuse color and, optionally, a decoded
// texture that overrides it per voxel.
type Material struct {
	Name    string
	Diffuse [3]float32
	Texture *Texture
}

// Texture wraps a decoded image for nearest-neighbor RGB565 sampling.
type Texture struct {
	img image.Image
}

// SampleRGB565 nearest-samples the texture at (u, v). V is flipped to the
// image convention; coordinates wrap.
func (t *Texture) SampleRGB565(u, v float32) uint16 {
	bounds := t.img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	wrap := func(f float32) float32 {
		f -= float32(int(f))
		if f < 0 {
			f++
		}
		return f
	}
	x := bounds.Min.X + int(wrap(u)*float32(w-1)+0.5)
	y := bounds.Min.Y + int(wrap(1-v)*float32(h-1)+0.5)

	r, g, b, _ := t.img.At(x, y).RGBA()
	return core.QuantizeRGB565(float32(r)/65535, float32(g)/65535, float32(b)/65535)
}

// Mesh is a loaded triangle soup with its material table.
type Mesh struct {
	Triangles []geom.Triangle
	Materials []Material
}

// LoadOBJ reads a Wavefront OBJ file (positions, texture coordinates,
// triangulated faces, usemtl/mtllib) and its material library if present.
// Faces with more than three vertices triangulate as a fan.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh open failed: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	mesh := &Mesh{}
	matIndex := map[string]uint32{}
	currentMat := uint32(0)

	// Material slot 0 is the implicit default for faces before any usemtl.
	mesh.Materials = append(mesh.Materials, Material{
		Name:    "default",
		Diffuse: [3]float32{0.8, 0.8, 0.8},
	})
	matIndex["default"] = 0

	var positions []geom.Vec3
	var uvs []geom.Vec2

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			positions = append(positions, v)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: short texture coordinate", line)
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texture coordinate", line)
			}
			uvs = append(uvs, geom.Vec2{U: u, V: v})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with fewer than 3 vertices", line)
			}
			corners := fields[1:]
			for i := 1; i+1 < len(corners); i++ {
				tri, err := assembleTriangle(positions, uvs, corners[0], corners[i], corners[i+1], currentMat)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				mesh.Triangles = append(mesh.Triangles, tri)
			}

		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			name := fields[1]
			idx, ok := matIndex[name]
			if !ok {
				idx = uint32(len(mesh.Materials))
				mesh.Materials = append(mesh.Materials, Material{
					Name:    name,
					Diffuse: [3]float32{0.8, 0.8, 0.8},
				})
				matIndex[name] = idx
			}
			currentMat = idx

		case "mtllib":
			if len(fields) < 2 {
				continue
			}
			libPath := filepath.Join(filepath.Dir(path), fields[1])
			if err := loadMTL(libPath, mesh, matIndex); err != nil {
				return nil, fmt.Errorf("material library %s: %w", fields[1], err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mesh read failed: %w", err)
	}

	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s contains no triangles", path)
	}
	return mesh, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseVec3(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err1 := parseFloat(fields[0])
	y, err2 := parseFloat(fields[1])
	z, err3 := parseFloat(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return geom.Vec3{}, fmt.Errorf("bad float components")
	}
	return geom.Vec3{X: x, Y: y, Z: z}, nil
}

// assembleTriangle resolves v/vt/vn corner references (1-based, negatives
// count from the end).
func assembleTriangle(positions []geom.Vec3, uvs []geom.Vec2, c0, c1, c2 string, mat uint32) (geom.Triangle, error) {
	var tri geom.Triangle
	tri.MaterialIndex = mat

	for i, corner := range []string{c0, c1, c2} {
		parts := strings.Split(corner, "/")

		vi, err := resolveIndex(parts[0], len(positions))
		if err != nil {
			return tri, err
		}
		pos := positions[vi]

		var uv geom.Vec2
		if len(parts) > 1 && parts[1] != "" {
			ti, err := resolveIndex(parts[1], len(uvs))
			if err != nil {
				return tri, err
			}
			uv = uvs[ti]
		}

		switch i {
		case 0:
			tri.V0, tri.UV0 = pos, uv
		case 1:
			tri.V1, tri.UV1 = pos, uv
		case 2:
			tri.V2, tri.UV2 = pos, uv
		}
	}
	return tri, nil
}

func resolveIndex(s string, length int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	if idx < 0 {
		idx += length
	} else {
		idx--
	}
	if idx < 0 || idx >= length {
		return 0, fmt.Errorf("index %q out of range (have %d)", s, length)
	}
	return idx, nil
}

// loadMTL parses the subset of MTL the voxelizer cares about: newmtl, Kd
// and map_Kd. Unknown statements are ignored.
func loadMTL(path string, mesh *Mesh, matIndex map[string]uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open failed: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var current *Material
	dir := filepath.Dir(path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			name := fields[1]
			idx, ok := matIndex[name]
			if !ok {
				idx = uint32(len(mesh.Materials))
				mesh.Materials = append(mesh.Materials, Material{Name: name})
				matIndex[name] = idx
			}
			current = &mesh.Materials[idx]
			current.Diffuse = [3]float32{0.8, 0.8, 0.8}

		case "Kd":
			if current == nil || len(fields) < 4 {
				continue
			}
			r, err1 := parseFloat(fields[1])
			g, err2 := parseFloat(fields[2])
			b, err3 := parseFloat(fields[3])
			if err1 == nil && err2 == nil && err3 == nil {
				current.Diffuse = [3]float32{r, g, b}
			}

		case "map_Kd":
			if current == nil {
				continue
			}
			tex, err := loadTexture(filepath.Join(dir, fields[len(fields)-1]))
			if err != nil {
				return fmt.Errorf("texture for %s: %w", current.Name, err)
			}
			current.Texture = tex
		}
	}
	return scanner.Err()
}

// textureCache deduplicates decoded textures across materials.
var textureCache = map[string]*Texture{}

func loadTexture(path string) (*Texture, error) {
	if tex, ok := textureCache[path]; ok {
		return tex, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	tex := &Texture{img: img}
	textureCache[path] = tex
	return tex, nil
}
