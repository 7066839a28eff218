// Package fixture generates the binary glTF fixtures used by the
// ray-intersection tests: a unit cube centred on the origin whose six faces
// are TRIANGLE_FAN primitives, once without indices and once indexed.
package fixture

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/qmuntal/gltf"
)

// File names of the generated fixtures.
const (
	CubeFanFile        = "cubeFan.glb"
	CubeFanIndexedFile = "cubeFanIndexed.glb"
)

// Generator is written to the asset metadata of every fixture.
const Generator = "cesium-native automate"

type vec3 [3]float32

// cubeFaces holds four corners per face, wound for a triangle fan.
var cubeFaces = [6][4]vec3{
	// +XY
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
	// -XY
	{{-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, -0.5, -0.5}},
	// +YZ
	{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}},
	// -YZ
	{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
	// -XZ
	{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
	// +XZ
	{{-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}},
}

// cubeCorners are the eight shared vertices of the indexed cube.
var cubeCorners = []vec3{
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{-0.5, 0.5, 0.5},
	{0.5, 0.5, 0.5},
	{0.5, -0.5, -0.5},
	{-0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5},
	{-0.5, 0.5, -0.5},
}

// cubeFanIndices lists four corner indices per face, same face order as
// cubeFaces.
var cubeFanIndices = [6][4]uint32{
	{0, 1, 3, 2},
	{5, 7, 6, 4},
	{4, 6, 3, 1},
	{5, 0, 2, 7},
	{5, 4, 1, 0},
	{7, 2, 3, 6},
}

// CubeFan returns the non-indexed cube: one mesh, accessor and buffer view
// per face, all in a single buffer.
func CubeFan() *gltf.Document {
	doc := newDocument()

	var bin []byte
	for i, face := range cubeFaces {
		offset := len(bin)
		bin = appendVec3s(bin, face[:])

		doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(i)})
		doc.Meshes = append(doc.Meshes, fanMesh(i, nil))
		doc.Accessors = append(doc.Accessors, positionAccessor(i, face[:]))
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: offset,
			ByteLength: len(bin) - offset,
			Target:     gltf.TargetArrayBuffer,
		})
	}
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(bin), Data: bin}}
	return doc
}

// CubeFanIndexed returns the indexed cube: one shared position accessor and
// one UNSIGNED_INT index accessor per face into a shared index view.
func CubeFanIndexed() *gltf.Document {
	doc := newDocument()

	bin := appendVec3s(nil, cubeCorners)
	positionsLen := len(bin)
	for _, face := range cubeFanIndices {
		for _, idx := range face {
			bin = binary.LittleEndian.AppendUint32(bin, idx)
		}
	}
	indicesLen := len(bin) - positionsLen

	doc.Accessors = append(doc.Accessors, positionAccessor(0, cubeCorners))
	const faceBytes = 4 * 4
	for i, face := range cubeFanIndices {
		doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: gltf.Index(i)})
		doc.Meshes = append(doc.Meshes, fanMesh(0, gltf.Index(i+1)))
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(1),
			ByteOffset:    i * faceBytes,
			ComponentType: gltf.ComponentUint,
			Count:         len(face),
			Type:          gltf.AccessorScalar,
			Max:           []float64{float64(slices.Max(face[:]))},
			Min:           []float64{float64(slices.Min(face[:]))},
		})
	}
	doc.BufferViews = []*gltf.BufferView{
		{Buffer: 0, ByteLength: positionsLen, Target: gltf.TargetArrayBuffer},
		{Buffer: 0, ByteOffset: positionsLen, ByteLength: indicesLen, Target: gltf.TargetElementArrayBuffer},
	}
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(bin), Data: bin}}
	return doc
}

func newDocument() *gltf.Document {
	return &gltf.Document{
		Asset:  gltf.Asset{Generator: Generator, Version: "2.0"},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []int{0, 1, 2, 3, 4, 5}}},
	}
}

func fanMesh(position int, indices *int) *gltf.Mesh {
	return &gltf.Mesh{Primitives: []*gltf.Primitive{{
		Attributes: gltf.Attribute{gltf.POSITION: position},
		Indices:    indices,
		Mode:       gltf.PrimitiveTriangleFan,
	}}}
}

func positionAccessor(view int, points []vec3) *gltf.Accessor {
	lo, hi := bounds(points)
	return &gltf.Accessor{
		BufferView:    gltf.Index(view),
		ComponentType: gltf.ComponentFloat,
		Count:         len(points),
		Type:          gltf.AccessorVec3,
		Max:           hi,
		Min:           lo,
	}
}

func bounds(points []vec3) (lo, hi []float64) {
	lo = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		for k, v := range p {
			lo[k] = math.Min(lo[k], float64(v))
			hi[k] = math.Max(hi[k], float64(v))
		}
	}
	return lo, hi
}

func appendVec3s(b []byte, points []vec3) []byte {
	for _, p := range points {
		for _, v := range p {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		}
	}
	return b
}
