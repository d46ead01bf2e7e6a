// Package svdag implements a Sparse Voxel Directed Acyclic Graph engine: a
// compressed, editable representation of a cubic voxel volume in which
// structurally identical subtrees are deduplicated into shared nodes.
//
// The package supports offline construction from a height field or a
// triangle mesh (see Build and BuildMeshFile), binary serialization, and
// interactive copy-on-write editing (Editor) driven by brushes (Brush).
package svdag

import "github.com/scigolib/svdag/internal/core"

// Node is the fixed-size linearized node record. See core.Node for the
// field semantics; consumers such as GPU uploaders read these records
// directly from DAG.Nodes.
type Node = core.Node

// RecordSize is the serialized size of one node record in bytes.
const RecordSize = core.RecordSize

// SentinelIndex is the node-array index reserved for "absent child".
const SentinelIndex = core.SentinelIndex

// PackRGB565 packs color channels r, b in [0, 31] and g in [0, 63] into
// the RGB565 material encoding.
func PackRGB565(r, g, b uint16) uint16 { return core.PackRGB565(r, g, b) }

// UnpackRGB565 splits an RGB565 material code into its channels.
func UnpackRGB565(m uint16) (r, g, b uint16) { return core.UnpackRGB565(m) }
