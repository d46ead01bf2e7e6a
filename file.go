package svdag

import (
	"fmt"
	"io"
	"os"

	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/utils"
)

// Serialized layout, little-endian, no padding:
//
//	maxDepth  : uint64
//	maxRefs   : uint32
//	nodeCount : uint64
//	nodeCount node records of RecordSize bytes each:
//	    childMask : uint8
//	    refs      : uint32
//	    material  : uint16
//	    children  : uint32[8]
//
// The stream has no sentinel: the root is the first record and child
// indices are positions in the stream. The in-memory sentinel at index 0 is
// added at load time, shifting every child pointer up by one.

const fileHeaderSize = 8 + 4 + 8

// maxFileDepth bounds the depth a file may declare; 21 bits per axis is the
// Morton codec's limit.
const maxFileDepth = 21

// Open reads a serialized DAG from a file.
func Open(filename string) (*DAG, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	d, err := Load(f)
	if err != nil {
		return nil, utils.WrapError(fmt.Sprintf("load %s failed", filename), err)
	}
	return d, nil
}

// Load reads a serialized DAG from a stream, validating its structure.
// Files whose child references escape the node array, or whose interior
// masks disagree with their pointers, are rejected with ErrCorruptReference.
func Load(r io.Reader) (*DAG, error) {
	header := utils.GetBuffer(fileHeaderSize)
	defer utils.ReleaseBuffer(header)

	if err := utils.ReadFull(r, header); err != nil {
		return nil, utils.WrapError("header read failed", err)
	}
	maxDepth := utils.Uint64At(header, 0)
	maxRefs := utils.Uint32At(header, 8)
	nodeCount := utils.Uint64At(header, 12)

	if maxDepth == 0 || maxDepth > maxFileDepth {
		return nil, fmt.Errorf("unsupported tree depth %d", maxDepth)
	}
	if nodeCount == 0 {
		return nil, fmt.Errorf("%w: empty node stream", ErrCorruptReference)
	}
	if err := utils.CheckMultiplyOverflow(nodeCount+1, core.RecordSize); err != nil {
		return nil, err
	}

	// Cap the pre-allocation so a hostile header cannot balloon memory;
	// a truncated stream fails on its first short record read.
	initialCap := nodeCount + 1
	if initialCap > 1<<20 {
		initialCap = 1 << 20
	}
	d := &DAG{
		nodes:    make([]Node, 1, initialCap),
		maxDepth: maxDepth,
		maxRefs:  maxRefs,
		root:     core.RootIndex,
	}

	record := utils.GetBuffer(core.RecordSize)
	defer utils.ReleaseBuffer(record)

	for i := uint64(0); i < nodeCount; i++ {
		if err := utils.ReadFull(r, record); err != nil {
			return nil, utils.WrapError(fmt.Sprintf("node record %d read failed", i), err)
		}

		var n Node
		n.ChildMask = record[0]
		n.Refs = utils.Uint32At(record, 1)
		n.Material = utils.Uint16At(record, 5)
		for o := 0; o < 8; o++ {
			child := utils.Uint32At(record, 7+4*o)
			if uint64(child) >= nodeCount {
				return nil, fmt.Errorf("%w: node %d slot %d index %d beyond node count %d",
					ErrCorruptReference, i, o, child, nodeCount)
			}
			if child != 0 {
				// Stream position to in-memory index, past the sentinel.
				n.Children[o] = child + 1
			}
		}
		d.nodes = append(d.nodes, n)
	}

	if err := d.validate(false); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptReference, err)
	}
	return d, nil
}
