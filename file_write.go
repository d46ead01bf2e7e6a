package svdag

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/utils"
)

// Save re-linearizes the reachable graph depth-first and writes it to w.
// Shared nodes serialize once; garbage left behind by edits is never
// emitted. The root becomes record 0 of the stream.
func (d *DAG) Save(w io.Writer) error {
	disk, err := d.relinearize()
	if err != nil {
		return err
	}

	header := utils.GetBuffer(fileHeaderSize)
	defer utils.ReleaseBuffer(header)

	off := utils.PutUint64(header, 0, d.maxDepth)
	off = utils.PutUint32(header, off, d.maxRefs)
	utils.PutUint64(header, off, uint64(len(disk)))
	if _, err := w.Write(header); err != nil {
		return utils.WrapError("header write failed", err)
	}

	record := utils.GetBuffer(core.RecordSize)
	defer utils.ReleaseBuffer(record)

	for i := range disk {
		n := &disk[i]
		record[0] = n.ChildMask
		off = utils.PutUint32(record, 1, n.Refs)
		off = utils.PutUint16(record, off, n.Material)
		for o := 0; o < 8; o++ {
			off = utils.PutUint32(record, off, n.Children[o])
		}
		if _, err := w.Write(record); err != nil {
			return utils.WrapError(fmt.Sprintf("node record %d write failed", i), err)
		}
	}
	return nil
}

// SaveFile writes the DAG to a file, truncating any existing content.
func (d *DAG) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return utils.WrapError("file create failed", err)
	}

	bw := bufio.NewWriter(f)
	if err := d.Save(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return utils.WrapError("flush failed", err)
	}
	return f.Close()
}

// relinearize compacts the reachable graph into stream order: depth-first
// from the root, each shared node emitted at its first visit.
func (d *DAG) relinearize() ([]Node, error) {
	maxDepth := int(d.maxDepth)
	disk := make([]Node, 0, len(d.nodes))
	index := make(map[uint32]uint32)

	var emit func(idx uint32, depth int) (uint32, error)
	emit = func(idx uint32, depth int) (uint32, error) {
		if di, done := index[idx]; done {
			return di, nil
		}
		if idx >= uint32(len(d.nodes)) {
			return 0, fmt.Errorf("%w: node index %d beyond array", ErrCorruptReference, idx)
		}

		di := uint32(len(disk))
		index[idx] = di
		n := d.nodes[idx]
		n.Children = [8]uint32{}
		disk = append(disk, n)

		src := d.nodes[idx]
		if depth < maxDepth-1 && !src.IsSolid() {
			for o := uint8(0); o < 8; o++ {
				if src.Children[o] == 0 {
					continue
				}
				childDisk, err := emit(src.Children[o], depth+1)
				if err != nil {
					return 0, err
				}
				disk[di].Children[o] = childDisk
			}
		}
		return di, nil
	}

	if _, err := emit(d.root, 0); err != nil {
		return nil, err
	}
	return disk, nil
}
