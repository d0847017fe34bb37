// Package superblock writes and reads the HDF5 superblock, the entry point
// of every container. New files get a version 3 superblock; the reader also
// accepts version 2, which differs only in which flags are defined.
package superblock

import (
	"bytes"
	"errors"
	"io"

	binpkg "github.com/hpcio/snapio/internal/binary"
)

// Signature is the HDF5 file signature: 0x89 H D F \r \n 0x1a \n.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

var (
	ErrNotHDF5            = errors.New("not an HDF5 file: signature not found")
	ErrUnsupportedVersion = errors.New("unsupported superblock version")
	ErrBadChecksum        = errors.New("superblock checksum mismatch")
)

// Superblock holds the container-level metadata.
type Superblock struct {
	Version              uint8
	OffsetSize           uint8
	LengthSize           uint8
	FileConsistencyFlags uint8

	BaseAddress                uint64
	SuperblockExtensionAddress uint64 // zero means absent
	EOFAddress                 uint64
	RootGroupAddress           uint64
}

// New creates a version 3 superblock with 8-byte offsets and lengths.
func New() *Superblock {
	return &Superblock{
		Version:    3,
		OffsetSize: 8,
		LengthSize: 8,
	}
}

// Config returns the field-width configuration the superblock declares.
func (sb *Superblock) Config() binpkg.Config {
	cfg := binpkg.DefaultConfig()
	cfg.OffsetSize = int(sb.OffsetSize)
	cfg.LengthSize = int(sb.LengthSize)
	return cfg
}

// Size returns the on-disk size of the superblock in bytes.
func (sb *Superblock) Size() int {
	// signature(8) version(1) offset size(1) length size(1) flags(1)
	// four offsets, checksum(4)
	return 12 + 4*int(sb.OffsetSize) + 4
}

// Write writes the superblock at the writer's position. The whole block is
// staged in memory first so the trailing lookup3 checksum covers the final
// bytes.
func (sb *Superblock) Write(w *binpkg.Writer) error {
	buf := binpkg.NewBuffer(sb.Size())
	bw := binpkg.NewWriter(buf, w.Config())

	if err := bw.WriteBytes(Signature); err != nil {
		return err
	}
	if err := bw.WriteUint8(sb.Version); err != nil {
		return err
	}
	if err := bw.WriteUint8(sb.OffsetSize); err != nil {
		return err
	}
	if err := bw.WriteUint8(sb.LengthSize); err != nil {
		return err
	}
	if err := bw.WriteUint8(sb.FileConsistencyFlags); err != nil {
		return err
	}
	if err := bw.WriteOffset(sb.BaseAddress); err != nil {
		return err
	}
	extAddr := sb.SuperblockExtensionAddress
	if extAddr == 0 {
		extAddr = bw.UndefinedOffset()
	}
	if err := bw.WriteOffset(extAddr); err != nil {
		return err
	}
	if err := bw.WriteOffset(sb.EOFAddress); err != nil {
		return err
	}
	if err := bw.WriteOffset(sb.RootGroupAddress); err != nil {
		return err
	}

	checksum := binpkg.Lookup3(buf.Bytes(bw.Pos()))
	if err := bw.WriteUint32(checksum); err != nil {
		return err
	}

	return w.WriteBytes(buf.Bytes(bw.Pos()))
}

// Read parses a superblock from the start of the file.
func Read(r io.ReaderAt) (*Superblock, error) {
	head := make([]byte, 9)
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, err
	}
	if !bytes.Equal(head[:8], Signature) {
		return nil, ErrNotHDF5
	}
	version := head[8]
	if version != 2 && version != 3 {
		return nil, ErrUnsupportedVersion
	}

	sizes := make([]byte, 3)
	if _, err := r.ReadAt(sizes, 9); err != nil {
		return nil, err
	}
	sb := &Superblock{
		Version:              version,
		OffsetSize:           sizes[0],
		LengthSize:           sizes[1],
		FileConsistencyFlags: sizes[2],
	}

	body := make([]byte, sb.Size())
	if _, err := r.ReadAt(body, 0); err != nil {
		return nil, err
	}

	offSize := int(sb.OffsetSize)
	offset := 12
	next := func() uint64 {
		v := binpkg.DecodeUint(sb.Config().ByteOrder, body[offset:], offSize)
		offset += offSize
		return v
	}
	sb.BaseAddress = next()
	sb.SuperblockExtensionAddress = next()
	sb.EOFAddress = next()
	sb.RootGroupAddress = next()

	stored := binpkg.DecodeUint(sb.Config().ByteOrder, body[offset:], 4)
	if uint32(stored) != binpkg.Lookup3(body[:offset]) {
		return nil, ErrBadChecksum
	}
	return sb, nil
}
