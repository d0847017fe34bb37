package output

import (
	"path/filepath"
	"testing"

	"github.com/hpcio/snapio/hdf5"
	"github.com/hpcio/snapio/internal/dtype"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	return New(WithFailHandler(func(msg string) { t.Fatalf("unexpected fatal: %s", msg) }))
}

// The full snapshot scenario: a large chunked dataset, a scalar attribute
// on the root, written through the real backend and read back.
func TestSnapshotEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	position := make([]float64, 3*20000)
	for i := range position {
		position[i] = float64(i) * 0.25
	}

	f := newTestFile(t)
	f.Create(path)
	WriteDataset(f, "position", []uint64{3, 20000}, position)
	WriteAttribute(f, "/", "time", 1.5)
	f.Close()

	r, err := hdf5.Open(path)
	require.NoError(t, err)
	defer r.Close()

	raw, dims, kind, err := r.ReadDataset("/position")
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 20000}, dims)
	require.Equal(t, dtype.Float64, kind)
	got, err := dtype.DecodeSlice[float64](raw, kind)
	require.NoError(t, err)
	require.Equal(t, position, got)

	value, attrKind, err := r.ReadScalarAttribute("/", "time")
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, attrKind)
	require.Equal(t, dtype.EncodeValue(1.5, dtype.Float64), value)
}

func TestDiskTypeOverrideEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	coords := []float64{1.5, -2.25, 0.75, 100}

	f := newTestFile(t)
	f.Create(path)
	WriteDatasetAs(f, "coords", []uint64{4}, coords, Float32)
	f.Close()

	r, err := hdf5.Open(path)
	require.NoError(t, err)
	defer r.Close()

	raw, dims, kind, err := r.ReadDataset("/coords")
	require.NoError(t, err)
	require.Equal(t, []uint64{4}, dims)
	require.Equal(t, dtype.Float32, kind)
	got, err := dtype.DecodeSlice[float32](raw, kind)
	require.NoError(t, err)
	require.Equal(t, []float32{1.5, -2.25, 0.75, 100}, got)
}

func TestGroupedDatasetsAndAttributesEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	ids := []uint64{10, 20, 30}

	f := newTestFile(t)
	f.Create(path)
	WriteDataset(f, "PartType0/ParticleIDs", []uint64{3}, ids)
	WriteAttribute(f, "/PartType0", "NumPart", uint64(3))
	WriteAttribute(f, "/PartType0/ParticleIDs", "offset", int32(-7))
	f.Close()

	r, err := hdf5.Open(path)
	require.NoError(t, err)
	defer r.Close()

	raw, _, kind, err := r.ReadDataset("/PartType0/ParticleIDs")
	require.NoError(t, err)
	require.Equal(t, dtype.Uint64, kind)
	got, err := dtype.DecodeSlice[uint64](raw, kind)
	require.NoError(t, err)
	require.Equal(t, ids, got)

	value, attrKind, err := r.ReadScalarAttribute("/PartType0", "NumPart")
	require.NoError(t, err)
	require.Equal(t, dtype.Uint64, attrKind)
	require.Equal(t, dtype.EncodeValue(uint64(3), dtype.Uint64), value)

	value, attrKind, err = r.ReadScalarAttribute("/PartType0/ParticleIDs", "offset")
	require.NoError(t, err)
	require.Equal(t, dtype.Int32, attrKind)
	require.Equal(t, dtype.EncodeValue(int32(-7), dtype.Int32), value)
}

func TestDuplicateAttributeNameIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	var msgs []string
	f := New(WithFailHandler(func(msg string) { msgs = append(msgs, msg) }))
	f.Create(path)
	WriteAttribute(f, "/", "time", 1.5)
	WriteAttribute(f, "/", "time", 2.5)

	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0], "writing attribute")
	require.Contains(t, msgs[0], "time")
	require.Contains(t, msgs[0], "already exists")

	f.Close()
	require.Empty(t, msgs[1:])

	r, err := hdf5.Open(path)
	require.NoError(t, err)
	defer r.Close()

	// The first value stands.
	value, kind, err := r.ReadScalarAttribute("/", "time")
	require.NoError(t, err)
	require.Equal(t, dtype.Float64, kind)
	require.Equal(t, dtype.EncodeValue(1.5, dtype.Float64), value)
}

func TestAllScalarAttributeTypesEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	f := newTestFile(t)
	f.Create(path)
	WriteAttribute(f, "/", "i32", int32(-5))
	WriteAttribute(f, "/", "i64", int64(-5<<40))
	WriteAttribute(f, "/", "u32", uint32(5))
	WriteAttribute(f, "/", "u64", uint64(5)<<40)
	WriteAttribute(f, "/", "f32", float32(2.5))
	WriteAttribute(f, "/", "f64", 2.5)
	f.Close()

	r, err := hdf5.Open(path)
	require.NoError(t, err)
	defer r.Close()

	check := func(name string, wantKind dtype.Kind, want []byte) {
		value, kind, err := r.ReadScalarAttribute("/", name)
		require.NoError(t, err)
		require.Equal(t, wantKind, kind, name)
		require.Equal(t, want, value, name)
	}
	check("i32", dtype.Int32, dtype.EncodeValue(int32(-5), dtype.Int32))
	check("i64", dtype.Int64, dtype.EncodeValue(int64(-5<<40), dtype.Int64))
	check("u32", dtype.Uint32, dtype.EncodeValue(uint32(5), dtype.Uint32))
	check("u64", dtype.Uint64, dtype.EncodeValue(uint64(5)<<40, dtype.Uint64))
	check("f32", dtype.Float32, dtype.EncodeValue(float32(2.5), dtype.Float32))
	check("f64", dtype.Float64, dtype.EncodeValue(2.5, dtype.Float64))
}
