package readfiles

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

func testField(nr, nc int) (A utils.Matrix) {
	A = utils.NewMatrix(nr, nc)
	data := A.Data()
	for i := range data {
		data[i] = math.Sin(float64(i)*0.37)*1.e9 + 1./3.
	}
	data[0] = math.SmallestNonzeroFloat64
	data[len(data)-1] = -math.MaxFloat64
	return
}

func TestBinaryField(t *testing.T) {
	dir := t.TempDir()
	{ // Round trip is bit identical
		A := testField(7, 5)
		path := filepath.Join(dir, "c11.dat")
		require.NoError(t, WriteField(path, A))
		B, err := ReadField(path, 7, 5)
		require.NoError(t, err)
		for i, val := range A.Data() {
			assert.Equal(t, math.Float64bits(val), math.Float64bits(B.Data()[i]))
		}
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(HeaderSize+8*35), info.Size())
	}
	{ // Shape mismatch is refused
		A := testField(4, 4)
		path := filepath.Join(dir, "rho.dat")
		require.NoError(t, WriteField(path, A))
		_, err := ReadField(path, 4, 5)
		assert.True(t, errors.Is(err, types.ErrIO))
		_, err = ReadField(path, 16, 1)
		assert.True(t, errors.Is(err, types.ErrIO))
	}
	{ // Float32 snapshots downcast and read back as float64
		A := utils.NewMatrix(2, 3, []float64{0.1, -2, 3.5, 1.e-3, 7, 8})
		path := filepath.Join(dir, "Vx000001.dat")
		require.NoError(t, WriteField32(path, A))
		B, err := ReadFieldAnyShape(path)
		require.NoError(t, err)
		for i, val := range A.Data() {
			assert.Equal(t, float64(float32(val)), B.Data()[i])
		}
		info, _ := os.Stat(path)
		assert.Equal(t, int64(HeaderSize+4*6), info.Size())
	}
	{ // Series
		s := []float64{0, 1, 2, 3.25}
		path := filepath.Join(dir, "srcx.dat")
		require.NoError(t, WriteSeries(path, s))
		r, err := ReadSeries(path, 4)
		require.NoError(t, err)
		assert.Equal(t, s, r)
		_, err = ReadSeries(path, 5)
		assert.Error(t, err)
	}
	{ // Missing file
		_, err := ReadField(filepath.Join(dir, "nothere.dat"), 1, 1)
		assert.True(t, errors.Is(err, types.ErrIO))
	}
}

func TestHeaderValidation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeField(&buf, testField(3, 2), 8))
	good := buf.Bytes()
	{
		_, h, err := DecodeField(bytes.NewReader(good))
		require.NoError(t, err)
		assert.Equal(t, uint32(3), h.Rows)
		assert.Equal(t, uint32(2), h.Cols)
		assert.Equal(t, uint8(8), h.ElementSize)
	}
	corrupt := func(f func(b []byte) []byte) error {
		b := append([]byte{}, good...)
		_, _, err := DecodeField(bytes.NewReader(f(b)))
		return err
	}
	assert.Error(t, corrupt(func(b []byte) []byte { b[0] = 'X'; return b }))
	assert.Error(t, corrupt(func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:6], 9); return b }))
	assert.Error(t, corrupt(func(b []byte) []byte { b[6] = 2; return b }))
	assert.Error(t, corrupt(func(b []byte) []byte { b[7] = 5; return b }))
	assert.Error(t, corrupt(func(b []byte) []byte { return b[:len(b)-3] }))
	assert.Error(t, corrupt(func(b []byte) []byte { return append(b, 0) }))
	assert.Error(t, corrupt(func(b []byte) []byte { return b[:10] }))
	{ // Big endian payloads are honored
		var (
			hb bytes.Buffer
			h  = NewHeader(1, 2, 8)
		)
		h.ByteOrder = BigEndian
		require.NoError(t, WriteHeader(&hb, h))
		require.NoError(t, binary.Write(&hb, binary.BigEndian, []float64{1.5, -2}))
		A, _, err := DecodeField(&hb)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, -2}, A.Data())
	}
}

func TestOversizedHeader(t *testing.T) {
	var (
		dir = t.TempDir()
	)
	headerOnly := func(name string, h Header) (path string) {
		var buf bytes.Buffer
		require.NoError(t, WriteHeader(&buf, h))
		path = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
		return
	}
	for n, h := range []Header{
		{Version: FieldVersion, ElementSize: 8, Rows: math.MaxUint32, Cols: math.MaxUint32},
		{Version: FieldVersion, ElementSize: 4, Rows: 1 << 31, Cols: 1 << 31},
		{Version: FieldVersion, ElementSize: 8, Rows: 1 << 20, Cols: 1 << 12},
		{Version: FieldVersion, ElementSize: 8, Rows: 10, Cols: 1 << 30, ByteOrder: BigEndian},
	} {
		path := headerOnly(fmt.Sprintf("huge%d.dat", n), h)
		_, err := ReadField(path, 10, 10)
		assert.ErrorIs(t, err, types.ErrIO)
		_, err = ReadFieldAnyShape(path)
		assert.ErrorIs(t, err, types.ErrIO)

		var buf bytes.Buffer
		require.NoError(t, WriteHeader(&buf, h))
		assert.NotPanics(t, func() {
			_, _, err = DecodeField(bytes.NewReader(buf.Bytes()))
		})
		assert.ErrorIs(t, err, types.ErrIO)
		assert.NotPanics(t, func() {
			_, _, err = DecodeFieldShape(bytes.NewReader(buf.Bytes()), 10, 10)
		})
		assert.ErrorIs(t, err, types.ErrIO)
	}
	{ // File length must match the header even when the shape does
		var buf bytes.Buffer
		require.NoError(t, EncodeField(&buf, testField(4, 3), 8))
		path := filepath.Join(dir, "short.dat")
		require.NoError(t, os.WriteFile(path, buf.Bytes()[:buf.Len()-8], 0o644))
		_, err := ReadField(path, 4, 3)
		assert.ErrorIs(t, err, types.ErrIO)
		A, _, err := DecodeFieldShape(bytes.NewReader(buf.Bytes()), 4, 3)
		require.NoError(t, err)
		assert.Equal(t, testField(4, 3).Data(), A.Data())
	}
}

func TestReadLegacy(t *testing.T) {
	var (
		dir    = t.TempDir()
		path   = filepath.Join(dir, "legacy.dat")
		nr, nc = 3, 2
		colMaj = []float64{
			1, 2, 3, // column j = 0
			4, 5, 6, // column j = 1
		}
		buf bytes.Buffer
	)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, colMaj))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	A, err := ReadLegacy(path, nr, nc)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, A.Data())
	_, err = ReadLegacy(path, 4, 2)
	assert.True(t, errors.Is(err, types.ErrIO))
}

func TestReadMaterialImage(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "model.png")
		img  = image.NewRGBA(image.Rect(0, 0, 4, 3))
		red  = color.RGBA{R: 255, A: 255}
		blue = color.RGBA{B: 255, A: 255}
	)
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			if y == 0 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	ids, colors, err := ReadMaterialImage(path, false)
	require.NoError(t, err)
	// blue (0,0,255) sorts before red (255,0,0)
	assert.Equal(t, []RGB{{0, 0, 255}, {255, 0, 0}}, colors)
	assert.Equal(t, 4, len(ids))
	for i := 0; i < 4; i++ {
		assert.Equal(t, []int{1, 0, 0}, ids[i])
	}
}

func TestReadAngles(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "fabric.ang")
	)
	require.NoError(t, os.WriteFile(path, []byte(
		"# header\n0.1  0.2 0.3 1 2 3\n\n1.0 0 0.5\n"), 0644))
	euler, err := ReadAngles(path)
	require.NoError(t, err)
	assert.Equal(t, [][3]float64{{0.1, 0.2, 0.3}, {1, 0, 0.5}}, euler)

	require.NoError(t, os.WriteFile(path, []byte("0.1 0.2\n"), 0644))
	_, err = ReadAngles(path)
	assert.Error(t, err)
}
