package readfiles

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

/*
Every array file starts with a 16 byte header:

	[0:4]   magic "SFLD"
	[4:6]   format version, uint16
	[6]     element width in bytes, 8 (float64) or 4 (float32)
	[7]     byte order of the header tail and payload, 0 = little, 1 = big endian
	[8:12]  rows, uint32
	[12:16] columns, uint32

followed by rows*columns elements in row major order. The magic and the
version are written in little endian regardless of the order byte.
*/
const (
	FieldMagic          = "SFLD"
	FieldVersion uint16 = 1
	HeaderSize          = 16
)

const (
	LittleEndian uint8 = iota
	BigEndian
)

type Header struct {
	Version     uint16
	ElementSize uint8
	ByteOrder   uint8
	Rows, Cols  uint32
}

func NewHeader(nr, nc, elementSize int) Header {
	return Header{
		Version:     FieldVersion,
		ElementSize: uint8(elementSize),
		ByteOrder:   LittleEndian,
		Rows:        uint32(nr),
		Cols:        uint32(nc),
	}
}

func (h Header) order() binary.ByteOrder {
	if h.ByteOrder == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (h Header) Len() int { return int(h.Rows) * int(h.Cols) }

func WriteHeader(w io.Writer, h Header) (err error) {
	var (
		buf [HeaderSize]byte
		bo  = h.order()
	)
	copy(buf[0:4], FieldMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = h.ElementSize
	buf[7] = h.ByteOrder
	bo.PutUint32(buf[8:12], h.Rows)
	bo.PutUint32(buf[12:16], h.Cols)
	_, err = w.Write(buf[:])
	return
}

func ReadHeader(r io.Reader) (h Header, err error) {
	var (
		buf [HeaderSize]byte
	)
	if _, err = io.ReadFull(r, buf[:]); err != nil {
		err = fmt.Errorf("%w: short header: %v", types.ErrIO, err)
		return
	}
	if string(buf[0:4]) != FieldMagic {
		err = fmt.Errorf("%w: bad magic %q", types.ErrIO, buf[0:4])
		return
	}
	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version != FieldVersion {
		err = fmt.Errorf("%w: unsupported format version %d", types.ErrIO, h.Version)
		return
	}
	h.ElementSize, h.ByteOrder = buf[6], buf[7]
	if h.ElementSize != 8 && h.ElementSize != 4 {
		err = fmt.Errorf("%w: unsupported element size %d", types.ErrIO, h.ElementSize)
		return
	}
	if h.ByteOrder != LittleEndian && h.ByteOrder != BigEndian {
		err = fmt.Errorf("%w: unknown byte order flag %d", types.ErrIO, h.ByteOrder)
		return
	}
	bo := h.order()
	h.Rows, h.Cols = bo.Uint32(buf[8:12]), bo.Uint32(buf[12:16])
	return
}

// EncodeField writes A with a header, as float64 or float32 elements.
func EncodeField(w io.Writer, A utils.Matrix, elementSize int) (err error) {
	var (
		nr, nc = A.Dims()
		h      = NewHeader(nr, nc, elementSize)
		bw     = bufio.NewWriter(w)
	)
	if err = WriteHeader(bw, h); err != nil {
		return
	}
	switch elementSize {
	case 8:
		err = binary.Write(bw, h.order(), A.Data())
	case 4:
		data32 := make([]float32, nr*nc)
		for i, val := range A.Data() {
			data32[i] = float32(val)
		}
		err = binary.Write(bw, h.order(), data32)
	default:
		err = fmt.Errorf("%w: element size must be 4 or 8, have %d", types.ErrConfiguration, elementSize)
	}
	if err != nil {
		return
	}
	return bw.Flush()
}

// DecodeField reads a headered array of either element width into float64s.
func DecodeField(r io.Reader) (A utils.Matrix, h Header, err error) {
	return decodeField(r, -1, -1)
}

/*
DecodeFieldShape is DecodeField for an array that must be nr x nc. The header
is checked before anything is allocated.
*/
func DecodeFieldShape(r io.Reader, nr, nc int) (A utils.Matrix, h Header, err error) {
	return decodeField(r, nr, nc)
}

// PayloadSize is the byte length of the array described by h, false if it
// cannot be addressed on this platform.
func (h Header) PayloadSize() (n int64, ok bool) {
	var (
		elems = uint64(h.Rows) * uint64(h.Cols)
	)
	if elems > uint64(math.MaxInt64-HeaderSize)/uint64(h.ElementSize) ||
		elems > uint64(math.MaxInt)/8 {
		return
	}
	return int64(elems) * int64(h.ElementSize), true
}

// decodeChunk bounds each read, so a header claiming more data than the
// stream holds fails on the short read instead of on the allocation.
const decodeChunk = 1 << 16

func decodeField(r io.Reader, nr, nc int) (A utils.Matrix, h Header, err error) {
	var (
		br = bufio.NewReader(r)
	)
	if h, err = ReadHeader(br); err != nil {
		return
	}
	if h.Rows == 0 || h.Cols == 0 {
		err = fmt.Errorf("%w: empty array [%d,%d]", types.ErrIO, h.Rows, h.Cols)
		return
	}
	if nr >= 0 && (uint64(h.Rows) != uint64(nr) || uint64(h.Cols) != uint64(nc)) {
		err = fmt.Errorf("%w: header holds a [%d,%d] array, expected [%d,%d]",
			types.ErrIO, h.Rows, h.Cols, nr, nc)
		return
	}
	if _, ok := h.PayloadSize(); !ok {
		err = fmt.Errorf("%w: [%d,%d] array is too large", types.ErrIO, h.Rows, h.Cols)
		return
	}
	var (
		n    = h.Len()
		data = make([]float64, 0, min(n, decodeChunk))
		bo   = h.order()
	)
	for len(data) < n && err == nil {
		k := min(n-len(data), decodeChunk)
		switch h.ElementSize {
		case 8:
			chunk := make([]float64, k)
			if err = binary.Read(br, bo, chunk); err == nil {
				data = append(data, chunk...)
			}
		case 4:
			chunk := make([]float32, k)
			if err = binary.Read(br, bo, chunk); err == nil {
				for _, val := range chunk {
					data = append(data, float64(val))
				}
			}
		}
	}
	if err != nil {
		err = fmt.Errorf("%w: truncated payload for [%d,%d] array: %v", types.ErrIO, h.Rows, h.Cols, err)
		return
	}
	if _, extra := br.Peek(1); extra == nil {
		err = fmt.Errorf("%w: trailing data after [%d,%d] array", types.ErrIO, h.Rows, h.Cols)
		return
	}
	A = utils.NewMatrix(int(h.Rows), int(h.Cols), data)
	return
}

func writeFile(path string, A utils.Matrix, elementSize int) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(path); err != nil {
		return fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	if err = EncodeField(file, A, elementSize); err != nil {
		file.Close()
		return fmt.Errorf("%w: writing %s: %v", types.ErrIO, path, err)
	}
	if err = file.Close(); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
	}
	return
}

// WriteField persists a float64 field.
func WriteField(path string, A utils.Matrix) error { return writeFile(path, A, 8) }

// WriteField32 persists A downcast to float32, as used for snapshots.
func WriteField32(path string, A utils.Matrix) error { return writeFile(path, A, 4) }

// ReadFieldAnyShape reads a headered array and returns it with its own shape.
func ReadFieldAnyShape(path string) (A utils.Matrix, err error) {
	return readFile(path, -1, -1)
}

// ReadField reads a headered array and checks it has the expected shape.
func ReadField(path string, nr, nc int) (A utils.Matrix, err error) {
	return readFile(path, nr, nc)
}

// readFile checks the header against the expected shape, nr < 0 for any, and
// against the file length before decoding the payload.
func readFile(path string, nr, nc int) (A utils.Matrix, err error) {
	var (
		file *os.File
		info os.FileInfo
		h    Header
	)
	if file, err = os.Open(path); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	defer file.Close()
	if info, err = file.Stat(); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	if h, err = ReadHeader(file); err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		return
	}
	if nr >= 0 && (uint64(h.Rows) != uint64(nr) || uint64(h.Cols) != uint64(nc)) {
		err = fmt.Errorf("%w: %s holds a [%d,%d] array, expected [%d,%d]",
			types.ErrIO, path, h.Rows, h.Cols, nr, nc)
		return
	}
	size, ok := h.PayloadSize()
	switch {
	case !ok:
		err = fmt.Errorf("%w: %s claims a [%d,%d] array, too large", types.ErrIO, path, h.Rows, h.Cols)
	case size+HeaderSize != info.Size():
		err = fmt.Errorf("%w: %s is %d bytes, its [%d,%d] header needs %d",
			types.ErrIO, path, info.Size(), h.Rows, h.Cols, size+HeaderSize)
	}
	if err != nil {
		return
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	if A, _, err = decodeField(file, nr, nc); err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
	}
	return
}

// WriteSeries stores a 1D sequence as an n x 1 array.
func WriteSeries(path string, s []float64) error {
	data := make([]float64, len(s))
	copy(data, s)
	return WriteField(path, utils.NewMatrix(len(s), 1, data))
}

func ReadSeries(path string, n int) (s []float64, err error) {
	var (
		A utils.Matrix
	)
	if A, err = ReadField(path, n, 1); err != nil {
		return
	}
	s = A.Data()
	return
}

/*
ReadLegacy reads a headerless float64 little endian array written in Fortran
(column major, x fastest) order, as produced by older tooling, and returns it
in the row major layout used here. The shape comes entirely from the caller.
*/
func ReadLegacy(path string, nr, nc int) (A utils.Matrix, err error) {
	var (
		raw  []byte
		info os.FileInfo
	)
	if info, err = os.Stat(path); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	if info.Size() != int64(8*nr*nc) {
		err = fmt.Errorf("%w: %s has %d bytes, expected %d for a [%d,%d] float64 array",
			types.ErrIO, path, info.Size(), 8*nr*nc, nr, nc)
		return
	}
	if raw, err = os.ReadFile(path); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	A = utils.NewMatrix(nr, nc)
	data := A.Data()
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			ind := 8 * (i + nr*j)
			data[i*nc+j] = math.Float64frombits(binary.LittleEndian.Uint64(raw[ind : ind+8]))
		}
	}
	return
}
