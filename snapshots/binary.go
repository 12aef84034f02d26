package snapshots

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/seisfdtd/readfiles"
	"github.com/notargets/seisfdtd/types"
	"github.com/notargets/seisfdtd/utils"
)

// BinaryWriter stores every snapshot as a float32 field file named after the
// channel and step, e.g. Vx000100.dat.
type BinaryWriter struct {
	Dir     string
	Verbose bool
}

func NewBinaryWriter(dir string, verbose bool) (bw *BinaryWriter, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	bw = &BinaryWriter{Dir: dir, Verbose: verbose}
	return
}

func FileName(ch types.Channel, step int, ext string) string {
	return fmt.Sprintf("%s%06d.%s", ch, step, ext)
}

func (bw *BinaryWriter) Snapshot(ch types.Channel, step int, field utils.Matrix) (err error) {
	path := filepath.Join(bw.Dir, FileName(ch, step, "dat"))
	if err = readfiles.WriteField32(path, field); err != nil {
		return
	}
	if bw.Verbose {
		fmt.Printf("wrote %s\n", path)
	}
	return
}

// ReadSnapshot loads a snapshot written by BinaryWriter.
func ReadSnapshot(dir string, ch types.Channel, step int, g types.Grid) (utils.Matrix, error) {
	return readfiles.ReadField(filepath.Join(dir, FileName(ch, step, "dat")), g.NX(), g.NZ())
}
