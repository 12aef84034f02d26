package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/seisfdtd/types"
)

// ReadAngles reads z-x-z Euler angles in radians from the first three columns
// of a whitespace delimited (EBSD style) .ang file. Header lines start with '#'.
func ReadAngles(filename string) (euler [][3]float64, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("%w: unable to open file %s: %v", types.ErrIO, filename, err)
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			err = fmt.Errorf("%w: %s line %d: need 3 angles, have %d columns",
				types.ErrIO, filename, lineNum, len(fields))
			return
		}
		var e [3]float64
		for k := 0; k < 3; k++ {
			if e[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
				err = fmt.Errorf("%w: %s line %d: %v", types.ErrIO, filename, lineNum, err)
				return
			}
		}
		euler = append(euler, e)
	}
	if err = scanner.Err(); err != nil {
		err = fmt.Errorf("%w: %v", types.ErrIO, err)
		return
	}
	if len(euler) == 0 {
		err = fmt.Errorf("%w: no angles found in %s", types.ErrIO, filename)
	}
	return
}
