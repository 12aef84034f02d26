package readfiles

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sort"

	"github.com/notargets/seisfdtd/types"
)

type RGB [3]uint8

func (c RGB) String() string { return fmt.Sprintf("%d/%d/%d", c[0], c[1], c[2]) }

/*
ReadMaterialImage decodes a model image where each distinct color is one
material. Colors are numbered in ascending (r,g,b) order, so material id n is
Colors[n]. The image x axis is the grid x axis and image rows run downwards in
z: ids[i][j] is the pixel at column i, row j.
*/
func ReadMaterialImage(filename string, verbose bool) (ids [][]int, Colors []RGB, err error) {
	var (
		file *os.File
		img  image.Image
	)
	if verbose {
		fmt.Printf("Reading material image named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("%w: unable to open file %s: %v", types.ErrIO, filename, err)
		return
	}
	defer file.Close()
	if img, _, err = image.Decode(file); err != nil {
		err = fmt.Errorf("%w: unable to decode image %s: %v", types.ErrIO, filename, err)
		return
	}
	var (
		b      = img.Bounds()
		nx, nz = b.Dx(), b.Dy()
		pixels = make([][]RGB, nx)
		unique = make(map[RGB]int)
	)
	for i := 0; i < nx; i++ {
		pixels[i] = make([]RGB, nz)
		for j := 0; j < nz; j++ {
			r, g, bl, _ := img.At(b.Min.X+i, b.Min.Y+j).RGBA()
			c := RGB{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
			pixels[i][j] = c
			unique[c] = 0
		}
	}
	for c := range unique {
		Colors = append(Colors, c)
	}
	sort.Slice(Colors, func(a, b int) bool {
		ca, cb := Colors[a], Colors[b]
		for k := 0; k < 3; k++ {
			if ca[k] != cb[k] {
				return ca[k] < cb[k]
			}
		}
		return false
	})
	for n, c := range Colors {
		unique[c] = n
	}
	ids = make([][]int, nx)
	for i := 0; i < nx; i++ {
		ids[i] = make([]int, nz)
		for j := 0; j < nz; j++ {
			ids[i][j] = unique[pixels[i][j]]
		}
	}
	if verbose {
		fmt.Printf("nx = %d, nz = %d, %d materials\n", nx, nz, len(Colors))
		for n, c := range Colors {
			fmt.Printf("\tmaterial[%d] = %s\n", n, c)
		}
	}
	return
}
