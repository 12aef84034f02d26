package Elastic2D

import (
	"math"
)

// MaxVelocity is the peak of sqrt(vx^2 + vz^2) over the grid, NaN if any cell is NaN.
func (c *Elastic) MaxVelocity() (vmax float64) {
	var (
		NZ       = c.Grid.NZ()
		NX       = c.Grid.NX()
		vx, vz   = c.W.Vx.Data(), c.W.Vz.Data()
		pm       = c.Partitions
		bucketV2 = make([]float64, pm.ParallelDegree)
	)
	// The partitions cover rows [0,NX-1), the last row is a Dirichlet edge and zero
	pm.Execute(0, func(bn, iMin, iMax int) {
		var v2max float64
		for k := iMin * NZ; k < iMax*NZ; k++ {
			v2 := vx[k]*vx[k] + vz[k]*vz[k]
			if math.IsNaN(v2) {
				v2max = v2
				break
			}
			if v2 > v2max {
				v2max = v2
			}
		}
		bucketV2[bn] = v2max
	})
	for k := (NX - 1) * NZ; k < NX*NZ; k++ {
		bucketV2[0] = math.Max(bucketV2[0], vx[k]*vx[k]+vz[k]*vz[k])
	}
	var v2max float64
	for _, v2 := range bucketV2 {
		if math.IsNaN(v2) {
			return math.NaN()
		}
		v2max = math.Max(v2max, v2)
	}
	vmax = math.Sqrt(v2max)
	return
}
