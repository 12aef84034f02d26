package Elastic2D

import (
	"runtime"

	"github.com/notargets/seisfdtd/utils"
)

// SetParallelDegree partitions Kmax rows over ProcLimit goroutines, or one per CPU when ProcLimit is zero.
func (c *Elastic) SetParallelDegree(ProcLimit, Kmax int) {
	c.ParallelDegree = utils.ParallelDegree(ProcLimit, Kmax)
	runtime.GOMAXPROCS(runtime.NumCPU())
	c.Partitions = utils.NewPartitionMap(c.ParallelDegree, Kmax)
}

// sweep runs f over the row bands [iMin,iMax) covering rows base..base+NX-2.
func (c *Elastic) sweep(base int, f func(iMin, iMax int)) {
	c.Partitions.Execute(base, func(_, iMin, iMax int) {
		f(iMin, iMax)
	})
}
