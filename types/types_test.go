package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Padded dimensions and indexing
		g, err := NewGrid(10, 6, 3, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, 16, g.NX())
		assert.Equal(t, 12, g.NZ())
		assert.Equal(t, 192, g.Size())
		assert.Equal(t, 2*12+5, g.Index(2, 5))
		ip, jp := g.Interior(0, 0)
		assert.Equal(t, [2]int{3, 3}, [2]int{ip, jp})
	}
	{ // Invalid grids are configuration errors
		bad := []Grid{
			{Nx: 0, Nz: 5, Pml: 1, Dx: 1, Dz: 1},
			{Nx: 5, Nz: -1, Pml: 1, Dx: 1, Dz: 1},
			{Nx: 5, Nz: 5, Pml: -1, Dx: 1, Dz: 1},
			{Nx: 5, Nz: 5, Pml: 1, Dx: 0, Dz: 1},
			{Nx: 5, Nz: 5, Pml: 1, Dx: 1, Dz: -2},
		}
		for _, g := range bad {
			err := g.Validate()
			assert.True(t, errors.Is(err, ErrConfiguration), "grid %v", g)
		}
	}
	{ // Channel labels
		assert.Equal(t, "Vx", Vx.String())
		assert.Equal(t, "Vz", Vz.String())
		assert.Equal(t, "rho", Rho.String())
		assert.Equal(t, 7, len(MaterialChannels))
		assert.Equal(t, "unknown", Channel(200).String())
	}
}
