package Elastic2D

/*
UpdateVx advances Vx over i in [1,NX-1], j in [1,NZ-1] with density averaged
over (i,j), (i-1,j), (i,j-1), (i-1,j-1).
*/
func (c *Elastic) UpdateVx() {
	var (
		NZ     = c.Grid.NZ()
		dx, dz = c.Grid.Dx, c.Grid.Dz
		DT     = c.DT
		vx     = c.W.Vx.Data()
		sxx    = c.W.Sigmaxx.Data()
		sxz    = c.W.Sigmaxz.Data()
		rho    = c.Fields.Rho.Data()
		mSxxDx = c.Mem.DsigmaxxDx.Data()
		mSxzDz = c.Mem.DsigmaxzDz.Data()
		kx, ax = c.Profiles.X.K.Data(), c.Profiles.X.A.Data()
		bx     = c.Profiles.X.B.Data()
		kz, az = c.Profiles.Z.K.Data(), c.Profiles.Z.A.Data()
		bz     = c.Profiles.Z.B.Data()
	)
	c.sweep(1, func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 1; j < NZ; j++ {
				var (
					k   = i*NZ + j
					kW  = k - NZ // (i-1,j)
					kS  = k - 1  // (i,j-1)
					kSW = kW - 1 // (i-1,j-1)
				)
				dsxxdx := (sxx[k] - sxx[kW]) / dx
				dsxzdz := (sxz[k] - sxz[kS]) / dz
				mSxxDx[k] = bx[k]*mSxxDx[k] + ax[k]*dsxxdx
				mSxzDz[k] = bz[k]*mSxzDz[k] + az[k]*dsxzdz
				dsxxdx = dsxxdx/kx[k] + mSxxDx[k]
				dsxzdz = dsxzdz/kz[k] + mSxzDz[k]
				r := 0.25 * (rho[k] + rho[kW] + rho[kS] + rho[kSW])
				vx[k] += (dsxxdx + dsxzdz) * DT / r
			}
		}
	})
}

/*
UpdateVz advances Vz over i in [0,NX-2], j in [0,NZ-2] with density averaged
over (i,j), (i+1,j), (i,j+1), (i+1,j+1).
*/
func (c *Elastic) UpdateVz() {
	var (
		NZ       = c.Grid.NZ()
		dx, dz   = c.Grid.Dx, c.Grid.Dz
		DT       = c.DT
		vz       = c.W.Vz.Data()
		sxz      = c.W.Sigmaxz.Data()
		szz      = c.W.Sigmazz.Data()
		rho      = c.Fields.Rho.Data()
		mSxzDx   = c.Mem.DsigmaxzDx.Data()
		mSzzDz   = c.Mem.DsigmazzDz.Data()
		kxh, axh = c.Profiles.XHalf.K.Data(), c.Profiles.XHalf.A.Data()
		bxh      = c.Profiles.XHalf.B.Data()
		kzh, azh = c.Profiles.ZHalf.K.Data(), c.Profiles.ZHalf.A.Data()
		bzh      = c.Profiles.ZHalf.B.Data()
	)
	c.sweep(0, func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < NZ-1; j++ {
				var (
					k   = i*NZ + j
					kE  = k + NZ // (i+1,j)
					kN  = k + 1  // (i,j+1)
					kNE = kE + 1 // (i+1,j+1)
				)
				dsxzdx := (sxz[kE] - sxz[k]) / dx
				dszzdz := (szz[kN] - szz[k]) / dz
				mSxzDx[k] = bxh[k]*mSxzDx[k] + axh[k]*dsxzdx
				mSzzDz[k] = bzh[k]*mSzzDz[k] + azh[k]*dszzdz
				dsxzdx = dsxzdx/kxh[k] + mSxzDx[k]
				dszzdz = dszzdz/kzh[k] + mSzzDz[k]
				r := 0.25 * (rho[k] + rho[kE] + rho[kN] + rho[kNE])
				vz[k] += (dsxzdx + dszzdz) * DT / r
			}
		}
	})
}

// InjectSource adds the force samples of step it (1 based) at the source cell.
func (c *Elastic) InjectSource(it int) {
	var (
		s = c.Source
		k = c.Grid.Index(s.I, s.J)
		r = c.Fields.Rho.Data()[k]
	)
	c.W.Vx.Data()[k] += s.Srcx[it-1] * c.DT / r
	c.W.Vz.Data()[k] += s.Srcz[it-1] * c.DT / r
}

// ApplyDirichlet zeroes Vx and Vz on the outermost rows and columns.
func (c *Elastic) ApplyDirichlet() {
	var (
		NX, NZ = c.Grid.NX(), c.Grid.NZ()
		vx, vz = c.W.Vx.Data(), c.W.Vz.Data()
	)
	for _, i := range []int{0, NX - 1} {
		for j := 0; j < NZ; j++ {
			vx[i*NZ+j], vz[i*NZ+j] = 0, 0
		}
	}
	for i := 0; i < NX; i++ {
		for _, j := range []int{0, NZ - 1} {
			vx[i*NZ+j], vz[i*NZ+j] = 0, 0
		}
	}
}
