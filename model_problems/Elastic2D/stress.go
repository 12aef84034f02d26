package Elastic2D

/*
UpdateNormalStress advances Sigmaxx and Sigmazz over i in [0,NX-2], j in [1,NZ-1].
The stiffness is averaged over (i,j), (i+1,j), (i,j-1), (i+1,j-1).
*/
func (c *Elastic) UpdateNormalStress() {
	var (
		NZ       = c.Grid.NZ()
		dx, dz   = c.Grid.Dx, c.Grid.Dz
		DT       = c.DT
		vx, vz   = c.W.Vx.Data(), c.W.Vz.Data()
		sxx, szz = c.W.Sigmaxx.Data(), c.W.Sigmazz.Data()
		c11, c13 = c.Fields.C11.Data(), c.Fields.C13.Data()
		c15, c33 = c.Fields.C15.Data(), c.Fields.C33.Data()
		c35      = c.Fields.C35.Data()
		mDvxDx   = c.Mem.DvxDx.Data()
		mDvzDz   = c.Mem.DvzDz.Data()
		mDvzDx   = c.Mem.DvzDx.Data()
		mDvxDz   = c.Mem.DvxDz.Data()
		X, XH    = c.Profiles.X, c.Profiles.XHalf
		Z, ZH    = c.Profiles.Z, c.Profiles.ZHalf
		kx, ax   = X.K.Data(), X.A.Data()
		bx       = X.B.Data()
		kxh, axh = XH.K.Data(), XH.A.Data()
		bxh      = XH.B.Data()
		kz, az   = Z.K.Data(), Z.A.Data()
		bz       = Z.B.Data()
		kzh, azh = ZH.K.Data(), ZH.A.Data()
		bzh      = ZH.B.Data()
	)
	c.sweep(0, func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 1; j < NZ; j++ {
				var (
					k   = i*NZ + j
					kE  = k + NZ // (i+1,j)
					kS  = k - 1  // (i,j-1)
					kSE = kE - 1 // (i+1,j-1)
				)
				dvxdx := (vx[kE] - vx[k]) / dx
				dvzdz := (vz[k] - vz[kS]) / dz
				dvzdx := (vz[kE] - vz[k]) / dx
				dvxdz := (vx[k] - vx[kS]) / dz

				mDvxDx[k] = bxh[k]*mDvxDx[k] + axh[k]*dvxdx
				mDvzDz[k] = bz[k]*mDvzDz[k] + az[k]*dvzdz
				mDvzDx[k] = bx[k]*mDvzDx[k] + ax[k]*dvzdx
				mDvxDz[k] = bzh[k]*mDvxDz[k] + azh[k]*dvxdz

				dvxdx = dvxdx/kxh[k] + mDvxDx[k]
				dvzdz = dvzdz/kz[k] + mDvzDz[k]
				dvzdx = dvzdx/kx[k] + mDvzDx[k]
				dvxdz = dvxdz/kzh[k] + mDvxDz[k]

				var (
					C11 = 0.25 * (c11[k] + c11[kE] + c11[kS] + c11[kSE])
					C13 = 0.25 * (c13[k] + c13[kE] + c13[kS] + c13[kSE])
					C15 = 0.25 * (c15[k] + c15[kE] + c15[kS] + c15[kSE])
					C33 = 0.25 * (c33[k] + c33[kE] + c33[kS] + c33[kSE])
					C35 = 0.25 * (c35[k] + c35[kE] + c35[kS] + c35[kSE])
				)
				shear := dvzdx + dvxdz
				sxx[k] += (C11*dvxdx + C13*dvzdz + C15*shear) * DT
				szz[k] += (C13*dvxdx + C33*dvzdz + C35*shear) * DT
			}
		}
	})
}

/*
UpdateShearStress advances Sigmaxz over i in [1,NX-1], j in [0,NZ-2].
Only dvz/dx and dvx/dz carry memory here, sharing the arrays of the normal
stress phase. The stiffness is averaged over (i-1,j), (i,j), (i-1,j+1), (i,j+1).
*/
func (c *Elastic) UpdateShearStress() {
	var (
		NZ       = c.Grid.NZ()
		dx, dz   = c.Grid.Dx, c.Grid.Dz
		DT       = c.DT
		vx, vz   = c.W.Vx.Data(), c.W.Vz.Data()
		sxz      = c.W.Sigmaxz.Data()
		c15, c35 = c.Fields.C15.Data(), c.Fields.C35.Data()
		c55      = c.Fields.C55.Data()
		mDvzDx   = c.Mem.DvzDx.Data()
		mDvxDz   = c.Mem.DvxDz.Data()
		X, ZH    = c.Profiles.X, c.Profiles.ZHalf
		kx, ax   = X.K.Data(), X.A.Data()
		bx       = X.B.Data()
		kzh, azh = ZH.K.Data(), ZH.A.Data()
		bzh      = ZH.B.Data()
	)
	c.sweep(1, func(iMin, iMax int) {
		for i := iMin; i < iMax; i++ {
			for j := 0; j < NZ-1; j++ {
				var (
					k   = i*NZ + j
					kW  = k - NZ // (i-1,j)
					kN  = k + 1  // (i,j+1)
					kNW = kW + 1 // (i-1,j+1)
				)
				dvzdx := (vz[k] - vz[kW]) / dx
				dvxdz := (vx[kN] - vx[k]) / dz
				dvxdx := (vx[k] - vx[kW]) / dx / kx[k]
				dvzdz := (vz[kN] - vz[k]) / dz / kzh[k]

				mDvzDx[k] = bx[k]*mDvzDx[k] + ax[k]*dvzdx
				mDvxDz[k] = bzh[k]*mDvxDz[k] + azh[k]*dvxdz
				dvzdx = dvzdx/kx[k] + mDvzDx[k]
				dvxdz = dvxdz/kzh[k] + mDvxDz[k]

				var (
					C15 = 0.25 * (c15[kW] + c15[k] + c15[kNW] + c15[kN])
					C35 = 0.25 * (c35[kW] + c35[k] + c35[kNW] + c35[kN])
					C55 = 0.25 * (c55[kW] + c55[k] + c55[kNW] + c55[kN])
				)
				sxz[k] += (C15*dvxdx + C35*dvzdz + C55*(dvzdx+dvxdz)) * DT
			}
		}
	})
}
