// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

// NewGrid returns a built structured mesh of nx*ny*nz hexahedral cells
// filling a box of dimensions lx*ly*lz. Face normals are axis-aligned;
// interior faces point towards increasing cell index.
func NewGrid(nx, ny, nz int, lx, ly, lz float64) (o *Mesh) {

	dx := lx / float64(nx)
	dy := ly / float64(ny)
	dz := lz / float64(nz)
	area := [3]float64{dy * dz, dx * dz, dx * dy}
	vol := dx * dy * dz

	o = new(Mesh)
	o.Ncells = nx * ny * nz
	o.NcellsGst = o.Ncells
	cid := func(i, j, k int) int { return i + nx*(j+ny*k) }

	// interior faces: one per pair of neighbouring cells, per direction
	addIface := func(c0, c1, dir int) {
		o.IfaceCells = append(o.IfaceCells, [2]int{c0, c1})
		n := [3]float64{}
		n[dir] = 1
		o.FaceNormal = append(o.FaceNormal, n)
		o.FaceArea = append(o.FaceArea, area[dir])
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if i+1 < nx {
					addIface(cid(i, j, k), cid(i+1, j, k), 0)
				}
				if j+1 < ny {
					addIface(cid(i, j, k), cid(i, j+1, k), 1)
				}
				if k+1 < nz {
					addIface(cid(i, j, k), cid(i, j, k+1), 2)
				}
			}
		}
	}
	o.NintFaces = len(o.IfaceCells)

	// boundary faces: outward normals
	addBface := func(c, dir int, sgn float64) {
		o.BfaceCell = append(o.BfaceCell, c)
		n := [3]float64{}
		n[dir] = sgn
		o.FaceNormal = append(o.FaceNormal, n)
		o.FaceArea = append(o.FaceArea, area[dir])
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := cid(i, j, k)
				if i == 0 {
					addBface(c, 0, -1)
				}
				if i == nx-1 {
					addBface(c, 0, +1)
				}
				if j == 0 {
					addBface(c, 1, -1)
				}
				if j == ny-1 {
					addBface(c, 1, +1)
				}
				if k == 0 {
					addBface(c, 2, -1)
				}
				if k == nz-1 {
					addBface(c, 2, +1)
				}
			}
		}
	}
	o.NbndFaces = len(o.BfaceCell)

	o.CellVol = make([]float64, o.Ncells)
	for c := 0; c < o.Ncells; c++ {
		o.CellVol[c] = vol
	}

	o.Build()
	return
}

// NewTwoCell returns the smallest mesh with an interior face: two unit cubes
// sharing one face
func NewTwoCell() (o *Mesh) {
	return NewGrid(2, 1, 1, 2, 1, 1)
}
