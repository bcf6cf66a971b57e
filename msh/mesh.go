// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msh implements the mesh context consumed by the saddle-point
// assembly and solver routines: cell/face connectivity, geometric
// quantities and the adjacencies derived from them. Meshes are plain
// values so that synthetic meshes can be built directly in tests.
package msh

import (
	"github.com/cpmech/gosl/chk"
)

// Adjacency is a compressed (CSR-like) adjacency: the entities adjacent to
// entity i are Ids[Idx[i]:Idx[i+1]].
type Adjacency struct {
	Idx []int // [n+1] offsets into Ids
	Ids []int // adjacent entity ids
}

// Degree returns the number of entities adjacent to i
func (o *Adjacency) Degree(i int) int {
	return o.Idx[i+1] - o.Idx[i]
}

// Range returns the slice of entity ids adjacent to i
func (o *Adjacency) Range(i int) []int {
	return o.Ids[o.Idx[i]:o.Idx[i+1]]
}

// Mesh holds the face-based connectivity and the geometric quantities of one
// domain. Interior faces are numbered first, from 0 to NintFaces-1, followed
// by boundary faces up to Nfaces()-1.
type Mesh struct {

	// counts
	Ncells    int // number of cells owned by this processor
	NcellsGst int // number of cells including the ghost layer
	NintFaces int // number of interior faces
	NbndFaces int // number of boundary faces

	// connectivity
	IfaceCells [][2]int // [NintFaces] interior face => pair of adjacent cells
	BfaceCell  []int    // [NbndFaces] boundary face => adjacent cell

	// geometric quantities
	FaceNormal [][3]float64 // [Nfaces] unit normals (interior: cell0 => cell1; boundary: outwards)
	FaceArea   []float64    // [Nfaces] face measures
	CellVol    []float64    // [Ncells] cell volumes

	// derived adjacencies; computed by Build
	F2c    Adjacency // face => adjacent cells
	C2f    Adjacency // cell => faces
	C2fSgn []int     // [len(C2f.Ids)] +1 if the face normal leaves the cell, -1 otherwise
	F2f    Adjacency // face => faces sharing a cell (diagonal excluded)
}

// Nfaces returns the total number of faces (interior + boundary)
func (o *Mesh) Nfaces() int {
	return o.NintFaces + o.NbndFaces
}

// Build derives the face-to-cell, cell-to-face and face-to-face adjacencies
// from the interior/boundary face connectivity. It must be called once,
// before the mesh is handed to the assembly helpers.
func (o *Mesh) Build() {

	// basic consistency
	nf := o.Nfaces()
	chk.IntAssert(len(o.IfaceCells), o.NintFaces)
	chk.IntAssert(len(o.BfaceCell), o.NbndFaces)
	chk.IntAssert(len(o.FaceNormal), nf)
	chk.IntAssert(len(o.FaceArea), nf)
	chk.IntAssert(len(o.CellVol), o.Ncells)
	if o.NcellsGst < o.Ncells {
		o.NcellsGst = o.Ncells
	}

	// face => cells
	o.F2c.Idx = make([]int, nf+1)
	for f := 0; f < o.NintFaces; f++ {
		o.F2c.Idx[f+1] = o.F2c.Idx[f] + 2
	}
	for f := o.NintFaces; f < nf; f++ {
		o.F2c.Idx[f+1] = o.F2c.Idx[f] + 1
	}
	o.F2c.Ids = make([]int, o.F2c.Idx[nf])
	for f := 0; f < o.NintFaces; f++ {
		o.F2c.Ids[o.F2c.Idx[f]] = o.IfaceCells[f][0]
		o.F2c.Ids[o.F2c.Idx[f]+1] = o.IfaceCells[f][1]
	}
	for f := 0; f < o.NbndFaces; f++ {
		o.F2c.Ids[o.F2c.Idx[o.NintFaces+f]] = o.BfaceCell[f]
	}

	// cell => faces, with orientation signs
	count := make([]int, o.Ncells)
	for f := 0; f < nf; f++ {
		for _, c := range o.F2c.Range(f) {
			count[c]++
		}
	}
	o.C2f.Idx = make([]int, o.Ncells+1)
	for c := 0; c < o.Ncells; c++ {
		o.C2f.Idx[c+1] = o.C2f.Idx[c] + count[c]
	}
	o.C2f.Ids = make([]int, o.C2f.Idx[o.Ncells])
	o.C2fSgn = make([]int, o.C2f.Idx[o.Ncells])
	pos := make([]int, o.Ncells)
	putFace := func(c, f, sgn int) {
		p := o.C2f.Idx[c] + pos[c]
		o.C2f.Ids[p] = f
		o.C2fSgn[p] = sgn
		pos[c]++
	}
	for f := 0; f < o.NintFaces; f++ {
		putFace(o.IfaceCells[f][0], f, +1) // normal leaves cell0
		putFace(o.IfaceCells[f][1], f, -1)
	}
	for f := 0; f < o.NbndFaces; f++ {
		putFace(o.BfaceCell[f], o.NintFaces+f, +1)
	}

	// face => faces: union of the faces of the adjacent cells, self excluded
	seen := make([]int, nf)
	for i := range seen {
		seen[i] = -1
	}
	o.F2f.Idx = make([]int, nf+1)
	o.F2f.Ids = o.F2f.Ids[:0]
	for f := 0; f < nf; f++ {
		for _, c := range o.F2c.Range(f) {
			for _, g := range o.C2f.Range(c) {
				if g == f || seen[g] == f {
					continue
				}
				seen[g] = f
				o.F2f.Ids = append(o.F2f.Ids, g)
			}
		}
		o.F2f.Idx[f+1] = len(o.F2f.Ids)
	}
}

// FaceNvec returns the unit normal and the measure of face f
func (o *Mesh) FaceNvec(f int) (unitv [3]float64, meas float64) {
	return o.FaceNormal[f], o.FaceArea[f]
}
