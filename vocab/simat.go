// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocab

import (
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/metric"
	"github.com/emer/etable/v2/simat"
)

// Table returns the vocabulary as an etable with a Name column and a
// Vector column holding each symbol's vector, in insertion order.
func (vc *Vocab) Table() *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "Vocab")
	dt.SetMetaData("desc", "symbol vectors")
	sch := etable.Schema{
		{Name: "Name", Type: etensor.STRING},
		{Name: "Vector", Type: etensor.FLOAT32, CellShape: []int{vc.Dim}},
	}
	dt.SetFromSchema(sch, vc.Len())
	for i, kv := range vc.Syms.Order {
		dt.SetCellString("Name", i, kv.Key)
		for j, v := range kv.Val.Vec {
			dt.SetCellTensorFloat1D("Vector", i, j, float64(v))
		}
	}
	return dt
}

// SimMat returns the symbol-by-symbol cosine similarity matrix,
// labeled by symbol names.  Useful for checking vocabulary
// orthogonality and for probing composite vectors against the basis.
func (vc *Vocab) SimMat() *simat.SimMat {
	dt := vc.Table()
	ix := etable.NewIdxView(dt)
	sm := &simat.SimMat{}
	sm.TableCol(ix, "Vector", "Name", false, metric.Cosine64)
	return sm
}
