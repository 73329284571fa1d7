// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spa

import (
	"fmt"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/spa/rules"
	"github.com/emer/spa/vocab"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// Probe records the cosine similarity of a channel's value against a
// fixed expression, once per logged cycle.  This is the non-GUI
// equivalent of the similarity plots such models are usually probed with.
type Probe struct {
	Name    string `desc:"column name in the cycle log"`
	Channel string `desc:"channel whose value is probed"`
	Expr    string `desc:"expression text the channel is compared against"`

	node *rules.Node
}

// AddProbe registers a probe of given channel against given expression
// text, validated immediately against the network's name spaces.
func (nt *Network) AddProbe(name, channel, expr string) error {
	if !nt.Chans.Has(channel) {
		return fmt.Errorf("%w: probe %q channel %q", ErrUnknownChannel, name, channel)
	}
	nd, err := rules.ParseExpr(expr)
	if err != nil {
		return fmt.Errorf("probe %q: %w", name, err)
	}
	var syms, chans []string
	nd.Refs(&syms, &chans)
	for _, snm := range syms {
		if !nt.Vocab.Has(snm) {
			return fmt.Errorf("%w: probe %q references undeclared symbol %q", ErrConfig, name, snm)
		}
	}
	for _, cnm := range chans {
		if !nt.Chans.Has(cnm) {
			return fmt.Errorf("%w: probe %q references undeclared channel %q", ErrConfig, name, cnm)
		}
	}
	nt.Probes = append(nt.Probes, &Probe{Name: name, Channel: channel, Expr: expr, node: nd})
	return nil
}

// ProbeVal returns the probe's current similarity value.
func (nt *Network) ProbeVal(pr *Probe) (float32, error) {
	cv, err := nt.Chans.Vector(pr.Channel)
	if err != nil {
		return 0, err
	}
	xv, err := pr.node.Eval(nt)
	if err != nil {
		return 0, err
	}
	return vocab.Cosine(cv, xv), nil
}

// ConfigCycLog configures the table for per-cycle logging of utilities,
// selection activities and signals per rule, and all registered probes.
func (nt *Network) ConfigCycLog(dt *etable.Table) {
	dt.SetMetaData("name", "CycLog")
	dt.SetMetaData("desc", "per-cycle utilities, selection and probes")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sch := etable.Schema{
		{Name: "Cycle", Type: etensor.INT64},
		{Name: "Time", Type: etensor.FLOAT64},
	}
	for _, rl := range nt.Rules {
		sch = append(sch, etable.Column{Name: rl.Name + "_Util", Type: etensor.FLOAT64})
		sch = append(sch, etable.Column{Name: rl.Name + "_Act", Type: etensor.FLOAT64})
		sch = append(sch, etable.Column{Name: rl.Name + "_Sel", Type: etensor.FLOAT64})
	}
	for _, pr := range nt.Probes {
		sch = append(sch, etable.Column{Name: pr.Name, Type: etensor.FLOAT64})
	}
	dt.SetFromSchema(sch, 0)
}

// LogCyc adds a row to the cycle log for the current cycle.
// Call after Cycle, so the row reflects post-routing channel state.
func (nt *Network) LogCyc(dt *etable.Table) error {
	row := dt.Rows
	dt.SetNumRows(row + 1)

	dt.SetCellFloat("Cycle", row, float64(nt.Time.Cycle))
	dt.SetCellFloat("Time", row, float64(nt.Time.Time))
	for ri, rl := range nt.Rules {
		dt.SetCellFloat(rl.Name+"_Util", row, float64(nt.Eval.Utils[ri]))
		dt.SetCellFloat(rl.Name+"_Act", row, float64(nt.SelState.Act[ri]))
		dt.SetCellFloat(rl.Name+"_Sel", row, float64(nt.SelState.Sel[ri]))
	}
	for _, pr := range nt.Probes {
		v, err := nt.ProbeVal(pr)
		if err != nil {
			return err
		}
		dt.SetCellFloat(pr.Name, row, float64(v))
	}
	return nil
}
