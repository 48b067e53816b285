package vpitest

import (
	"github.com/wippyai/go-vpi/abi"
)

// Demo is a small counter testbench:
//
//	tb
//	├── clk, rst       1-bit regs
//	├── count          8-bit net
//	├── period         real
//	└── dut
//	    ├── clk, rst   input ports
//	    ├── q          output port, 8 bits
//	    └── state      4-bit reg
type Demo struct {
	*Native

	Top    abi.Handle
	Clk    abi.Handle
	Rst    abi.Handle
	Count  abi.Handle
	Period abi.Handle
	DUT    abi.Handle
	State  abi.Handle
}

// NewDemo builds the demo design.
func NewDemo() *Demo {
	n := New()
	n.Info = abi.VlogInfo{
		Argv:    [][]byte{[]byte("vpirun"), []byte("+demo")},
		Product: []byte("vpitest demo"),
		Version: []byte("1.0"),
	}

	d := &Demo{Native: n}
	d.Top = n.AddModule(0, "tb")
	n.SetSource(d.Top, "tb.v", 1)
	d.Clk = n.AddReg(d.Top, "clk", 1)
	d.Rst = n.AddReg(d.Top, "rst", 1)
	d.Count = n.AddNet(d.Top, "count", 8)
	d.Period = n.AddRealVar(d.Top, "period")
	n.SetReal(d.Period, 10)

	d.DUT = n.AddModule(d.Top, "dut")
	n.SetSource(d.DUT, "counter.v", 1)
	n.SetProp(d.DUT, abi.PropTimeUnit, -9)
	n.SetProp(d.DUT, abi.PropTimePrecision, -10)
	n.AddPort(d.DUT, "clk", 1, abi.DirInput)
	n.AddPort(d.DUT, "rst", 1, abi.DirInput)
	n.AddPort(d.DUT, "q", 8, abi.DirOutput)
	d.State = n.AddReg(d.DUT, "state", 4)
	n.SetWords(d.State, abi.Vecval{Aval: 0xF, Bval: 0xF})

	n.SetInt(d.Rst, 1)
	return d
}

// Run simulates cycles clock periods of 10 ticks. It fires
// cbStartOfSimulation first and cbEndOfSimulation last; every clock edge
// and counter update fires value-change callbacks.
func (d *Demo) Run(cycles int) {
	d.Fire(abi.CbStartOfSimulation, 0)

	var count uint64
	for i := 0; i < cycles; i++ {
		d.Advance(5)
		d.Fire(abi.CbAtStartOfSimTime, 0)
		d.Change(d.Clk, 1)
		if i == 1 {
			d.Change(d.Rst, 0)
			d.Change(d.State, 0)
		}
		if i > 1 {
			count = (count + 1) & 0xFF
			d.Change(d.Count, count)
			d.Change(d.State, count&0xF)
		}
		d.Advance(5)
		d.Change(d.Clk, 0)
	}

	d.Fire(abi.CbEndOfSimulation, 0)
}
