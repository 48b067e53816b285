package vpi

import (
	"github.com/wippyai/go-vpi/abi"
)

// SimulatorInfo describes the running simulator.
type SimulatorInfo struct {
	Arguments []string
	Product   string
	Version   string
}

// Info returns the simulator's command line, product name and version.
// Strings the simulator leaves unset read as "Unknown".
func (s *Simulator) Info() SimulatorInfo {
	var raw abi.VlogInfo
	if !s.native.GetVlogInfo(&raw) {
		return SimulatorInfo{Product: unknownText, Version: unknownText}
	}
	info := SimulatorInfo{
		Product: textOrUnknown(raw.Product),
		Version: textOrUnknown(raw.Version),
	}
	if len(raw.Argv) > 0 {
		info.Arguments = make([]string, len(raw.Argv))
		for i, arg := range raw.Argv {
			info.Arguments[i] = textOrUnknown(arg)
		}
	}
	return info
}

// Product returns the simulator product name.
func (s *Simulator) Product() string {
	return s.Info().Product
}

// Version returns the simulator version string.
func (s *Simulator) Version() string {
	return s.Info().Version
}

// Stop suspends the simulation as $stop does.
func (s *Simulator) Stop() bool {
	return s.native.Control(abi.CtlStop, 1)
}

// Finish ends the simulation as $finish does.
func (s *Simulator) Finish() bool {
	return s.native.Control(abi.CtlFinish, 1)
}
