package vpi

import (
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/go-vpi/abi"
	"github.com/wippyai/go-vpi/errors"
)

// Property is a vpi_get / vpi_get_str property code.
type Property int32

const (
	PropType           = Property(abi.PropType)
	PropName           = Property(abi.PropName)
	PropFullName       = Property(abi.PropFullName)
	PropSize           = Property(abi.PropSize)
	PropFile           = Property(abi.PropFile)
	PropLineNo         = Property(abi.PropLineNo)
	PropTopModule      = Property(abi.PropTopModule)
	PropCellInstance   = Property(abi.PropCellInstance)
	PropDefName        = Property(abi.PropDefName)
	PropTimeUnit       = Property(abi.PropTimeUnit)
	PropTimePrecision  = Property(abi.PropTimePrecision)
	PropDefFile        = Property(abi.PropDefFile)
	PropDefLineNo      = Property(abi.PropDefLineNo)
	PropScalar         = Property(abi.PropScalar)
	PropVector         = Property(abi.PropVector)
	PropDirection      = Property(abi.PropDirection)
	PropNetType        = Property(abi.PropNetType)
	PropArray          = Property(abi.PropArray)
	PropPortIndex      = Property(abi.PropPortIndex)
	PropConstType      = Property(abi.PropConstType)
	PropFuncType       = Property(abi.PropFuncType)
	PropUserDefn       = Property(abi.PropUserDefn)
	PropAutomatic      = Property(abi.PropAutomatic)
	PropConstantSelect = Property(abi.PropConstantSelect)
	PropSigned         = Property(abi.PropSigned)
	PropLocalParam     = Property(abi.PropLocalParam)
)

// stringProps are the properties Str decodes.
var stringProps = map[Property]bool{
	PropName:     true,
	PropFullName: true,
	PropDefName:  true,
	PropFile:     true,
	PropDefFile:  true,
	PropType:     true,
}

// boolProps are the properties Bool decodes.
var boolProps = map[Property]bool{
	PropTopModule:      true,
	PropCellInstance:   true,
	PropScalar:         true,
	PropVector:         true,
	PropArray:          true,
	PropUserDefn:       true,
	PropAutomatic:      true,
	PropConstantSelect: true,
	PropSigned:         true,
	PropLocalParam:     true,
}

// Str returns a string property. It reports false for a null handle, a
// property without a string form, a NULL result, or text that is not
// valid UTF-8.
func (h Handle) Str(p Property) (string, bool) {
	if h.IsNull() || !stringProps[p] {
		return "", false
	}
	b := h.sim.native.GetStr(int32(p), h.raw)
	if b == nil {
		return "", false
	}
	if !utf8.Valid(b) {
		h.sim.log.Debug("string property rejected",
			zap.Int32("property", int32(p)),
			zap.Error(errors.InvalidUTF8(errors.PhaseDecode, "vpi_get_str", b)))
		return "", false
	}
	return string(b), true
}

// Bool returns a boolean property.
func (h Handle) Bool(p Property) (bool, bool) {
	if h.IsNull() || !boolProps[p] {
		return false, false
	}
	return h.sim.native.Get(int32(p), h.raw) != 0, true
}

// Int returns an integer property as reported by the simulator.
func (h Handle) Int(p Property) (int32, bool) {
	if h.IsNull() {
		return 0, false
	}
	return h.sim.native.Get(int32(p), h.raw), true
}

// ObjectType returns the object's type code.
func (h Handle) ObjectType() (ObjectType, bool) {
	if h.IsNull() {
		return 0, false
	}
	t := h.sim.native.Get(abi.PropType, h.raw)
	if t <= 0 {
		return 0, false
	}
	return ObjectType(t), true
}

// Direction returns a port or I/O declaration direction.
func (h Handle) Direction() (Direction, bool) {
	if h.IsNull() {
		return 0, false
	}
	d := Direction(h.sim.native.Get(abi.PropDirection, h.raw))
	if _, ok := directionNames[d]; !ok {
		return 0, false
	}
	return d, true
}

// NetType returns a net's subtype.
func (h Handle) NetType() (NetType, bool) {
	if h.IsNull() {
		return 0, false
	}
	n := NetType(h.sim.native.Get(abi.PropNetType, h.raw))
	if _, ok := netTypeNames[n]; !ok {
		return 0, false
	}
	return n, true
}

// ObjectType is a vpiType code. It is also the kind argument to Iterate.
type ObjectType int32

const (
	ObjAlways        = ObjectType(abi.ObjAlways)
	ObjConstant      = ObjectType(abi.ObjConstant)
	ObjContAssign    = ObjectType(abi.ObjContAssign)
	ObjFunction      = ObjectType(abi.ObjFunction)
	ObjGate          = ObjectType(abi.ObjGate)
	ObjInitial       = ObjectType(abi.ObjInitial)
	ObjIntegerVar    = ObjectType(abi.ObjIntegerVar)
	ObjIterator      = ObjectType(abi.ObjIterator)
	ObjIODecl        = ObjectType(abi.ObjIODecl)
	ObjMemory        = ObjectType(abi.ObjMemory)
	ObjMemoryWord    = ObjectType(abi.ObjMemoryWord)
	ObjModule        = ObjectType(abi.ObjModule)
	ObjNamedBegin    = ObjectType(abi.ObjNamedBegin)
	ObjNamedEvent    = ObjectType(abi.ObjNamedEvent)
	ObjNet           = ObjectType(abi.ObjNet)
	ObjNetBit        = ObjectType(abi.ObjNetBit)
	ObjParameter     = ObjectType(abi.ObjParameter)
	ObjPartSelect    = ObjectType(abi.ObjPartSelect)
	ObjPort          = ObjectType(abi.ObjPort)
	ObjRealVar       = ObjectType(abi.ObjRealVar)
	ObjReg           = ObjectType(abi.ObjReg)
	ObjRegBit        = ObjectType(abi.ObjRegBit)
	ObjSysFuncCall   = ObjectType(abi.ObjSysFuncCall)
	ObjSysTaskCall   = ObjectType(abi.ObjSysTaskCall)
	ObjTask          = ObjectType(abi.ObjTask)
	ObjTimeVar       = ObjectType(abi.ObjTimeVar)
	ObjBitSelect     = ObjectType(abi.ObjBitSelect)
	ObjCallback      = ObjectType(abi.ObjCallback)
	ObjNetArray      = ObjectType(abi.ObjNetArray)
	ObjRegArray      = ObjectType(abi.ObjRegArray)
	ObjGenScopeArray = ObjectType(abi.ObjGenScopeArray)
	ObjGenScope      = ObjectType(abi.ObjGenScope)
)

var objectTypeNames = map[ObjectType]string{
	ObjAlways:        "vpiAlways",
	ObjConstant:      "vpiConstant",
	ObjContAssign:    "vpiContAssign",
	ObjFunction:      "vpiFunction",
	ObjGate:          "vpiGate",
	ObjInitial:       "vpiInitial",
	ObjIntegerVar:    "vpiIntegerVar",
	ObjIterator:      "vpiIterator",
	ObjIODecl:        "vpiIODecl",
	ObjMemory:        "vpiMemory",
	ObjMemoryWord:    "vpiMemoryWord",
	ObjModule:        "vpiModule",
	ObjNamedBegin:    "vpiNamedBegin",
	ObjNamedEvent:    "vpiNamedEvent",
	ObjNet:           "vpiNet",
	ObjNetBit:        "vpiNetBit",
	ObjParameter:     "vpiParameter",
	ObjPartSelect:    "vpiPartSelect",
	ObjPort:          "vpiPort",
	ObjRealVar:       "vpiRealVar",
	ObjReg:           "vpiReg",
	ObjRegBit:        "vpiRegBit",
	ObjSysFuncCall:   "vpiSysFuncCall",
	ObjSysTaskCall:   "vpiSysTaskCall",
	ObjTask:          "vpiTask",
	ObjTimeVar:       "vpiTimeVar",
	ObjBitSelect:     "vpiBitSelect",
	ObjCallback:      "vpiCallback",
	ObjNetArray:      "vpiNetArray",
	ObjRegArray:      "vpiRegArray",
	ObjGenScopeArray: "vpiGenScopeArray",
	ObjGenScope:      "vpiGenScope",
}

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "vpiObject(" + strconv.Itoa(int(t)) + ")"
}

// Direction is a port direction.
type Direction int32

const (
	DirInput       = Direction(abi.DirInput)
	DirOutput      = Direction(abi.DirOutput)
	DirInout       = Direction(abi.DirInout)
	DirMixedIO     = Direction(abi.DirMixedIO)
	DirNoDirection = Direction(abi.DirNoDirection)
)

var directionNames = map[Direction]string{
	DirInput:       "input",
	DirOutput:      "output",
	DirInout:       "inout",
	DirMixedIO:     "mixed",
	DirNoDirection: "none",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

// NetType is a net subtype.
type NetType int32

const (
	NetWire    = NetType(abi.NetWire)
	NetWand    = NetType(abi.NetWand)
	NetWor     = NetType(abi.NetWor)
	NetTri     = NetType(abi.NetTri)
	NetTri0    = NetType(abi.NetTri0)
	NetTri1    = NetType(abi.NetTri1)
	NetTriReg  = NetType(abi.NetTriReg)
	NetTriAnd  = NetType(abi.NetTriAnd)
	NetTriOr   = NetType(abi.NetTriOr)
	NetSupply1 = NetType(abi.NetSupply1)
	NetSupply0 = NetType(abi.NetSupply0)
	NetNone    = NetType(abi.NetNone)
	NetUwire   = NetType(abi.NetUwire)
)

var netTypeNames = map[NetType]string{
	NetWire:    "wire",
	NetWand:    "wand",
	NetWor:     "wor",
	NetTri:     "tri",
	NetTri0:    "tri0",
	NetTri1:    "tri1",
	NetTriReg:  "trireg",
	NetTriAnd:  "triand",
	NetTriOr:   "trior",
	NetSupply1: "supply1",
	NetSupply0: "supply0",
	NetNone:    "none",
	NetUwire:   "uwire",
}

func (n NetType) String() string {
	if name, ok := netTypeNames[n]; ok {
		return name
	}
	return "unknown"
}
