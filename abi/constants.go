package abi

// Object type codes (vpiType property values and vpi_iterate kinds).
const (
	ObjAlways         int32 = 1
	ObjAssignStmt     int32 = 2
	ObjAssignment     int32 = 3
	ObjBegin          int32 = 4
	ObjConstant       int32 = 7
	ObjContAssign     int32 = 8
	ObjFunction       int32 = 20
	ObjGate           int32 = 21
	ObjInitial        int32 = 24
	ObjIntegerVar     int32 = 25
	ObjIterator       int32 = 27
	ObjIODecl         int32 = 28
	ObjMemory         int32 = 29
	ObjMemoryWord     int32 = 30
	ObjModPath        int32 = 31
	ObjModule         int32 = 32
	ObjNamedBegin     int32 = 33
	ObjNamedEvent     int32 = 34
	ObjNamedFork      int32 = 35
	ObjNet            int32 = 36
	ObjNetBit         int32 = 37
	ObjParameter      int32 = 41
	ObjPartSelect     int32 = 42
	ObjPort           int32 = 44
	ObjPortBit        int32 = 45
	ObjRealVar        int32 = 47
	ObjReg            int32 = 48
	ObjRegBit         int32 = 49
	ObjSpecParam      int32 = 54
	ObjSysFuncCall    int32 = 56
	ObjSysTaskCall    int32 = 57
	ObjTask           int32 = 59
	ObjTimeVar        int32 = 63
	ObjUdp            int32 = 65
	ObjUdpDefn        int32 = 66
	ObjUserSystf      int32 = 67
	ObjBitSelect      int32 = 106
	ObjCallback       int32 = 107
	ObjModuleArray    int32 = 112
	ObjNetArray       int32 = 114
	ObjRange          int32 = 115
	ObjRegArray       int32 = 116
	ObjNamedEventArr  int32 = 129
	ObjIndexedPartSel int32 = 130
	ObjGenScopeArray  int32 = 133
	ObjGenScope       int32 = 134
	ObjGenVar         int32 = 135
)

// Property codes for vpi_get and vpi_get_str.
const (
	PropUndefined      int32 = -1
	PropType           int32 = 1
	PropName           int32 = 2
	PropFullName       int32 = 3
	PropSize           int32 = 4
	PropFile           int32 = 5
	PropLineNo         int32 = 6
	PropTopModule      int32 = 7
	PropCellInstance   int32 = 8
	PropDefName        int32 = 9
	PropTimeUnit       int32 = 11
	PropTimePrecision  int32 = 12
	PropDefFile        int32 = 15
	PropDefLineNo      int32 = 16
	PropScalar         int32 = 17
	PropVector         int32 = 18
	PropDirection      int32 = 20
	PropNetType        int32 = 22
	PropArray          int32 = 28
	PropPortIndex      int32 = 29
	PropPolarity       int32 = 34
	PropDataPolarity   int32 = 35
	PropEdge           int32 = 36
	PropTchkType       int32 = 38
	PropConstType      int32 = 40
	PropFuncType       int32 = 44
	PropUserDefn       int32 = 45
	PropAutomatic      int32 = 50
	PropConstantSelect int32 = 53
	PropSigned         int32 = 65
	PropLocalParam     int32 = 70
)

// Port directions.
const (
	DirInput       int32 = 1
	DirOutput      int32 = 2
	DirInout       int32 = 3
	DirMixedIO     int32 = 4
	DirNoDirection int32 = 5
)

// Net types.
const (
	NetWire    int32 = 1
	NetWand    int32 = 2
	NetWor     int32 = 3
	NetTri     int32 = 4
	NetTri0    int32 = 5
	NetTri1    int32 = 6
	NetTriReg  int32 = 7
	NetTriAnd  int32 = 8
	NetTriOr   int32 = 9
	NetSupply1 int32 = 10
	NetSupply0 int32 = 11
	NetNone    int32 = 12
	NetUwire   int32 = 13
)

// Time types (s_vpi_time.type).
const (
	ScaledRealTime int32 = 1
	SimTime        int32 = 2
	SuppressTime   int32 = 3
)

// Value formats (s_vpi_value.format).
const (
	BinStrVal       int32 = 1
	OctStrVal       int32 = 2
	DecStrVal       int32 = 3
	HexStrVal       int32 = 4
	ScalarVal       int32 = 5
	IntVal          int32 = 6
	RealVal         int32 = 7
	StringVal       int32 = 8
	VectorVal       int32 = 9
	StrengthVal     int32 = 10
	TimeVal         int32 = 11
	ObjTypeVal      int32 = 12
	SuppressVal     int32 = 13
	ShortIntVal     int32 = 14
	LongIntVal      int32 = 15
	ShortRealVal    int32 = 16
	RawTwoStateVal  int32 = 17
	RawFourStateVal int32 = 18
)

// Scalar logic codes.
const (
	Logic0        int32 = 0
	Logic1        int32 = 1
	LogicZ        int32 = 2
	LogicX        int32 = 3
	LogicH        int32 = 4
	LogicL        int32 = 5
	LogicDontCare int32 = 6
)

// Strength bits.
const (
	SupplyDrive  int32 = 0x80
	StrongDrive  int32 = 0x40
	PullDrive    int32 = 0x20
	LargeCharge  int32 = 0x10
	WeakDrive    int32 = 0x08
	MediumCharge int32 = 0x04
	SmallCharge  int32 = 0x02
	HiZ          int32 = 0x01
)

// Delay modes and flags for vpi_put_value.
const (
	NoDelay            int32 = 1
	InertialDelay      int32 = 2
	TransportDelay     int32 = 3
	PureTransportDelay int32 = 4
	ForceFlag          int32 = 5
	ReleaseFlag        int32 = 6
	CancelEvent        int32 = 7
	ReturnEvent        int32 = 0x1000
	UserAllocFlag      int32 = 0x2000
	OneValue           int32 = 0x4000
	PropagateOff       int32 = 0x8000
)

// Callback reasons.
const (
	CbValueChange            int32 = 1
	CbStmt                   int32 = 2
	CbForce                  int32 = 3
	CbRelease                int32 = 4
	CbAtStartOfSimTime       int32 = 5
	CbReadWriteSynch         int32 = 6
	CbReadOnlySynch          int32 = 7
	CbNextSimTime            int32 = 8
	CbAfterDelay             int32 = 9
	CbEndOfCompile           int32 = 10
	CbStartOfSimulation      int32 = 11
	CbEndOfSimulation        int32 = 12
	CbError                  int32 = 13
	CbTchkViolation          int32 = 14
	CbStartOfSave            int32 = 15
	CbEndOfSave              int32 = 16
	CbStartOfRestart         int32 = 17
	CbEndOfRestart           int32 = 18
	CbStartOfReset           int32 = 19
	CbEndOfReset             int32 = 20
	CbEnterInteractive       int32 = 21
	CbExitInteractive        int32 = 22
	CbInteractiveScopeChange int32 = 23
	CbUnresolvedSystf        int32 = 24
	CbAtEndOfSimTime         int32 = 31
)

// Error severities and states (s_vpi_error_info.level / .state).
const (
	LevelNotice   int32 = 1
	LevelWarning  int32 = 2
	LevelError    int32 = 3
	LevelSystem   int32 = 4
	LevelInternal int32 = 5

	StateCompile int32 = 1
	StatePLI     int32 = 2
	StateRun     int32 = 3
)

// vpi_control operations.
const (
	CtlStop                int32 = 66
	CtlFinish              int32 = 67
	CtlReset               int32 = 68
	CtlSetInteractiveScope int32 = 69
)
