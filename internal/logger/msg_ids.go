package logger

// Every message the linker can produce has an ID so callers can tell them
// apart without matching on text. Parse errors use "MsgID_None".
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// Loading
	MsgID_Load_CouldNotResolve
	MsgID_Load_CouldNotRead

	// Linking
	MsgID_Link_UnresolvedImport
	MsgID_Link_AmbiguousImport
	MsgID_Link_UnresolvedReExport
	MsgID_Link_ImportAssignment
	MsgID_Link_CircularDependency
	MsgID_Link_UnreachableModule
	MsgID_Link_SchedulerInvariant

	MsgID_END // Keep this last
)

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_Load_CouldNotResolve:
		return "could-not-resolve"
	case MsgID_Load_CouldNotRead:
		return "could-not-read"

	case MsgID_Link_UnresolvedImport:
		return "unresolved-import"
	case MsgID_Link_AmbiguousImport:
		return "ambiguous-import"
	case MsgID_Link_UnresolvedReExport:
		return "unresolved-re-export"
	case MsgID_Link_ImportAssignment:
		return "import-assignment"
	case MsgID_Link_CircularDependency:
		return "circular-dependency"
	case MsgID_Link_UnreachableModule:
		return "unreachable-module"
	case MsgID_Link_SchedulerInvariant:
		return "scheduler-invariant"
	}
	return ""
}

func StringToMsgID(str string) (MsgID, bool) {
	for id := MsgID_None + 1; id < MsgID_END; id++ {
		if MsgIDToString(id) == str {
			return id, true
		}
	}
	return MsgID_None, false
}
