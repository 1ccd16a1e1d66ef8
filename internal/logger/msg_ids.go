package logger

// Most non-error log messages are given a message ID that can be used to set
// the log level for that message. Errors do not get a message ID because you
// cannot turn errors into non-errors (otherwise the transform would
// incorrectly succeed).
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// Lowering
	MsgID_TS_ElidedDeclaration
	MsgID_TS_ConstEnumInlined
	MsgID_TS_UnusedImportElided

	// Usage inference
	MsgID_Infer_Cancelled
	MsgID_Infer_FallbackToAny
	MsgID_Infer_AmbiguousBuiltin

	// Options
	MsgID_Options_UnknownOption
	MsgID_Options_InvalidTarget

	MsgID_END // Keep this at the end (used only for tests)
)

func StringToMsgIDs(str string, logLevel LogLevel, overrides map[MsgID]LogLevel) {
	switch str {
	case "elided-declaration":
		overrides[MsgID_TS_ElidedDeclaration] = logLevel
	case "const-enum-inlined":
		overrides[MsgID_TS_ConstEnumInlined] = logLevel
	case "unused-import-elided":
		overrides[MsgID_TS_UnusedImportElided] = logLevel

	case "inference-cancelled":
		overrides[MsgID_Infer_Cancelled] = logLevel
	case "inference-fallback-to-any":
		overrides[MsgID_Infer_FallbackToAny] = logLevel
	case "inference-ambiguous-builtin":
		overrides[MsgID_Infer_AmbiguousBuiltin] = logLevel

	case "options":
		overrides[MsgID_Options_UnknownOption] = logLevel
		overrides[MsgID_Options_InvalidTarget] = logLevel
	case "unknown-option":
		overrides[MsgID_Options_UnknownOption] = logLevel
	case "invalid-target":
		overrides[MsgID_Options_InvalidTarget] = logLevel
	}
}

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_TS_ElidedDeclaration:
		return "elided-declaration"
	case MsgID_TS_ConstEnumInlined:
		return "const-enum-inlined"
	case MsgID_TS_UnusedImportElided:
		return "unused-import-elided"

	case MsgID_Infer_Cancelled:
		return "inference-cancelled"
	case MsgID_Infer_FallbackToAny:
		return "inference-fallback-to-any"
	case MsgID_Infer_AmbiguousBuiltin:
		return "inference-ambiguous-builtin"

	case MsgID_Options_UnknownOption:
		return "unknown-option"
	case MsgID_Options_InvalidTarget:
		return "invalid-target"
	}

	return ""
}

func StringToLogLevel(str string) (LogLevel, bool) {
	switch str {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	case "silent":
		return LevelSilent, true
	}
	return LevelNone, false
}
