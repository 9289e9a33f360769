package exc

const (
	CodeUnknownFatal                  = "M0000"
	CodeFileNotFound                  = "M0001"
	CodeUnsuportedFileSystemOperation = "M0002"
	CodePermissionDenied              = "M0003"
	CodeUnsupportedFileFormat         = "M0004"
	CodeUnexpectedEOF                 = "M0005"
	CodeReadFailure                   = "M0006"
	CodeInvalidNumber                 = "M0007"
	CodeExpected                      = "M0008"
)

// Lowering failures.
const (
	CodeNoFunctions          = "M0101"
	CodeUndeclaredIdentifier = "M0102"
	CodeStatementAsValue     = "M0103"
)

// Backend adapter failures.
const (
	CodeUnknownTarget = "M0201"
	CodeEmitFailure   = "M0202"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
