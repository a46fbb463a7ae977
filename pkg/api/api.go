package api

type Format uint8

const (
	FormatDefault Format = iota
	FormatIIFE
	FormatCommonJS
	FormatESModule
)

type DangerLevel uint8

const (
	DangerSafe DangerLevel = iota
	DangerBalanced
	DangerDangerous
)

type UnresolvedImports uint8

const (
	UnresolvedImportsError UnresolvedImports = iota
	UnresolvedImportsUndefined
	UnresolvedImportsThrow
	UnresolvedImportsPassthrough
)

type Exports uint8

const (
	ExportsExplicit Exports = iota
	ExportsAllTopLevel
	ExportsNone
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	// A short name for the problem, e.g. "unresolved-import". Empty for syntax
	// errors and I/O errors.
	ID       string
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

////////////////////////////////////////////////////////////////////////////////
// Build API

type BuildOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	EntryPoint string

	// Without an output file the bundle is returned but never written
	Outfile string
	Write   bool

	Format     Format
	GlobalName string

	DangerLevel       DangerLevel
	UnresolvedImports UnresolvedImports
	Exports           Exports

	ForbidCircularDependencies bool
	FatalImportAssignment      bool
	RejectImportAssignment     bool
	PlainNamespaceObjects      bool
	DisableTreeShaking         bool
	ReportConformanceErrors    bool
	MinifyWhitespace           bool
}

type BuildResult struct {
	Errors   []Message
	Warnings []Message

	OutputFiles []OutputFile
}

type OutputFile struct {
	Path     string
	Contents []byte
}

func Build(options BuildOptions) BuildResult {
	return buildImpl(options, nil)
}

////////////////////////////////////////////////////////////////////////////////
// Graph API

// What linking decided for each module: when it runs, what it exports and
// which top-level names had to change. Nothing is written.
type GraphResult struct {
	Errors   []Message
	Warnings []Message

	// Modules in evaluation order
	Modules []GraphModule
	Renames []GraphRename

	// The same information as JSON
	JSON string
}

type GraphModule struct {
	Path string

	// Modules in the same strongly connected group import each other and run
	// as one unit
	Group    int
	IsCyclic bool
	Exports  []GraphExport
}

type GraphExport struct {
	Name string

	// "path: name" for a variable and "path: *" for a namespace object.
	// Empty when the name is ambiguous.
	Target    string
	FinalName string
	FromStar  bool
	Ambiguous bool
}

type GraphRename struct {
	Path string
	From string
	To   string
}

func Graph(options BuildOptions) GraphResult {
	return graphImpl(options, nil)
}
