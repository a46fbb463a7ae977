package config

import (
	"fmt"

	"github.com/esmlink/esmlink/internal/helpers"
)

// What to do when an import names something the target module doesn't
// export (or exports ambiguously through several "export *" statements).
type UnresolvedImportStrategy uint8

const (
	// The whole link fails with an error
	UnresolvedImportError UnresolvedImportStrategy = iota

	// Every reference to the import becomes "void 0"
	UnresolvedImportUndefined

	// Every reference to the import throws a ReferenceError when evaluated
	UnresolvedImportThrow

	// References are left alone and resolve to whatever the name means in the
	// enclosing scope of the bundle
	UnresolvedImportPassthrough
)

// Which bindings of the entry module the bundle exposes.
type ExportStrategy uint8

const (
	ExportsExplicit ExportStrategy = iota

	// Every top-level declaration of the entry module is exported under its
	// own name, in addition to the explicit exports
	ExportsAllTopLevel

	ExportsNone
)

// Trades fidelity to ES module semantics for smaller output.
//
//	           TDZ checks   namespace tag   frozen namespace   read-only imports
//	SAFE       yes          yes             yes                yes
//	BALANCED   no           no              yes                yes
//	DANGEROUS  no           no              no                 only if requested
type DangerLevel uint8

const (
	DangerSafe DangerLevel = iota
	DangerBalanced
	DangerDangerous
)

type Format uint8

const (
	// IIFE stands for immediately-invoked function expression:
	//
	//   (function() {
	//     ... bundled code ...
	//   })();
	//
	// With a global name the entry module's namespace is returned:
	//
	//   var name = function() {
	//     ... bundled code ...
	//     return exports;
	//   }();
	//
	FormatIIFE Format = iota

	// The ES module format looks like this:
	//
	//   ... bundled code ...
	//   export {...};
	//
	FormatESModule

	// The CommonJS format looks like this:
	//
	//   ... bundled code ...
	//   module.exports = exports;
	//
	FormatCommonJS
)

type Options struct {
	UnresolvedImports UnresolvedImportStrategy
	ExportStrategy    ExportStrategy
	DangerLevel       DangerLevel

	ForbidCircularDependencies bool

	// Assigning to an import fails the link instead of compiling to a throw
	FatalImportAssignment bool

	// Keep rejecting assignments to imports even at DangerDangerous
	RejectImportAssignment bool

	// Namespace objects are ordinary objects: no null prototype, no
	// Symbol.toStringTag and never frozen
	PlainNamespaceObjects bool

	OutputFormat Format
	GlobalName   string

	// Where the bundle will be written. Empty means standard output.
	AbsOutputFile string

	SkipDeadCodeElimination bool

	// Report the conformance problems that were compiled into throwing code
	// (unresolved imports, assignments to imports) as warnings
	ReportConformanceErrors bool

	MinifyWhitespace    bool
	OmitRuntimeForTests bool
}

func (level DangerLevel) ChecksTDZ() bool {
	return level == DangerSafe
}

func (level DangerLevel) TagsNamespaces() bool {
	return level == DangerSafe
}

func (level DangerLevel) FreezesNamespaces() bool {
	return level != DangerDangerous
}

func (options *Options) RejectsImportAssignment() bool {
	return options.DangerLevel != DangerDangerous || options.RejectImportAssignment || options.FatalImportAssignment
}

func (options *Options) ExportsObject() bool {
	if options.ExportStrategy == ExportsNone {
		return false
	}
	switch options.OutputFormat {
	case FormatIIFE:
		return options.GlobalName != ""
	case FormatCommonJS:
		return true
	}
	return false
}

var unresolvedImportNames = []string{"error", "undefined", "throw", "passthrough"}
var exportStrategyNames = []string{"explicit", "all", "none"}
var dangerLevelNames = []string{"safe", "balanced", "dangerous"}
var formatNames = []string{"iife", "esm", "cjs"}

func (s UnresolvedImportStrategy) String() string { return unresolvedImportNames[s] }
func (s ExportStrategy) String() string           { return exportStrategyNames[s] }
func (level DangerLevel) String() string          { return dangerLevelNames[level] }
func (f Format) String() string                   { return formatNames[f] }

func lookup(kind string, names []string, text string) (uint8, error) {
	for i, name := range names {
		if name == text {
			return uint8(i), nil
		}
	}
	if corrected, ok := helpers.MakeTypoDetector(names).MaybeCorrectTypo(text); ok {
		return 0, fmt.Errorf("invalid %s %q (did you mean %q?)", kind, text, corrected)
	}
	return 0, fmt.Errorf("invalid %s %q (valid: %v)", kind, text, names)
}

func ParseUnresolvedImportStrategy(text string) (UnresolvedImportStrategy, error) {
	value, err := lookup("unresolved import strategy", unresolvedImportNames, text)
	return UnresolvedImportStrategy(value), err
}

func ParseExportStrategy(text string) (ExportStrategy, error) {
	value, err := lookup("export strategy", exportStrategyNames, text)
	return ExportStrategy(value), err
}

func ParseDangerLevel(text string) (DangerLevel, error) {
	value, err := lookup("danger level", dangerLevelNames, text)
	return DangerLevel(value), err
}

func ParseFormat(text string) (Format, error) {
	value, err := lookup("format", formatNames, text)
	return Format(value), err
}
