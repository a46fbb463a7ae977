package runtime

import "github.com/esmlink/esmlink/internal/logger"

// The runtime is linked into every bundle as source index 0. Its top-level
// functions are looked up by name and called from linker-generated code:
//
//   __referenceError   reference to an import with no matching export
//   __assignError      assignment to an import binding
//   __tdzError         namespace access before the module has evaluated
//   __createNamespace  null-prototype namespace object
//   __defineExports    install one enumerable getter per export
//   __tagModule        Symbol.toStringTag = "Module"
//   __freeze           Object.freeze
//
// Helpers the bundle doesn't call are removed by dead code elimination, so
// helpers must not reference each other.
const Code = `
	function __referenceError(name) {
		throw new ReferenceError(name + " is not defined")
	}

	function __assignError(name, value) {
		throw new TypeError("Assignment to constant variable \"" + name + "\"")
	}

	function __tdzError(name) {
		throw new ReferenceError("Cannot access \"" + name + "\" before initialization")
	}

	function __createNamespace() {
		return Object.create(null)
	}

	function __defineExports(target, getters) {
		for (var key in getters)
			Object.defineProperty(target, key, { get: getters[key], enumerable: true })
		return target
	}

	function __tagModule(target) {
		return Object.defineProperty(target, Symbol.toStringTag, { value: "Module" })
	}

	function __freeze(target) {
		return Object.freeze(target)
	}
`

const SourceIndex = 0

var Source = logger.Source{
	Index:          SourceIndex,
	KeyPath:        logger.Path{Text: "<runtime>", Namespace: "runtime"},
	PrettyPath:     "<runtime>",
	IdentifierName: "runtime",
	Contents:       Code,
}

// Names of the helpers, in the order they are declared.
var Helpers = []string{
	"__referenceError",
	"__assignError",
	"__tdzError",
	"__createNamespace",
	"__defineExports",
	"__tagModule",
	"__freeze",
}
