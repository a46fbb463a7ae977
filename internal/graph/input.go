package graph

// The code in this file represents data that passes from the scan phase to
// the link phase of the bundler. Input files are never modified after the
// scan phase; the linker clones whatever it needs to change.

import (
	"github.com/esmlink/esmlink/internal/js_ast"
	"github.com/esmlink/esmlink/internal/logger"
)

type InputFile struct {
	Source logger.Source
	AST    js_ast.AST
}

type OutputFile struct {
	AbsPath  string
	Contents []byte
}
