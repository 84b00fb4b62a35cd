// Package driver wires the lexer, parser, and semantic analysis passes
// into a single staged pipeline, the way the teacher's main.go does, but
// factored out of main() so it can be driven by tests and by -target.
package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/llir/llvm/ir"

	"decaflang/decaf/ast"
	"decaflang/decaf/lexer"
	"decaflang/decaf/parser"
	"decaflang/decaf/scope"
	"decaflang/decaf/sema"
	"decaflang/decaf/tacgen"
)

// Result carries whatever the pipeline had built by the stage it stopped
// at. Module is nil unless Config.Target is TargetTAC.
type Result struct {
	Top    *ast.TopLevel
	Module *ir.Module
}

// Run executes the pipeline up to cfg.Target, logging each stage. It
// returns parse errors separately from semantic diagnostics since a
// parse failure means there is no tree to have diagnosed.
func Run(cfg *Config, log *Logger) (*Result, []string, []sema.Diagnostic, error) {
	log.Info("Creating lexer...")
	src, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", cfg.InputFile, err)
	}
	l := lexer.NewLexer(strings.NewReader(string(src)))

	log.Info("Parsing program...")
	p := parser.New(l)
	top := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs, nil, nil
	}
	if cfg.Target == TargetParse {
		return &Result{Top: top}, nil, nil, nil
	}

	log.Info("Resolving names...")
	sink := sema.NewSink()
	sema.NewNamer(sink).Run(top)
	if cfg.DumpScope && top.GlobalScope != nil {
		scope.PrettyPrint(os.Stdout, top.GlobalScope)
	}
	if sink.HasErrors() || cfg.Target == TargetNamer {
		return &Result{Top: top}, nil, sink.Diagnostics(), nil
	}

	log.Info("Type checking...")
	sema.NewTyper(sink, top.GlobalScope).Run(top)
	if sink.HasErrors() || cfg.Target == TargetTyper {
		return &Result{Top: top}, nil, sink.Diagnostics(), nil
	}

	log.Info("Generating declaration-level IR...")
	module := tacgen.NewStub().Generate(top)
	return &Result{Top: top, Module: module}, nil, sink.Diagnostics(), nil
}
