// Package compiler wires the stages together: lexing, parsing, semantic
// validation, constant folding and code generation.
package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/codegen"
	"github.com/kievzenit/tinybasic/internal/config"
	"github.com/kievzenit/tinybasic/internal/emitter"
	"github.com/kievzenit/tinybasic/internal/lexer"
	"github.com/kievzenit/tinybasic/internal/optimizer"
	"github.com/kievzenit/tinybasic/internal/parser"
	"github.com/kievzenit/tinybasic/internal/semantic_analyzer"
)

type Options struct {
	// Patterns overrides the built-in token recognition rules.
	Patterns *lexer.PatternTable

	Fold bool
	Emit string

	Codegen codegen.Options
}

func DefaultOptions() Options {
	return Options{
		Fold: true,
		Emit: config.EmitNASM,
	}
}

// OptionsFromConfig translates CLI configuration into pipeline options.
// The pattern table is loaded here when a pattern file is configured.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	opts := Options{
		Fold: cfg.Fold,
		Emit: cfg.Emit,
		Codegen: codegen.Options{
			HelpersInclude: cfg.HelpersInclude,
			Comments:       cfg.Comments,
		},
	}

	if cfg.Patterns != "" {
		patterns, err := lexer.LoadPatternsFile(cfg.Patterns)
		if err != nil {
			return Options{}, err
		}
		opts.Patterns = patterns
	}

	return opts, nil
}

// Result carries every intermediate product of a compilation.
type Result struct {
	Tokens  []lexer.Token
	Program *ast.Program
	Folded  *ast.Program
	Output  string
}

// Frontend runs lexing, parsing and semantic validation.
func Frontend(fileName string, source []byte, opts Options) (*Result, error) {
	tokens, err := lexer.NewLexer(fileName, source, opts.Patterns).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("lexer: %w", err)
	}

	program, err := parser.Parse(fileName, ProgramName(fileName), tokens)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	if _, err := semantic_analyzer.Validate(fileName, program); err != nil {
		return nil, fmt.Errorf("semantic analysis: %w", err)
	}

	return &Result{
		Tokens:  tokens,
		Program: program,
		Folded:  program,
	}, nil
}

// Compile runs the whole pipeline and fills Result.Output with assembly or
// LLVM IR, depending on opts.Emit.
func Compile(fileName string, source []byte, opts Options) (*Result, error) {
	result, err := Frontend(fileName, source, opts)
	if err != nil {
		return nil, err
	}

	if opts.Fold {
		result.Folded, err = optimizer.FoldProgram(result.Program)
		if err != nil {
			return nil, fmt.Errorf("constant folding: %w", err)
		}
	}

	switch opts.Emit {
	case config.EmitLLVM:
		result.Output, err = emitter.EmitIR(result.Folded)
	case config.EmitNASM, "":
		result.Output, err = codegen.NewGenerator(opts.Codegen).Generate(result.Folded)
	default:
		err = &config.InvalidEmitTargetError{Emit: opts.Emit}
	}
	if err != nil {
		return nil, fmt.Errorf("code generation: %w", err)
	}

	return result, nil
}

// ProgramName derives the program name from a file path: base name without
// extension.
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath resolves where the compiled output of input goes. An empty
// output selects the input's directory; a trailing separator or an existing
// directory places the file inside it.
func OutputPath(input, output, extension string, isDir func(string) bool) string {
	name := ProgramName(input) + extension

	if output == "" {
		return filepath.Join(filepath.Dir(input), name)
	}

	if strings.HasSuffix(output, string(filepath.Separator)) || isDir(output) {
		return filepath.Join(output, name)
	}

	return output
}
