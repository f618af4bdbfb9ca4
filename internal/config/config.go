package config

import (
	"fmt"

	"github.com/xyproto/env/v2"
)

const (
	EmitNASM = "nasm"
	EmitLLVM = "llvm"
)

type Config struct {
	Output   string
	Patterns string
	Graph    string
	Emit     string

	// HelpersInclude makes the assembly %include the conversion routines
	// from this path instead of inlining them.
	HelpersInclude string

	Fold     bool
	Comments bool
	DumpAST  bool
	Tokens   bool
	Verbose  bool
}

func Default() Config {
	return Config{
		Emit: EmitNASM,
		Fold: true,
	}
}

// FromEnv overlays TINYBASIC_* environment variables on the defaults.
// The environment is read again on every call.
func FromEnv() Config {
	env.Load()
	cfg := Default()

	cfg.Output = env.Str("TINYBASIC_OUTPUT")
	cfg.Patterns = env.Str("TINYBASIC_PATTERNS")
	cfg.Graph = env.Str("TINYBASIC_GRAPH")
	cfg.Emit = env.Str("TINYBASIC_EMIT", cfg.Emit)
	cfg.HelpersInclude = env.Str("TINYBASIC_HELPERS")

	cfg.Fold = !env.Bool("TINYBASIC_NO_FOLD")
	cfg.Comments = env.Bool("TINYBASIC_COMMENTS")
	cfg.DumpAST = env.Bool("TINYBASIC_DUMP_AST")
	cfg.Tokens = env.Bool("TINYBASIC_TOKENS")
	cfg.Verbose = env.Bool("TINYBASIC_VERBOSE")

	return cfg
}

type InvalidEmitTargetError struct {
	Emit string
}

func (e *InvalidEmitTargetError) GetMessage() string {
	return fmt.Sprintf("unknown emit target '%s', expected '%s' or '%s'", e.Emit, EmitNASM, EmitLLVM)
}

func (e *InvalidEmitTargetError) Error() string {
	return e.GetMessage()
}

func (c Config) Validate() error {
	switch c.Emit {
	case EmitNASM, EmitLLVM:
		return nil
	}

	return &InvalidEmitTargetError{Emit: c.Emit}
}

// Extension is the output file extension for the selected target.
func (c Config) Extension() string {
	if c.Emit == EmitLLVM {
		return ".ll"
	}
	return ".asm"
}
