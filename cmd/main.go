package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/codegen"
	"github.com/kievzenit/tinybasic/internal/compiler"
	"github.com/kievzenit/tinybasic/internal/compiler_errors"
	"github.com/kievzenit/tinybasic/internal/config"
	"github.com/kievzenit/tinybasic/internal/graph"
	"github.com/kievzenit/tinybasic/internal/lexer"
)

func main() {
	cfg := config.FromEnv()

	flag.StringVar(&cfg.Output, "o", cfg.Output, "output file or directory (default: next to the input)")
	flag.StringVar(&cfg.Patterns, "r", cfg.Patterns, "token pattern file with 'KIND: REGEX' lines")
	flag.StringVar(&cfg.Graph, "g", cfg.Graph, "write a Graphviz description of the syntax tree to this file or directory")
	flag.StringVar(&cfg.Emit, "emit", cfg.Emit, "output format: nasm or llvm")
	flag.StringVar(&cfg.HelpersInclude, "helpers", cfg.HelpersInclude, "%include conversion routines from this file instead of inlining them")
	noFold := flag.Bool("no-fold", !cfg.Fold, "disable constant folding")
	flag.BoolVar(&cfg.Comments, "comments", cfg.Comments, "annotate assembly with source statements")
	flag.BoolVar(&cfg.DumpAST, "dump-ast", cfg.DumpAST, "print the syntax tree")
	flag.BoolVar(&cfg.Tokens, "t", cfg.Tokens, "print the token stream")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "report written files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <source.bas>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.Fold = !*noFold

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	eh := compiler_errors.NewErrorHandler(os.Stderr)
	if err := run(cfg, flag.Arg(0)); err != nil {
		eh.AddGoError(err)
		eh.FailNow()
	}
}

func run(cfg config.Config, input string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	source, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	opts, err := compiler.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.Tokens {
		tokens, err := lexer.NewLexer(input, source, opts.Patterns).Tokenize()
		if err != nil {
			return err
		}
		for _, token := range tokens {
			fmt.Println(token.String())
		}
	}

	result, err := compiler.Compile(input, source, opts)
	if err != nil {
		return err
	}

	if cfg.DumpAST {
		fmt.Println(ast.Dump(result.Folded))
	}

	if cfg.Graph != "" {
		path := compiler.OutputPath(input, cfg.Graph, ".gv", isDir)
		if err := writeFile(cfg, path, graph.Build(result.Program).String()); err != nil {
			return err
		}
	}

	outputPath := compiler.OutputPath(input, cfg.Output, cfg.Extension(), isDir)
	if err := writeFile(cfg, outputPath, result.Output); err != nil {
		return err
	}

	if cfg.Emit == config.EmitNASM && cfg.HelpersInclude != "" {
		path := cfg.HelpersInclude
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(outputPath), path)
		}
		return writeHelperLibrary(cfg, path)
	}

	return nil
}

// writeHelperLibrary puts the conversion routines next to the output unless
// the file already exists.
func writeHelperLibrary(cfg config.Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return writeFile(cfg, path, codegen.HelperLibrary())
}

func writeFile(cfg config.Config, path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
