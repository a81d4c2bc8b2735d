package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/multierror"
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/checker"
	"github.com/morph-lang/morph/interpreter"
	"github.com/morph-lang/morph/lexer"
	"github.com/morph-lang/morph/parser"
	"github.com/morph-lang/morph/project"
	"github.com/morph-lang/morph/repl"
	"github.com/morph-lang/morph/solid"
	"github.com/morph-lang/morph/value"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// verbose makes report print stack traces with source excerpts.
var verbose bool

// report prints err for the user. Type errors are listed one per line.
func report(err error) {
	if merr, ok := tracerr.Unwrap(err).(multierror.Error); ok {
		for _, e := range merr {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		fmt.Fprintf(os.Stderr, "%d errors\n", len(merr))
		return
	}

	if verbose {
		tracerr.PrintSourceColor(err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", tracerr.Unwrap(err))
}

func fileArg(c *cli.Context) (string, error) {
	file := c.Args().First()
	if file == "" {
		return "", tracerr.Errorf("no file provided")
	}
	return file, nil
}

func load(c *cli.Context) (*ast.Module, error) {
	file, err := fileArg(c)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}

	plog.Debugf("parsing %s", file)
	return parser.ParseString(string(data))
}

func runCommand(c *cli.Context) error {
	if c.Bool("verbose") {
		verbose = true
		setupLogging(true)
	}

	m, err := load(c)
	if err != nil {
		return err
	}

	if c.Bool("check") {
		if err := checker.Check(m); err != nil {
			return err
		}
	}

	v, err := interpreter.Interpret(m)
	if err != nil {
		return err
	}
	if _, ok := v.(value.Unit); !ok {
		fmt.Println(value.Format(v))
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	m, err := load(c)
	if err != nil {
		return err
	}
	if err := checker.Check(m); err != nil {
		return err
	}

	fmt.Println("no type errors")
	return nil
}

func tokenizeCommand(c *cli.Context) error {
	file, err := fileArg(c)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return tracerr.Wrap(err)
	}

	toks, err := lexer.Tokenize(string(data))
	if err != nil {
		return err
	}
	for _, tok := range toks {
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Line(), tok.Column(), tok.Kind, tok.Lexeme)
	}
	return nil
}

func parseCommand(c *cli.Context) error {
	m, err := load(c)
	if err != nil {
		return err
	}

	repr.Println(m)
	return nil
}

func hardenCommand(c *cli.Context) error {
	m, err := load(c)
	if err != nil {
		return err
	}

	mod, err := solid.Harden(m)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out == "" {
		fmt.Print(mod.String())
		return nil
	}
	return tracerr.Wrap(os.WriteFile(out, []byte(mod.String()), 0644))
}

// stages counts a module's declarations by kind.
type stages struct {
	proto, solid, solves, types, imports int
}

func count(m *ast.Module) stages {
	var s stages
	for _, decl := range m.Declarations {
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			if d.Mode == ast.Solid {
				s.solid++
			} else {
				s.proto++
			}
		case *ast.SolveBlock:
			s.solves++
		case *ast.TypeDecl:
			s.types++
		case *ast.Import:
			s.imports++
		}
	}
	return s
}

func statusCommand(c *cli.Context) error {
	m, err := load(c)
	if err != nil {
		return err
	}

	s := count(m)
	fmt.Printf("proto functions: %d\n", s.proto)
	fmt.Printf("solid functions: %d\n", s.solid)
	fmt.Printf("solve blocks:    %d\n", s.solves)
	fmt.Printf("types:           %d\n", s.types)
	fmt.Printf("imports:         %d\n", s.imports)

	if total := s.proto + s.solid; total > 0 {
		fmt.Printf("hardened:        %d%%\n", s.solid*100/total)
	}
	for _, fn := range m.Functions() {
		fmt.Printf("  %s\n", fn.Signature())
	}
	return nil
}

func initCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		wd, err := os.Getwd()
		if err != nil {
			return tracerr.Wrap(err)
		}
		name = filepath.Base(wd)
	}

	file := project.YAMLFile
	if c.Bool("toml") {
		file = project.TOMLFile
	}
	if _, err := project.Load("."); err == nil {
		return tracerr.Errorf("a project manifest already exists here")
	}

	m := project.Default(name)
	if err := m.Save(".", file); err != nil {
		return err
	}

	fmt.Printf("created %s for package %s\n", file, m.Package)
	return nil
}

func buildCommand(c *cli.Context) error {
	dir, ok := project.Find(".")
	if !ok {
		return tracerr.Errorf("not inside a Morph project (no %s or %s found)", project.YAMLFile, project.TOMLFile)
	}
	manifest, err := project.Load(dir)
	if err != nil {
		return err
	}
	files, err := manifest.SourceFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return tracerr.Errorf("no sources match %s", strings.Join(manifest.Sources, ", "))
	}

	var errs multierror.Error
	module := &ast.Module{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return tracerr.Wrap(err)
		}
		m, err := parser.ParseString(string(data))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s", file, tracerr.Unwrap(err)))
			continue
		}
		module.Declarations = append(module.Declarations, m.Declarations...)
	}
	if len(errs) > 0 {
		return errs
	}

	if err := checker.Check(module); err != nil {
		return err
	}

	if manifest.Stage == project.Solid {
		mod, err := solid.Harden(module)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, manifest.Package+".ll")
		if err := os.WriteFile(out, []byte(mod.String()), 0644); err != nil {
			return tracerr.Wrap(err)
		}
		fmt.Printf("wrote %s\n", out)
	}

	fmt.Printf("built %s: %d files\n", manifest.Package, len(files))
	return nil
}

func replCommand() error {
	return repl.Run()
}
