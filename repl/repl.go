// Package repl is an interactive Morph shell. Declarations are loaded as
// they are entered; anything else runs as statements in a persistent global
// scope.
package repl

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/morph-lang/morph/ast"
	"github.com/morph-lang/morph/errors"
	"github.com/morph-lang/morph/interpreter"
	"github.com/morph-lang/morph/lexer"
	"github.com/morph-lang/morph/parser"
	"github.com/morph-lang/morph/types"
	"github.com/morph-lang/morph/value"
	"github.com/peterh/liner"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/morph-lang/morph", "repl")

const (
	prompt       = "morph> "
	continuation = "  ...> "
	historyFile  = ".morph_history"
)

// Session holds the state shared by every input of one shell.
type Session struct {
	in *interpreter.Interpreter
}

func NewSession(out io.Writer) *Session {
	return &Session{in: interpreter.New(interpreter.WithOutput(out))}
}

func isDeclaration(source string) bool {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return false
	}
	for _, tok := range toks {
		switch tok.Kind {
		case types.NEWLINE, types.COMMENT:
			continue
		case types.PROTO, types.SOLID, types.TYPE, types.SOLVE, types.IMPORT:
			return true
		}
		return false
	}
	return false
}

// incomplete reports whether source stopped mid-construct, so that more
// lines could complete it.
func incomplete(source string, err error) bool {
	switch e := tracerr.Unwrap(err).(type) {
	case errors.UnterminatedString:
		return true
	case errors.ExpectedOneOfKindGotKind:
		if e.Got.Kind == types.EOF {
			return true
		}
	}

	toks, lexErr := lexer.Tokenize(source)
	if lexErr != nil {
		return false
	}
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case types.LPAREN, types.LBRACE, types.LBRACKET:
			depth++
		case types.RPAREN, types.RBRACE, types.RBRACKET:
			depth--
		}
	}
	return depth > 0
}

// parse turns one input into either declarations or statements.
func parse(source string) (*ast.Module, []ast.Statement, error) {
	if isDeclaration(source) {
		m, err := parser.ParseString(source)
		return m, nil, err
	}

	m, err := parser.ParseString("proto __repl() {\n" + source + "\n}")
	if err != nil {
		return nil, nil, err
	}
	return nil, m.Functions()[0].Body, nil
}

// Eval runs one complete input. Declarations are loaded and evaluate to
// Unit.
func (s *Session) Eval(source string) (value.Value, error) {
	m, stmts, err := parse(source)
	if err != nil {
		return nil, err
	}

	if m != nil {
		s.in.Load(m)
		plog.Debugf("loaded %d declarations", len(m.Declarations))
		return value.Unit{}, nil
	}

	return s.in.Eval(stmts)
}

// read collects lines until they form a complete input. It reports false at
// end of input.
func read(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = continuation
		}
		line, err := ln.Prompt(p)
		if stderrors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, _, err := parse(src); err != nil && incomplete(src, err) {
			continue
		}
		return src, true
	}
}

// Run starts an interactive shell on the terminal, reading history from
// the user's home directory.
func Run() error {
	fmt.Println("Morph draft shell. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := NewSession(os.Stdout)
	for {
		code, ok := read(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}

		v, err := s.Eval(code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if _, ok := v.(value.Unit); !ok {
			fmt.Println(value.Format(v))
		}
	}
}
