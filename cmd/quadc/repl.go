package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/GriffinCanCode/quadc/pkg/compile"
	"github.com/GriffinCanCode/quadc/pkg/frontend"
	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/logger"
)

const (
	historyFile = ".quadc_history"
	promptMain  = "quadc> "
	promptCont  = "...    "
)

const replHelp = `Enter mini-C declarations and statements; new quads are printed.
Commands:
  :symbols                          print every symbol table
  :quads                            print the quad array
  :tac                              print the three-address listing
  :emit <op> [arg1] [arg2] [result] append a quad ("-" leaves a slot empty)
  :patch <addr> <target>            fill the jump target of quad addr
  :reset                            start over with an empty context
  :help                             show this help
  :quit                             leave
`

func replCmd(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	var lf logFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := lf.init(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	fmt.Printf("quadc %s - type :help for commands\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(os.Stdout)
	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			if s.command(src) {
				break
			}
			continue
		}
		s.eval(src)
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readInput reads lines until every brace and parenthesis is closed
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src still has open braces or parentheses
func incomplete(src string) bool {
	lex := frontend.NewLexer(src)
	depth := 0
	for {
		tok := lex.Next()
		switch tok.Type {
		case frontend.EOF:
			return depth > 0
		case frontend.LBRACE, frontend.LPAREN:
			depth++
		case frontend.RBRACE, frontend.RPAREN:
			depth--
		case frontend.ILLEGAL:
			return tok.Lexeme == "unterminated comment"
		}
	}
}

// session is one REPL context. Every line compiles into the same context.
type session struct {
	ctx *compile.Context
	out io.Writer
}

func newSession(out io.Writer) *session {
	return &session{ctx: compile.New(), out: out}
}

func (s *session) eval(src string) {
	start := s.ctx.NextQuad()
	if err := frontend.CompileInto(s.ctx, "repl", src); err != nil {
		fmt.Fprintln(s.out, err)
	}
	s.printFrom(start)
}

func (s *session) printFrom(start int) {
	for addr := start; addr < s.ctx.NextQuad(); addr++ {
		s.printQuad(addr)
	}
}

func (s *session) printQuad(addr int) {
	if q, err := s.ctx.Code.At(addr); err == nil {
		fmt.Fprintf(s.out, "L%-3d: %s\n", addr, ir.Format(q))
	}
}

// command runs a meta command and reports whether the session should end
func (s *session) command(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	var err error
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(s.out, replHelp)
	case ":quit", ":exit":
		return true
	case ":symbols":
		err = writeSymbols(s.out, s.ctx)
	case ":quads":
		err = ir.WriteDump(s.out, s.ctx.Code)
	case ":tac":
		err = writeTAC(s.out, s.ctx.Code)
	case ":emit":
		err = s.emit(fields[1:])
	case ":patch":
		err = s.patch(fields[1:])
	case ":reset":
		s.ctx = compile.New()
		fmt.Fprintln(s.out, "context reset.")
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}

	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		logger.Debug("REPL command failed", "command", fields[0], "error", err)
	}
	return false
}

func (s *session) emit(args []string) error {
	if len(args) == 0 || len(args) > 4 {
		return errors.New("usage: :emit <op> [arg1] [arg2] [result]")
	}
	op, err := ir.ParseOp(args[0])
	if err != nil {
		return err
	}

	var slots [3]string
	for i, a := range args[1:] {
		if a != "-" {
			slots[i] = a
		}
	}
	s.printQuad(s.ctx.Emit(op, slots[0], slots[1], slots[2]))
	return nil
}

func (s *session) patch(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: :patch <addr> <target>")
	}
	addr, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad address %q", args[0])
	}
	target, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad target %q", args[1])
	}

	patched, err := s.ctx.Code.Patch(addr, target)
	if err != nil {
		return err
	}
	if !patched {
		fmt.Fprintf(s.out, "L%d already has a target\n", addr)
		return nil
	}
	s.printQuad(addr)
	return nil
}
