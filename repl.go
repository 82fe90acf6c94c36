package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/peterh/liner"

	"github.com/sergev/mini/lang"
	"github.com/sergev/mini/parser"
	"github.com/sergev/mini/runtime"
)

// session ties an evaluator to the streams and display options of one
// command invocation.
type session struct {
	ev      *lang.Evaluator
	out     io.Writer
	errOut  io.Writer
	dumpAST bool
	diag    *color.Color
}

func newSession(ev *lang.Evaluator, out, errOut io.Writer, cfg *Config) *session {
	diag := color.New(color.FgRed)
	if !cfg.colorEnabled() {
		diag.DisableColor()
	}
	return &session{ev: ev, out: out, errOut: errOut, diag: diag}
}

func (s *session) report(err error) {
	s.diag.Fprintln(s.errOut, err)
}

func (s *session) dump(node parser.Node) {
	if s.dumpAST {
		pretty.Fprintf(s.out, "%# v\n", node)
	}
}

func (s *session) runFile(path string) error {
	if s.dumpAST {
		mod, err := runtime.ParseFile(path)
		if err != nil {
			return err
		}
		s.dump(mod)
	}
	return runtime.RunFile(s.ev, path)
}

func (s *session) evaluate(src string) error {
	list, err := parser.ParseExpressions(src)
	if err != nil {
		return err
	}
	s.dump(list)
	vals, err := s.ev.EvalList(list)
	if err != nil {
		return err
	}
	for _, val := range vals {
		fmt.Fprintln(s.out, val)
	}
	return nil
}

// submit handles one REPL entry. The text runs as statements when it parses
// as a program and is otherwise evaluated as an expression list. It returns
// true when the text is a prefix of valid input and more lines are needed.
func (s *session) submit(src string) (bool, error) {
	if strings.TrimSpace(src) == "" {
		return false, nil
	}
	mod, progErr := parser.ParseProgram(src)
	if progErr == nil {
		s.dump(mod)
		return false, s.ev.Exec(mod)
	}
	list, exprErr := parser.ParseExpressions(src)
	if exprErr == nil {
		s.dump(list)
		vals, err := s.ev.EvalList(list)
		if err != nil {
			return false, err
		}
		for _, val := range vals {
			fmt.Fprintln(s.out, val)
		}
		return false, nil
	}
	if parser.IsIncomplete(progErr) || parser.IsIncomplete(exprErr) {
		return true, nil
	}
	return false, farthest(progErr, exprErr)
}

// farthest picks the syntax error that got further into the text.
func farthest(a, b error) error {
	var ea, eb *parser.SyntaxError
	if !errors.As(a, &ea) || !errors.As(b, &eb) {
		return a
	}
	if eb.Pos.Offset > ea.Pos.Offset {
		return b
	}
	return a
}

func (s *session) runBufferedREPL(reader *bufio.Reader) int {
	var buffer strings.Builder
	status := 0

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			s.report(fmt.Errorf("read error: %w", err))
			return 1
		}
		eof := errors.Is(err, io.EOF)
		if eof && buffer.Len() == 0 && line == "" {
			return status
		}
		buffer.WriteString(line)

		more, evalErr := s.submit(buffer.String())
		if more && !eof {
			continue
		}
		if more {
			_, evalErr = parser.ParseProgram(buffer.String())
		}
		buffer.Reset()
		if evalErr != nil {
			s.report(evalErr)
			status = 1
		}
		if eof {
			return status
		}
	}
}

func (s *session) runInteractiveREPL(cfg *Config) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.Prompt
		if buffer.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(s.out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out)
				return
			default:
				s.report(fmt.Errorf("read error: %w", err))
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		more, evalErr := s.submit(src)
		if more {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		if evalErr != nil {
			s.report(evalErr)
		}
	}
}

func isInteractive(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
