package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/sergev/mini/runtime"
)

const usage = `usage: mini [options] [file ...]

options:
  -a          print the syntax tree of each input before running it
  -c FILE     read settings from FILE instead of ~/.minirc.yaml
  -e EXPRS    evaluate an expression list after the files and print the values
  -h          show this help
  -v          log function calls to stderr

With no file and no -e, mini reads statements and expressions from stdin.
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("mini: ")

	status, err := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalln(err)
	}
	os.Exit(status)
}

// run executes one invocation. Setup problems are returned as errors;
// failures inside mini programs are reported on stderr and give status 1.
func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	opts, optind, err := getopt.Getopts(argv, "ac:e:hv")
	if err != nil {
		return 2, err
	}

	var (
		dumpAST    bool
		verbose    bool
		configPath = defaultConfigPath()
		explicit   bool
		exprs      []string
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'a':
			dumpAST = true
		case 'c':
			configPath = opt.Value
			explicit = true
		case 'e':
			exprs = append(exprs, opt.Value)
		case 'h':
			fmt.Fprint(stdout, usage)
			return 0, nil
		case 'v':
			verbose = true
		}
	}
	files := argv[optind:]

	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return 1, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	ev := runtime.NewEvaluator()
	ev.MaxDepth = cfg.MaxDepth
	ev.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	sess := newSession(ev, stdout, stderr, cfg)
	sess.dumpAST = dumpAST

	for _, path := range files {
		if err := sess.runFile(path); err != nil {
			sess.report(err)
			return 1, nil
		}
	}
	for _, src := range exprs {
		if err := sess.evaluate(src); err != nil {
			sess.report(err)
			return 1, nil
		}
	}
	if len(files) > 0 || len(exprs) > 0 {
		return 0, nil
	}

	if isInteractive(stdin) {
		sess.runInteractiveREPL(cfg)
		return 0, nil
	}
	return sess.runBufferedREPL(bufio.NewReader(stdin)), nil
}
