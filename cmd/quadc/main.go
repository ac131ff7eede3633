// Package main implements the quadc driver.
//
// Philosophy: Small and direct. Parse, translate, print the tables and quads.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GriffinCanCode/quadc/pkg/frontend"
	"github.com/GriffinCanCode/quadc/pkg/logger"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "compile":
		os.Exit(compileCmd(os.Args[2:]))
	case "repl":
		os.Exit(replCmd(os.Args[2:]))
	case "version":
		fmt.Printf("quadc version %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`quadc - Translate mini-C into symbol tables and three-address code

Usage:
    quadc compile [options] <source.c>  Translate a file and print its reports
    quadc repl [options]                Translate interactively
    quadc version                       Show version
    quadc help                          Show this help message

Options:
    -emit <list>        Reports to print: symbols,quads,tac (default: all)
    -o <file>           Write reports to file (default: stdout)
    -v                  Verbose output
    -debug              Debug logging with source locations
    -log-format <fmt>   Log format: text or json (default: text)
    -log-file <path>    Append logs to path instead of stderr
    -log-dir <dir>      Production logging: json at info level to <dir>/quadc.log`)
}

// logFlags are shared by every subcommand
type logFlags struct {
	verbose bool
	debug   bool
	format  string
	file    string
	dir     string
}

func (lf *logFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&lf.verbose, "v", false, "verbose output")
	fs.BoolVar(&lf.debug, "debug", false, "debug logging")
	fs.StringVar(&lf.format, "log-format", "text", "log format (text|json)")
	fs.StringVar(&lf.file, "log-file", "", "log file path")
	fs.StringVar(&lf.dir, "log-dir", "", "directory for production json logs")
}

func (lf *logFlags) config() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Format = lf.format
	cfg.LogFile = lf.file
	switch {
	case lf.debug:
		cfg.Level = logger.LevelDebug
		cfg.AddSource = true
	case lf.verbose:
		cfg.Level = logger.LevelInfo
	}
	return cfg
}

func (lf *logFlags) init() error {
	if lf.format != "text" && lf.format != "json" {
		return fmt.Errorf("invalid -log-format %q", lf.format)
	}
	switch {
	case lf.dir != "":
		return logger.InitProd(lf.dir)
	case lf.debug && lf.format == "text" && lf.file == "":
		logger.InitDev()
		return nil
	}
	return logger.Init(lf.config())
}

func compileCmd(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	var lf logFlags
	lf.register(fs)
	emit := fs.String("emit", "symbols,quads,tac", "reports to print")
	out := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := lf.init(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: expected exactly one input file")
		return 2
	}
	sel, err := parseEmit(*emit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	start := time.Now()
	logger.LogCompilerStart(args)
	ok := run(fs.Arg(0), *out, sel)
	logger.LogCompilerComplete(ok, time.Since(start).String())
	if !ok {
		return 1
	}
	return 0
}

func run(path, out string, sel reports) bool {
	logger.LogFileProcessing(path)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return false
	}

	ctx, err := frontend.Compile(path, string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return false
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		defer f.Close()
		w = f
	}

	if err := writeReports(w, ctx, sel); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return false
	}
	return true
}
