package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	"github.com/zephyrtronium/calc"
)

const usage = `usage: calc [-erv] [-p bits] [-f verb] [-g name=value]...

Reads one expression per line from stdin and prints its result. Type quit to
exit.

  -p bits        precision of calculations in bits (default 53)
  -f verb        result formatting verb (default %g)
  -g name=value  define a variable before reading input (any number of times)
  -e             print the postfix form or parse tree before each result
  -r             evaluate postfix tokens directly; x/0 gives an infinity
  -v             log debug messages to stderr
  -h             print this message
`

type config struct {
	prec    uint
	verb    string
	with    [][2]string
	echo    bool
	rpn     bool
	verbose bool
}

// errHelp is returned by parseFlags for -h.
var errHelp = errors.New("help requested")

func parseFlags(args []string) (config, error) {
	cfg := config{prec: calc.DefaultPrec, verb: "%g"}
	opts, optind, err := getopt.Getopts(args, "hp:f:g:erv")
	if err != nil {
		return cfg, err
	}
	if optind < len(args) {
		return cfg, fmt.Errorf("unexpected arguments: %q", args[optind:])
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'p':
			p, err := strconv.ParseUint(opt.Value, 10, 32)
			if err != nil || p == 0 || p > big.MaxPrec {
				return cfg, fmt.Errorf("precision (%s) must be a positive number of bits", opt.Value)
			}
			cfg.prec = uint(p)
		case 'f':
			cfg.verb = opt.Value
		case 'g':
			d := strings.SplitN(opt.Value, "=", 2)
			if len(d) != 2 {
				return cfg, fmt.Errorf(`variable definitions must be "name=value", not %q`, opt.Value)
			}
			nm := strings.TrimSpace(d[0])
			if !isName(nm) {
				return cfg, fmt.Errorf("%q is not a variable name", nm)
			}
			cfg.with = append(cfg.with, [2]string{nm, strings.TrimSpace(d[1])})
		case 'e':
			cfg.echo = true
		case 'r':
			cfg.rpn = true
		case 'v':
			cfg.verbose = true
		default: // case 'h':
			return cfg, errHelp
		}
	}
	return cfg, nil
}

// isName returns whether s lexes as a single identifier.
func isName(s string) bool {
	toks, err := calc.LexString(s)
	return err == nil && len(toks) == 1 && toks[0].Kind == calc.TokenIdent
}

func main() {
	log.SetFlags(0)
	cfg, err := parseFlags(os.Args)
	if errors.Is(err, errHelp) {
		io.WriteString(os.Stderr, usage)
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("%v\n%s", err, usage)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx := calc.NewContext(calc.Prec(cfg.prec), calc.LogHandler(h))
	for _, d := range cfg.with {
		nm, vl := d[0], d[1]
		r, err := calc.EvalString(vl, calc.Prec(cfg.prec))
		if err != nil {
			log.Fatalf("setting %s: %v", nm, err)
		}
		ctx.Set(nm, r)
	}

	r := repl{
		in:   bufio.NewReader(os.Stdin),
		out:  os.Stdout,
		ctx:  ctx,
		log:  slog.New(h),
		verb: cfg.verb,
		echo: cfg.echo,
		rpn:  cfg.rpn,
		errc: color.New(color.FgRed),
	}
	if err := r.run(); err != nil {
		log.Fatal(err)
	}
}
