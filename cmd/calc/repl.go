package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"

	"github.com/fatih/color"

	"github.com/zephyrtronium/calc"
)

const prompt = "> "

// repl reads expressions one line at a time and prints their results. Errors
// are printed and do not end the session.
type repl struct {
	in  *bufio.Reader
	out io.Writer
	ctx *calc.Context
	log *slog.Logger
	// verb formats results.
	verb string
	// echo prints the parse tree, or the postfix tokens if rpn is set, before
	// each result.
	echo bool
	// rpn evaluates postfix tokens without building a tree.
	rpn  bool
	errc *color.Color
}

// run loops until quit or the end of the input. The only errors it returns
// are from reading.
func (r *repl) run() error {
	for {
		fmt.Fprint(r.out, prompt)
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil
		line = strings.TrimSpace(line)
		switch line {
		case "quit":
			return nil
		case "":
			// nothing to evaluate
		default:
			r.line(line)
		}
		if eof {
			if line == "" {
				// End the line the prompt was printed on.
				fmt.Fprintln(r.out)
			}
			return nil
		}
	}
}

func (r *repl) line(src string) {
	res, err := r.eval(src)
	if err != nil {
		r.log.Debug("eval failed", slog.String("line", src), slog.Any("err", err))
		r.errc.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if res.IsInf() {
		// Infinities print the same whatever the verb.
		inf := "inf"
		if res.Signbit() {
			inf = "-inf"
		}
		fmt.Fprintln(r.out, "The result is: "+inf)
		return
	}
	fmt.Fprintf(r.out, "The result is: "+r.verb+"\n", res)
}

func (r *repl) eval(src string) (*big.Float, error) {
	toks, err := calc.LexString(src)
	if err != nil {
		return nil, err
	}
	rpn, err := calc.Postfix(toks)
	if err != nil {
		return nil, err
	}
	r.log.Debug("postfix", slog.String("line", src), slog.Any("rpn", rpn))
	if r.rpn {
		if r.echo {
			fmt.Fprintf(r.out, "%v : ", rpn)
		}
		res := r.ctx.EvalPostfix(rpn)
		return res, r.ctx.Err()
	}
	e, err := calc.ParsePostfix(rpn)
	if err != nil {
		return nil, err
	}
	r.log.Debug("parsed", slog.String("tree", e.String()))
	if r.echo {
		fmt.Fprintf(r.out, "%v : ", e)
	}
	res := r.ctx.Eval(e)
	return res, r.ctx.Err()
}
