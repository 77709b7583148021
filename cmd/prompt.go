package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rwbench/bench"
)

// WorkloadAnswers holds the interactively configured workload parameters.
type WorkloadAnswers struct {
	InitialKeys int
	TotalOps    int
	Search      float64
	Insert      float64
	Delete      float64
}

// prompter reads whitespace-separated answers. Several answers may share a
// line; an answer that does not parse is replaced by the default and the rest
// of its line is discarded.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	show    bool
	pending []string // unread fields of the current line
}

// next prints the question (when showing prompts) and returns the next field,
// reading a new line once the current one is used up. ok is false at EOF or
// on an empty line.
func (p *prompter) next(question, def string) (string, bool) {
	if p.show {
		fmt.Fprintf(p.out, "%s [%s] ", question, def)
	}
	if len(p.pending) == 0 {
		if !p.scanner.Scan() {
			return "", false
		}
		p.pending = strings.Fields(p.scanner.Text())
		if len(p.pending) == 0 {
			return "", false
		}
	}
	field := p.pending[0]
	p.pending = p.pending[1:]
	return field, true
}

// discardLine drops whatever is left of the current line.
func (p *prompter) discardLine() {
	p.pending = nil
}

func (p *prompter) askInt(question string, def int) int {
	field, ok := p.next(question, strconv.Itoa(def))
	if !ok {
		return def
	}
	v, err := strconv.Atoi(field)
	if err != nil || v < 0 {
		logrus.Debugf("%q is not a valid answer to %q; using %d", field, question, def)
		p.discardLine()
		return def
	}
	return v
}

func (p *prompter) askFloat(question string, def float64) float64 {
	field, ok := p.next(question, strconv.FormatFloat(def, 'f', 1, 64))
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		logrus.Debugf("%q is not a valid answer to %q; using %.1f", field, question, def)
		p.discardLine()
		return def
	}
	return v
}

// PromptWorkload asks for the initial population, the total operation count
// and the search and insert probabilities. The delete probability is what is
// left; if that is negative all three probabilities revert to the defaults.
func PromptWorkload(in io.Reader, out io.Writer, show bool) WorkloadAnswers {
	p := &prompter{scanner: bufio.NewScanner(in), out: out, show: show}

	var a WorkloadAnswers
	a.InitialKeys = p.askInt("How many keys should be inserted in main thread?", bench.DefaultInitialKeys)
	a.TotalOps = p.askInt("How many total operations?", bench.DefaultTotalOps)
	search := p.askFloat("Percent of ops that should be searches?", bench.DefaultSearchProb)
	insert := p.askFloat("Percent of ops that should be inserts?", bench.DefaultInsertProb)

	var adjusted bool
	a.Search, a.Insert, a.Delete, adjusted = bench.ResolveProbabilities(search, insert)
	if adjusted {
		fmt.Fprintln(out, "Invalid percentages! Adjusting...")
	}
	return a
}
