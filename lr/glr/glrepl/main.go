package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/forklr"
	"github.com/npillmayer/forklr/lr"
	"github.com/npillmayer/forklr/lr/glr"
	"github.com/npillmayer/forklr/lr/grammar"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// We provide a simple expression grammar as a default.
//
//  START  ➞ Expr
//  Expr   ➞ Expr SumOp Term  |  Term
//  Term   ➞ Term ProdOp Factor  |   Factor
//  Factor ➞ number  |   ( Expr )
//  SumOp  ➞ +  |  -
//  ProdOp ➞ *  |  /
//
func makeExprGrammar() *grammar.Node {
	return grammar.Def(
		grammar.Rule("START", grammar.N("Expr")),
		grammar.Rule("Expr", grammar.Or(
			grammar.And(grammar.N("Expr"), grammar.N("SumOp"), grammar.N("Term")),
			grammar.N("Term"),
		)),
		grammar.Rule("Term", grammar.Or(
			grammar.And(grammar.N("Term"), grammar.N("ProdOp"), grammar.N("Factor")),
			grammar.N("Factor"),
		)),
		grammar.Rule("Factor", grammar.Or(
			grammar.Re(`([0-9]+(?:\.[0-9]+)?)`, ""),
			grammar.And(grammar.Hidden("("), grammar.N("Expr"), grammar.Hidden(")")),
		)),
		grammar.Alias("SumOp", "op", grammar.Or(grammar.Lit("+"), grammar.Lit("-"))),
		grammar.Alias("ProdOp", "op", grammar.Or(grammar.Lit("*"), grammar.Lit("/"))),
	)
}

// main() starts an interactive CLI ("GLREPL"), where users may enter input
// for a grammar. GLREPL will parse it and print out the parse tree.
// GLREPL is intended as a sandbox for experiments during the development of
// a grammar, especially for resolving ambiguities by ordering alternatives.
//
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	gfile := flag.String("grammar", "", "Grammar file (.yaml, .yml or .ebnf)")
	tfile := flag.String("tables", "", "Parser tables file (.json), instead of a grammar")
	sfile := flag.String("save", "", "Save parser tables to file (.json)")
	steps := flag.Int("steps", 0, "Maximum number of parse steps")
	dump := flag.Bool("dump", false, "Dump parser tables")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to GLREPL")   // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	//
	// set up the parser
	var opts []glr.Option
	if *steps > 0 {
		opts = append(opts, glr.MaxSteps(*steps))
	}
	parser, err := loadParser(*gfile, *tfile, opts)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	tracer().SetTraceLevel(traceLevel(*tlevel)) // now set the user supplied level
	if g := parser.Grammar(); g != nil {
		g.Dump() // only visible in debug mode
	}
	intp := &Intp{parser: parser}
	if *dump {
		intp.dumpTables()
	}
	if *sfile != "" {
		if err := intp.save(*sfile); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(2)
		}
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" {
		tracer().Infof("Input argument is \"%s\"", input)
		if err := intp.parse(input); err != nil {
			os.Exit(1)
		}
		return
	}
	//
	// set up REPL
	repl, err := readline.New("glrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// loadParser creates a parser from parser tables, from a grammar file, or
// for the default expression grammar.
func loadParser(gfile, tfile string, opts []glr.Option) (*glr.Parser, error) {
	if tfile != "" {
		f, err := os.Open(tfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return glr.Load(f, opts...)
	}
	if gfile == "" {
		return glr.Create(makeExprGrammar(), append(opts, glr.Named("Expr"))...)
	}
	f, err := os.Open(gfile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ast *grammar.Node
	switch strings.ToLower(filepath.Ext(gfile)) {
	case ".yaml", ".yml":
		ast, err = grammar.LoadYAML(f)
	case ".ebnf":
		ast, err = grammar.LoadEBNF(gfile, f)
	default:
		return nil, fmt.Errorf("unknown grammar format: %s", gfile)
	}
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(gfile), filepath.Ext(gfile))
	return glr.Create(ast, append(opts, glr.Named(name))...)
}

// Intp is our interpreter object
type Intp struct {
	parser *glr.Parser
	repl   *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a command or parses a line of input.
func (intp *Intp) Eval(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		return false, intp.parse(line)
	}
	args := strings.Fields(line[1:])
	if len(args) == 0 {
		return false, nil
	}
	var err error
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "dump":
		intp.dumpTables()
	case "conflicts":
		intp.conflicts()
	case "save", "dot":
		if len(args) != 2 {
			err = fmt.Errorf("usage: :%s <file>", args[0])
		} else if args[0] == "save" {
			err = intp.save(args[1])
		} else {
			err = intp.dot(args[1])
		}
	default:
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return false, err
}

func (intp *Intp) parse(input string) error {
	tree, err := intp.parser.Parse(input)
	if err != nil {
		var serr *glr.SyntaxError
		if errors.As(err, &serr) {
			pterm.Error.Println(err.Error())
			pterm.Println(input)
			pterm.Println(strings.Repeat(" ", serr.Col-1) + "^")
		} else {
			pterm.Error.Println(err.Error())
		}
		return err
	}
	pterm.Info.Println(tree.String())
	printTree(tree)
	return nil
}

// printTree displays a parse tree on a terminal.
func printTree(tree *forklr.Node) {
	ll := pterm.LeveledList{}
	for _, line := range tree.Indented() {
		ll = append(ll, pterm.LeveledListItem{
			Level: line.Level,
			Text:  line.Text,
		})
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func (intp *Intp) dumpTables() {
	tables, err := intp.parser.Tables()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	lr.DumpTables(tables, os.Stdout)
}

func (intp *Intp) conflicts() {
	tables, err := intp.parser.Tables()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	conflicts := tables.Conflicts()
	if len(conflicts) == 0 {
		pterm.Info.Println("no conflicts")
		return
	}
	for _, c := range conflicts {
		pterm.Info.Println(c.String())
	}
}

func (intp *Intp) save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = intp.parser.Save(f); err != nil {
		f.Close()
		return err
	}
	tracer().Infof("Parser tables saved to %s", filename)
	return f.Close()
}

func (intp *Intp) dot(filename string) error {
	g := intp.parser.Grammar()
	if g == nil {
		return fmt.Errorf("parser has been loaded from tables, no CFSM available")
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	cfsm := lr.NewTableGenerator(lr.Analysis(g)).CFSM()
	if err = cfsm.CFSM2GraphViz(f); err != nil {
		f.Close()
		return err
	}
	tracer().Infof("CFSM with %d states written to %s", cfsm.StateCount(), filename)
	return f.Close()
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
