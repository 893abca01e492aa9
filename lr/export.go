package lr

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		label := strings.ReplaceAll(strings.ReplaceAll(edge.label.Name, `\`, `\\`), `"`, `\"`)
		fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID, label)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// --- Parser tables ---------------------------------------------------------

// GotoTableAsHTML exports a GOTO table in HTML format.
func GotoTableAsHTML(t *Tables, w io.Writer) error {
	return parserTableAsHTML(t, "GOTO", t.gotoHeader(), t.gotoRow, w)
}

// ActionTableAsHTML exports an ACTION table in HTML format. Cells with
// conflicts list all of their actions.
func ActionTableAsHTML(t *Tables, w io.Writer) error {
	return parserTableAsHTML(t, "ACTION", t.actionHeader(), t.actionRow, w)
}

func parserTableAsHTML(t *Tables, tname string, header []string, row func(int) []string, w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "%s table for %d states<p>", tname, t.states)
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, h := range header {
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n")
	for i := 0; i < t.states; i++ {
		fmt.Fprintf(&b, "<tr><td>state %d</td>\n", i)
		for _, cell := range row(i) {
			if cell == "" {
				b.WriteString("<td>&nbsp;</td>\n")
			} else {
				fmt.Fprintf(&b, "<td>%s</td>\n", html.EscapeString(cell))
			}
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// DumpTables writes the ACTION and GOTO tables as text tables, one row per
// state.
func DumpTables(t *Tables, w io.Writer) {
	actions := tablewriter.NewWriter(w)
	actions.SetHeader(append([]string{"ACTION"}, t.actionHeader()...))
	for i := 0; i < t.states; i++ {
		actions.Append(append([]string{strconv.Itoa(i)}, t.actionRow(i)...))
	}
	actions.Render()
	if len(t.nonterminals) == 0 {
		return
	}
	gotos := tablewriter.NewWriter(w)
	gotos.SetHeader(append([]string{"GOTO"}, t.gotoHeader()...))
	for i := 0; i < t.states; i++ {
		gotos.Append(append([]string{strconv.Itoa(i)}, t.gotoRow(i)...))
	}
	gotos.Render()
}

func (t *Tables) actionHeader() []string {
	h := make([]string, len(t.terminals))
	for j, term := range t.terminals {
		h[j] = term.String()
	}
	return h
}

func (t *Tables) gotoHeader() []string {
	h := make([]string, len(t.nonterminals))
	copy(h, t.nonterminals)
	return h
}

// actionRow returns the cells of state i, with short forms s<n> for shift,
// r<head>/<len> for reduce and acc for accept.
func (t *Tables) actionRow(i int) []string {
	row := make([]string, len(t.terminals))
	t.actions.Row(i, func(j int, vals []int32) {
		cells := make([]string, len(vals))
		for k, v := range vals {
			a := t.decode(v)
			switch a.Kind {
			case ShiftAction:
				cells[k] = fmt.Sprintf("s%d", a.State)
			case ReduceAction:
				cells[k] = fmt.Sprintf("r%s/%d", a.Head, a.Length)
			default:
				cells[k] = "acc"
			}
		}
		row[j] = strings.Join(cells, " ")
	})
	return row
}

func (t *Tables) gotoRow(i int) []string {
	row := make([]string, len(t.nonterminals))
	t.gotos.Row(i, func(j int, vals []int32) {
		row[j] = strconv.Itoa(int(vals[0]))
	})
	return row
}
