package tree

import (
	"strings"
	"testing"

	"github.com/awalterschulze/gographviz"

	"github.com/hvesanto/outbreak-inference/internal/sim"
)

func grownOutbreak(t *testing.T) *sim.Outbreak {
	t.Helper()

	p := sim.DefaultParams()
	p.InfectDelta = p.TimeStep // certain transmission while infectious
	p.MaxInfected = 50

	o, err := sim.Run(p, sim.WithSeed(8))
	if err != nil {
		t.Fatal(err)
	}
	if o.Size() < 2 {
		t.Fatalf("expected a grown outbreak, got %d individuals", o.Size())
	}
	return o
}

func TestDOT_OneNodePerIndividualOneEdgePerTransmission(t *testing.T) {
	o := grownOutbreak(t)

	out, err := DOT(o)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, "digraph outbreak") {
		t.Fatalf("expected a directed graph, got:\n%s", out)
	}

	edges := 0
	for _, ind := range o.Individuals() {
		name := nodeName(ind.ID())
		if !strings.Contains(out, name) {
			t.Fatalf("missing node %s", name)
		}
		edges += ind.NumInfected()
	}

	if got := strings.Count(out, "->"); got != edges {
		t.Fatalf("expected %d edges, got %d", edges, got)
	}
}

func TestDOT_ParsesBackToTheSameGraph(t *testing.T) {
	o := grownOutbreak(t)

	out, err := DOT(o)
	if err != nil {
		t.Fatal(err)
	}

	ast, err := gographviz.ParseString(out)
	if err != nil {
		t.Fatalf("generated DOT does not parse: %v", err)
	}
	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		t.Fatalf("generated DOT does not analyse: %v", err)
	}

	if got := len(g.Nodes.Nodes); got != o.Size() {
		t.Fatalf("expected %d nodes, got %d", o.Size(), got)
	}

	transmissions := 0
	for _, ind := range o.Individuals() {
		transmissions += ind.NumInfected()
	}
	if got := len(g.Edges.Edges); got != transmissions {
		t.Fatalf("expected %d edges, got %d", transmissions, got)
	}

	// the index case is the only node without an inbound edge
	inbound := map[string]int{}
	for _, e := range g.Edges.Edges {
		inbound[e.Dst]++
	}
	if inbound[nodeName(0)] != 0 {
		t.Fatalf("index case should have no inbound edges, got %d", inbound[nodeName(0)])
	}
}

func TestDOT_MarksTerminalStates(t *testing.T) {
	o := grownOutbreak(t)

	out, err := DOT(o)
	if err != nil {
		t.Fatal(err)
	}

	final := o.FinalCounts()
	if final[sim.Dead] > 0 && !strings.Contains(out, `"red"`) {
		t.Fatalf("expected dead individuals to be colored")
	}
	if final[sim.Recovered] > 0 && !strings.Contains(out, `"forestgreen"`) {
		t.Fatalf("expected recovered individuals to be colored")
	}
}

func TestDOT_Deterministic(t *testing.T) {
	p := sim.DefaultParams()
	p.MaxTime = 56

	run := func() string {
		o, err := sim.Run(p, sim.WithSeed(12))
		if err != nil {
			t.Fatal(err)
		}
		out, err := DOT(o)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	if run() != run() {
		t.Fatalf("expected identical DOT output for identical runs")
	}
}
