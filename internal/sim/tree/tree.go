// Package tree renders the transmission tree of a finished outbreak as a
// Graphviz DOT document.
package tree

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/hvesanto/outbreak-inference/internal/sim"
)

const graphName = "outbreak"

// DOT builds a directed graph with one node per infected individual and one
// edge per transmission, both in order of infection. Node labels carry the
// individual id and infection time; terminal states are colored.
func DOT(o *sim.Outbreak) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", fmt.Errorf("failed to name graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to direct graph: %w", err)
	}

	individuals := o.Individuals()
	for _, ind := range individuals {
		if err := g.AddNode(graphName, nodeName(ind.ID()), nodeAttrs(ind)); err != nil {
			return "", fmt.Errorf("failed to add node %d: %w", ind.ID(), err)
		}
	}
	for _, ind := range individuals {
		for _, id := range ind.Infected() {
			if err := g.AddEdge(nodeName(ind.ID()), nodeName(id), true, nil); err != nil {
				return "", fmt.Errorf("failed to add edge %d->%d: %w", ind.ID(), id, err)
			}
		}
	}

	return g.String(), nil
}

func nodeName(id int) string {
	return fmt.Sprintf("n%d", id)
}

// nodeAttrs quotes values for Graphviz, which keeps attribute strings raw.
func nodeAttrs(ind *sim.Individual) map[string]string {
	attrs := map[string]string{
		"label": fmt.Sprintf(`"%d\nt=%.1f"`, ind.ID(), ind.InfectedAt()),
	}
	switch ind.State() {
	case sim.Dead:
		attrs["color"] = `"red"`
	case sim.Recovered:
		attrs["color"] = `"forestgreen"`
	}
	return attrs
}
