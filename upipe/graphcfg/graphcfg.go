// Package graphcfg implements the declarative YAML pipe-graph description
// an embedding API can load instead of hand-wiring SET_OUTPUT
// calls in Go: a host program still constructs the ambient managers
// (umem/uref/uclock/upump) and a root probe chain itself, but the
// signature-specific pipe allocation and wiring graphcfg.Build performs
// for it from one YAML document, using a goccy/go-yaml-based config
// loader generalized from a flat option struct to an ordered list of
// typed, wired nodes.
package graphcfg

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uprobe"
)

// NodeConfig describes one pipe in the graph: its id, its registered
// type name, the downstream node it feeds (by id), and signature-private
// options sent to the pipe the Factory built as CmdSetOption calls.
type NodeConfig struct {
	ID      string            `yaml:"id"`
	Type    string            `yaml:"type"`
	Output  string            `yaml:"output,omitempty"`
	FlowDef string            `yaml:"flow_def,omitempty"`
	URI     string            `yaml:"uri,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// Graph is the top-level YAML document: an ordered list of nodes.
type Graph struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

// Factory constructs one pipe instance of a registered type, wired to
// probe. Concrete pipe packages (modules/genblk, modules/counter, ...)
// live outside upipe/graphcfg to avoid an import cycle, so callers
// register a Factory per type name they want graphcfg to recognize.
type Factory func(id string, probe uprobe.Probe) (upipe.Pipe, error)

// Registry maps a NodeConfig's Type string to the Factory that builds it.
type Registry map[string]Factory

// Load parses a YAML document into a Graph.
func Load(data []byte) (*Graph, error) {
	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("graphcfg: parsing yaml: %w", err)
	}
	return &g, nil
}

// Build allocates every node in g via registry, applies FlowDef/URI/
// Options, and wires each node's Output, in two passes (alloc-then-wire)
// so Output may reference a node defined later in the document. It
// returns every allocated pipe keyed by id; on error, pipes already
// allocated are released before returning.
func Build(g *Graph, probe uprobe.Probe, registry Registry) (map[string]upipe.Pipe, error) {
	pipes := make(map[string]upipe.Pipe, len(g.Nodes))

	release := func() {
		for _, p := range pipes {
			p.Release()
		}
	}

	for _, node := range g.Nodes {
		factory, ok := registry[node.Type]
		if !ok {
			release()
			return nil, fmt.Errorf("graphcfg: node %q: unknown type %q: %w", node.ID, node.Type, uerror.ErrInvalid)
		}
		p, err := factory(node.ID, probe)
		if err != nil {
			release()
			return nil, fmt.Errorf("graphcfg: node %q: allocating: %w", node.ID, err)
		}
		pipes[node.ID] = p

		for key, value := range node.Options {
			if err := p.Control(&upipe.Command{Kind: upipe.CmdSetOption, OptionKey: key, OptionValue: value}); err != nil {
				release()
				return nil, fmt.Errorf("graphcfg: node %q: setting option %q: %w", node.ID, key, err)
			}
		}
		if node.FlowDef != "" {
			if err := p.Control(&upipe.Command{Kind: upipe.CmdSetFlowDef, FlowDef: node.FlowDef}); err != nil {
				release()
				return nil, fmt.Errorf("graphcfg: node %q: setting flow def: %w", node.ID, err)
			}
		}
		if node.URI != "" {
			if err := p.Control(&upipe.Command{Kind: upipe.CmdSetURI, URI: node.URI}); err != nil {
				release()
				return nil, fmt.Errorf("graphcfg: node %q: setting uri: %w", node.ID, err)
			}
		}
	}

	for _, node := range g.Nodes {
		if node.Output == "" {
			continue
		}
		out, ok := pipes[node.Output]
		if !ok {
			release()
			return nil, fmt.Errorf("graphcfg: node %q: output %q not found: %w", node.ID, node.Output, uerror.ErrInvalid)
		}
		if err := pipes[node.ID].Control(&upipe.Command{Kind: upipe.CmdSetOutput, Output: out}); err != nil {
			release()
			return nil, fmt.Errorf("graphcfg: node %q: wiring output: %w", node.ID, err)
		}
	}

	return pipes, nil
}
