package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/modules/counter"
	"upipe.go.dev/upipe/modules/flowcheck"
	"upipe.go.dev/upipe/modules/genblk"
	"upipe.go.dev/upipe/modules/null"
	"upipe.go.dev/upipe/modules/v210"
	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/umem"
	"upipe.go.dev/upipe/upipe/graphcfg"
	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/stdiolog"
	"upipe.go.dev/upipe/upump/upumpqueue"
)

func newRootCmd() *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   "upipectl",
		Short: "wire and run a upipe/graphcfg pipe graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(graphPath)
		},
	}
	cmd.Flags().StringVarP(&graphPath, "graph", "g", "", "path to a graphcfg YAML document (required)")
	cmd.MarkFlagRequired("graph")

	return cmd
}

// defaultRegistry wires the reference pipes under modules/ to the type
// names a graphcfg YAML document may use.
func defaultRegistry() graphcfg.Registry {
	blockMgr := ubuf.NewBlockManager(umem.System{})
	return graphcfg.Registry{
		"genblk": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return genblk.New(id, probe, blockMgr, 188, nil), nil
		},
		"counter": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return counter.New(id, probe), nil
		},
		"flowcheck": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return flowcheck.New(id, "", probe), nil
		},
		"null": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return null.New(id, probe), nil
		},
		"v210enc": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return v210.NewEncoder(id, probe, blockMgr, 1920), nil
		},
		"v210dec": func(id string, probe uprobe.Probe) (upipe.Pipe, error) {
			return v210.NewDecoder(id, probe, blockMgr, 1920), nil
		},
	}
}

func runGraph(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	graph, err := graphcfg.Load(data)
	if err != nil {
		return err
	}

	logProbe, err := stdiolog.NewProduction()
	if err != nil {
		return err
	}
	probe := uprobe.Link(logProbe, uprobe.Terminator{})
	pipes, err := graphcfg.Build(graph, probe, defaultRegistry())
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range pipes {
			p.Release()
		}
	}()

	mgr := upumpqueue.New(64)
	for _, p := range pipes {
		if src, ok := p.(*genblk.Source); ok {
			if err := src.Control(&upipe.Command{Kind: upipe.CmdAttachUpumpMgr, UpumpMgr: mgr}); err != nil {
				return err
			}
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		mgr.Stop()
	}()

	return mgr.Run()
}
