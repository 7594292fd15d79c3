// Command upipectl is a small reference CLI exercising the embedding API:
// it loads a upipe/graphcfg YAML graph, wires the reference pipes under
// modules/, and drives the resulting graph on a single upump/upumpqueue
// event loop until interrupted. It is not a general-purpose media tool,
// but having one real entry point keeps the graphcfg-based embedding API
// honest.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
