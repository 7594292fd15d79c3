package selflow_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.go.dev/upipe/uprobe"
	"upipe.go.dev/upipe/uprobe/selflow"
)

type fakePipe struct{}

func (fakePipe) Signature() string { return "test.pipe" }
func (fakePipe) ID() string        { return "1" }

func throwFlow(p *selflow.Probe, id int, def string) {
	p.Throw(fakePipe{}, uprobe.Event{Kind: uprobe.KindNewFlowDef, FlowID: id, FlowDef: def})
}

func selectedIDs(p *selflow.Probe) []int {
	var ids []int
	for _, c := range p.Selected() {
		ids = append(ids, c.FlowID)
	}
	sort.Ints(ids)
	return ids
}

func TestFirstFlowDefIsAutoSelected(t *testing.T) {
	var selected []selflow.Candidate
	p := selflow.New("auto", func(c selflow.Candidate) { selected = append(selected, c) })

	throwFlow(p, 1, "sound.fr.")
	throwFlow(p, 2, "sound.en.")

	assert.Equal(t, []int{1}, selectedIDs(p))
	assert.Equal(t, []selflow.Candidate{{FlowID: 1, FlowDef: "sound.fr."}}, selected)
	assert.Equal(t, []selflow.Candidate{
		{FlowID: 1, FlowDef: "sound.fr."},
		{FlowID: 2, FlowDef: "sound.en."},
	}, p.Candidates())
}

func TestDuplicateFlowDefDoesNotRetrigger(t *testing.T) {
	calls := 0
	p := selflow.New("auto", func(selflow.Candidate) { calls++ })

	throwFlow(p, 1, "sound.fr.")
	throwFlow(p, 1, "sound.fr.")

	assert.Equal(t, 1, calls)
}

func TestIDListSelectorAcceptsListedFlowsInAnyOrder(t *testing.T) {
	var selected []selflow.Candidate
	p := selflow.New("1,3", func(c selflow.Candidate) { selected = append(selected, c) })

	throwFlow(p, 2, "video.")
	throwFlow(p, 3, "sound.en.")
	throwFlow(p, 1, "sound.fr.")

	assert.Equal(t, []int{1, 3}, selectedIDs(p))
	assert.Len(t, selected, 2, "ids 1 and 3 should both be accepted regardless of arrival order")
	assert.Equal(t, []selflow.Candidate{
		{FlowID: 2, FlowDef: "video."},
		{FlowID: 3, FlowDef: "sound.en."},
		{FlowID: 1, FlowDef: "sound.fr."},
	}, p.Candidates())
}

func TestAllSelectorAcceptsEveryDistinctFlow(t *testing.T) {
	p := selflow.New("all", nil)

	throwFlow(p, 1, "sound.fr.")
	throwFlow(p, 2, "sound.en.")
	throwFlow(p, 3, "video.")

	assert.Equal(t, []int{1, 2, 3}, selectedIDs(p))
}

func TestEmptySelectorRejectsEverything(t *testing.T) {
	calls := 0
	p := selflow.New("", func(selflow.Candidate) { calls++ })

	throwFlow(p, 1, "sound.fr.")
	throwFlow(p, 2, "sound.en.")

	assert.Equal(t, 0, calls)
	assert.Empty(t, p.Selected())
	assert.Len(t, p.Candidates(), 2)
}

func TestAutoSelectorIgnoresFlowsAfterTheFirstAcrossDistinctIDs(t *testing.T) {
	p := selflow.New("auto", nil)

	throwFlow(p, 1, "video.")
	throwFlow(p, 2, "sound.en.")
	throwFlow(p, 3, "sound.fr.")

	assert.Equal(t, []int{1}, selectedIDs(p))
}
