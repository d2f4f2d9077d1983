package vellum

import (
	"fmt"
	"time"
)

// debugStats holds per-mutation timing, populated only in debug mode.
type debugStats struct {
	op          string
	checkTime   time.Duration
	nodeCount   int
	selectCount int
}

// debugLog reports the cost of the last invariant check.
func (d *Document) debugLog(stats debugStats) {
	d.log.Debug("invariants ok",
		"op", stats.op,
		"check", stats.checkTime,
		"nodes", stats.nodeCount,
		"selected", stats.selectCount)
}

// debugCheckInvariants panics with every violated invariant after a
// mutation. Only called when Config.Debug is set.
func (d *Document) debugCheckInvariants(op string, c ChangeDescriptor) {
	start := time.Now()
	if err := d.CheckInvariants(); err != nil {
		panic(fmt.Sprintf("vellum debug: %s left the document inconsistent: %v", op, err))
	}
	for _, id := range c.AffectedIDs {
		if !d.store.Has(id) {
			continue
		}
		d.debugCheckTreeDepth(id)
		if p := d.store.nodes[id].ParentID; p != NoParent {
			d.debugCheckChildCount(p)
		}
	}
	d.debugLog(debugStats{
		op:          op,
		checkTime:   time.Since(start),
		nodeCount:   d.store.Len(),
		selectCount: d.sel.Len(),
	})
}

// CheckInvariants validates the store and confirms every selected id exists.
func (d *Document) CheckInvariants() error {
	if err := d.store.Validate(); err != nil {
		return err
	}
	for _, id := range d.sel.ids {
		if !d.store.Has(id) {
			return fmt.Errorf("selection holds missing node %s", id)
		}
	}
	if a := d.sel.anchor; a != NoParent && !d.store.Has(a) {
		return fmt.Errorf("selection anchor %s is missing", a)
	}
	return nil
}

// debugCheckTreeDepth warns if a node sits deeper than the threshold.
const debugMaxTreeDepth = 32

func (d *Document) debugCheckTreeDepth(id NodeID) {
	if depth := d.tree.Depth(id); depth > debugMaxTreeDepth {
		d.log.Warn("tree depth exceeds threshold", "id", id, "depth", depth, "max", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a group has more than 1000 children.
const debugMaxChildCount = 1000

func (d *Document) debugCheckChildCount(id NodeID) {
	if n, ok := d.store.nodes[id]; ok && len(n.children) > debugMaxChildCount {
		d.log.Warn("child count exceeds threshold", "id", id, "children", len(n.children), "max", debugMaxChildCount)
	}
}
