package vellum

// history is a bounded undo/redo stack of node-table snapshots. Viewport
// and selection are not recorded.
type history struct {
	limit int
	undo  []Snapshot
	redo  []Snapshot
}

// push records the state before a mutation and drops the redo branch.
func (h *history) push(s Snapshot) {
	if h.limit <= 0 {
		return
	}
	h.undo = append(h.undo, s)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = h.undo[over:]
	}
	h.redo = h.redo[:0]
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

// --- Document operations ---

// CanUndo reports whether Undo would change anything.
func (d *Document) CanUndo() bool { return len(d.hist.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (d *Document) CanRedo() bool { return len(d.hist.redo) > 0 }

// Undo restores the node table as it was before the most recent recorded
// mutation. Selected ids that no longer exist are dropped.
func (d *Document) Undo() (ChangeDescriptor, error) {
	n := len(d.hist.undo)
	if n == 0 {
		return noChange, nil
	}
	prev := d.hist.undo[n-1]
	cur := d.store.snapshot()
	if err := d.store.restore(prev); err != nil {
		return noChange, d.reject("undo", err)
	}
	d.hist.undo = d.hist.undo[:n-1]
	d.hist.redo = append(d.hist.redo, cur)
	d.afterRestore()
	return d.commit("undo", ChangeDescriptor{Kind: ChangeDocument}), nil
}

// Redo reapplies the most recently undone mutation.
func (d *Document) Redo() (ChangeDescriptor, error) {
	n := len(d.hist.redo)
	if n == 0 {
		return noChange, nil
	}
	next := d.hist.redo[n-1]
	cur := d.store.snapshot()
	if err := d.store.restore(next); err != nil {
		return noChange, d.reject("redo", err)
	}
	d.hist.redo = d.hist.redo[:n-1]
	d.hist.undo = append(d.hist.undo, cur)
	d.afterRestore()
	return d.commit("redo", ChangeDescriptor{Kind: ChangeDocument}), nil
}
