package nominations

// WorkingSet is the shrinking collection of nomination titles a run operates on.
// Insertion order is kept so batches are reproducible; removal is by title.
type WorkingSet struct {
	order []string
	index map[string]struct{}
}

// NewWorkingSet builds a set from ids, dropping empty and repeated titles.
func NewWorkingSet(ids []string) *WorkingSet {
	ws := &WorkingSet{
		order: make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := ws.index[id]; ok {
			continue
		}
		ws.index[id] = struct{}{}
		ws.order = append(ws.order, id)
	}
	return ws
}

// IDs returns a snapshot of the current members in insertion order.
func (ws *WorkingSet) IDs() []string {
	if ws == nil {
		return nil
	}
	out := make([]string, len(ws.order))
	copy(out, ws.order)
	return out
}

// Len returns the number of members.
func (ws *WorkingSet) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.order)
}

// Contains reports whether id is a member.
func (ws *WorkingSet) Contains(id string) bool {
	if ws == nil {
		return false
	}
	_, ok := ws.index[id]
	return ok
}

// Remove deletes id and reports whether it was present.
func (ws *WorkingSet) Remove(id string) bool {
	if ws == nil {
		return false
	}
	if _, ok := ws.index[id]; !ok {
		return false
	}
	delete(ws.index, id)
	for i, member := range ws.order {
		if member == id {
			ws.order = append(ws.order[:i], ws.order[i+1:]...)
			break
		}
	}
	return true
}
