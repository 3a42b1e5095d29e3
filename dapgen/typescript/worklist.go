package typescript

// Worklist holds plain type names waiting to be emitted.
// Names are popped last-in first-out and each name is accepted at most once
// per run, so a drained worklist has emitted the full reference closure.
type Worklist struct {
	stack []string
	seen  map[string]bool
}

// NewWorklist returns an empty worklist.
func NewWorklist() *Worklist {
	return &Worklist{seen: make(map[string]bool)}
}

// Push schedules name unless it was pushed before. It reports whether the
// name was new.
func (w *Worklist) Push(name string) bool {
	if w.seen[name] {
		return false
	}
	w.seen[name] = true
	w.stack = append(w.stack, name)
	return true
}

// Pop removes the most recently pushed pending name.
func (w *Worklist) Pop() (string, bool) {
	if len(w.stack) == 0 {
		return "", false
	}
	last := len(w.stack) - 1
	name := w.stack[last]
	w.stack = w.stack[:last]
	return name, true
}

// Len returns the number of pending names.
func (w *Worklist) Len() int { return len(w.stack) }
