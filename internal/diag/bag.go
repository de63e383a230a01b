package diag

// Bag is a buffered diagnostics collector, reports appended as they are
// produced and rendered in bulk at the pipeline boundary (spec.md §4.8).
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0, 8)}
}

func (b *Bag) ReportError(code Code, msg string, d Diagnostic) {
	d.Severity = SevError
	d.Code = code
	d.Message = msg
	b.items = append(b.items, d)
}

func (b *Bag) ReportWarning(code Code, msg string, d Diagnostic) {
	d.Severity = SevWarning
	d.Code = code
	d.Message = msg
	b.items = append(b.items, d)
}

// HasErrors is the terminal predicate: true once at least one error-level
// diagnostic has been reported.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) Len() int { return len(b.items) }

// Merge appends another bag's diagnostics onto this one, in order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}
