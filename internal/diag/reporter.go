package diag

// Reporter принимает диагностики, которые фаза выдаёт по ходу работы.
type Reporter interface {
	Report(d Diagnostic)
}

// Emit hands d to r; a nil reporter drops it.
func Emit(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d)
	}
}

// BagReporter пишет диагностики в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}
