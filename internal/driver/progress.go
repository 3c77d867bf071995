package driver

// ProgressEvent reports that Path finished Stage. Done marks the last
// event of a file; Total is the batch size and is set on every event.
type ProgressEvent struct {
	Path   string
	Stage  Stage
	Done   bool
	Cached bool
	Errors int
	Total  int
}

// ProgressFunc receives progress events. Batch jobs call it from several
// goroutines at once.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(ev ProgressEvent) {
	if f != nil {
		f(ev)
	}
}
