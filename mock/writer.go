package mock

import "github.com/fwojciec/lawharvest"

var _ lawharvest.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of lawharvest.RecordWriter.
type RecordWriter struct {
	WriteCasesFn func(path string, cases []*lawharvest.CaseRecord) error
	WriteJSONFn  func(path string, v any) error
}

func (w *RecordWriter) WriteCases(path string, cases []*lawharvest.CaseRecord) error {
	return w.WriteCasesFn(path, cases)
}

func (w *RecordWriter) WriteJSON(path string, v any) error {
	return w.WriteJSONFn(path, v)
}
