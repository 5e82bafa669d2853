package mock

import (
	"context"

	"github.com/fwojciec/lawharvest"
)

var _ lawharvest.RecordIndex = (*RecordIndex)(nil)

// RecordIndex is a mock implementation of lawharvest.RecordIndex.
type RecordIndex struct {
	EnsureIndexFn func(ctx context.Context) error
	IndexRecordFn func(ctx context.Context, docType lawharvest.DocumentType, rec lawharvest.Identifiable) error
	DeleteIndexFn func(ctx context.Context) error
}

func (i *RecordIndex) EnsureIndex(ctx context.Context) error {
	return i.EnsureIndexFn(ctx)
}

func (i *RecordIndex) IndexRecord(ctx context.Context, docType lawharvest.DocumentType, rec lawharvest.Identifiable) error {
	return i.IndexRecordFn(ctx, docType, rec)
}

func (i *RecordIndex) DeleteIndex(ctx context.Context) error {
	return i.DeleteIndexFn(ctx)
}
