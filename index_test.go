package lawharvest_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/lawharvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	t.Parallel()

	t.Run("stable for identical identity fields", func(t *testing.T) {
		t.Parallel()

		a := &lawharvest.CaseRecord{CaseName: "John Doe v Jane Roe", Citation: "[2024] KEHC 10", SourceURL: "a"}
		b := &lawharvest.CaseRecord{CaseName: "John Doe v Jane Roe", Citation: "[2024] KEHC 10", SourceURL: "b"}

		idA, err := lawharvest.DocumentID(a)
		require.NoError(t, err)
		idB, err := lawharvest.DocumentID(b)
		require.NoError(t, err)

		assert.Equal(t, idA, idB)
		assert.Len(t, idA, 16)
	})

	t.Run("differs by identity fields", func(t *testing.T) {
		t.Parallel()

		idA, err := lawharvest.DocumentID(&lawharvest.ActRecord{ActTitle: "Finance Act", ChapterNumber: "1"})
		require.NoError(t, err)
		idB, err := lawharvest.DocumentID(&lawharvest.ActRecord{ActTitle: "Finance Act", ChapterNumber: "2"})
		require.NoError(t, err)

		assert.NotEqual(t, idA, idB)
	})

	t.Run("falls back to whole record hash", func(t *testing.T) {
		t.Parallel()

		a := &lawharvest.CaseRecord{SourceURL: "https://new.kenyalaw.org/judgments/1"}
		b := &lawharvest.CaseRecord{SourceURL: "https://new.kenyalaw.org/judgments/2"}

		idA, err := lawharvest.DocumentID(a)
		require.NoError(t, err)
		idB, err := lawharvest.DocumentID(b)
		require.NoError(t, err)

		assert.Len(t, idA, 16)
		assert.NotEqual(t, idA, idB)
	})
}

func TestIndexBody(t *testing.T) {
	t.Parallel()

	rec := &lawharvest.ActRecord{ActTitle: "Finance Act", SourceURL: "u"}
	b, err := lawharvest.IndexBody(lawharvest.DocumentTypeLegislation, rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "legislation", m["document_type"])
	assert.Equal(t, "Finance Act", m["act_title"])
}
