package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishubaceh/damprah/internal/server/models"
)

func TestNewView_DefaultsToNotUploaded(t *testing.T) {
	v := NewView(testTemplates)

	assert.False(t, v.Loaded())
	for _, row := range v.Rows() {
		assert.Equal(t, StatusNotUploaded, row.Status)
	}
}

func TestView_ApplyAddMatchesFullReconcile(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	existing := doc("1", "d1", "ulee-lheue/d1/100_induk.pdf", "induk.pdf", t0, "")
	added := doc("2", "d1", "ulee-lheue/d1/200_induk_v2.pdf", "induk_v2.pdf", t0.Add(time.Minute), "")

	v := NewView(testTemplates)
	v.Load([]*models.Document{existing})
	v.Apply(Delta{Kind: FileAdded, Row: added})

	// Rerunning full reconciliation over the store's state must agree with
	// the incremental patch.
	want := Reconcile(testTemplates, []*models.Document{added, existing})
	assert.Equal(t, want, v.Rows())
}

func TestView_UploadThenDeleteScenario(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := doc("7", "d1", "ulee-lheue/d1/100_induk.pdf", "induk.pdf", t0, "")

	v := NewView(testTemplates)
	v.Load(nil)

	v.Apply(Delta{Kind: FileAdded, Row: row})
	got := v.Rows()[0]
	require.Equal(t, StatusUploaded, got.Status)
	require.Equal(t, "induk.pdf", got.LastFileName)

	v.Apply(Delta{Kind: FileRemoved, Row: row})
	got = v.Rows()[0]
	assert.Equal(t, StatusNotUploaded, got.Status)
	assert.Empty(t, got.LastFileName)
	assert.Nil(t, got.LastUploadedAt)
}

func TestView_RemoveFallsBackToNextLatest(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := doc("1", "d1", "ulee-lheue/d1/100_v1.pdf", "v1.pdf", t0, "verified")
	newer := doc("2", "d1", "ulee-lheue/d1/200_v2.pdf", "v2.pdf", t0.Add(time.Hour), "")

	v := NewView(testTemplates)
	v.Load([]*models.Document{newer, older})

	v.Apply(Delta{Kind: FileRemoved, Row: newer})

	got := v.Rows()[0]
	assert.Equal(t, StatusVerified, got.Status, "next-latest row's status surfaces")
	assert.Equal(t, "v1.pdf", got.LastFileName)
	assert.Equal(t, 1, got.FileCount)
}

func TestView_RemoveByIDFallback(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := doc("9", "d2", "ulee-lheue/d2/100_fs.pdf", "fs.pdf", t0, "")

	v := NewView(testTemplates)
	v.Load([]*models.Document{stored})

	// Path normalization drifted; the id still identifies the row.
	v.Apply(Delta{Kind: FileRemoved, Row: doc("9", "d2", "/ulee-lheue/d2/100_fs.pdf", "fs.pdf", t0, "")})

	assert.Equal(t, StatusNotUploaded, v.Rows()[1].Status)
}

func TestView_RemovedRowNeverResurrects(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := doc("1", "d1", "ulee-lheue/d1/100_a.pdf", "a.pdf", t0, "")

	v := NewView(testTemplates)
	v.Load([]*models.Document{row})
	v.Apply(Delta{Kind: FileRemoved, Row: row})

	// Applying the same removal again is a no-op.
	v.Apply(Delta{Kind: FileRemoved, Row: row})

	assert.Equal(t, StatusNotUploaded, v.Rows()[0].Status)
	assert.Empty(t, v.Group("d1"))
}

func TestView_ApplyIgnoresUnresolvableRow(t *testing.T) {
	v := NewView(testTemplates)
	v.Load(nil)

	v.Apply(Delta{Kind: FileAdded, Row: &models.Document{ID: "1", Path: "noslash.pdf"}})

	for _, row := range v.Rows() {
		assert.Equal(t, StatusNotUploaded, row.Status)
	}
}
