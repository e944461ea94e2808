// Package reconcile derives per-template document statuses for a port from
// the raw metadata rows. The derivation is pure: it never touches the
// database or the storage gateway, and it is the single code path used both
// for full reconciliation and for incremental deltas applied after an upload
// or delete.
package reconcile

import (
	"sort"
	"time"

	"github.com/dishubaceh/damprah/internal/server/models"
)

// Status is the derived fulfillment state of one template for one port.
type Status string

const (
	StatusNotUploaded Status = "not_uploaded"
	StatusUploaded    Status = "uploaded"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
)

// RowView is the derived table row for one (port, template) pair. It owns no
// independent state; it is recomputed whenever the underlying document set
// for the template changes.
type RowView struct {
	TemplateID     string
	Title          string
	Status         Status
	FileCount      int
	LastFileName   string
	LastUploadedAt *time.Time
	Note           string
}

// Reconcile computes one RowView per template, in template order. Rows whose
// template cannot be resolved (no explicit id and a path with fewer than two
// segments) are skipped. The input row order is the query order; ties on
// UploadedAt resolve to the earlier input row, so callers get deterministic
// output for deterministic input.
func Reconcile(templates []models.DocumentTemplate, rows []*models.Document) []RowView {
	groups := groupByTemplate(rows)

	views := make([]RowView, 0, len(templates))
	for _, tpl := range templates {
		views = append(views, deriveRow(tpl, groups[tpl.ID]))
	}
	return views
}

// groupByTemplate buckets rows by resolved template id, preserving input
// order inside each bucket. Unresolvable rows are dropped.
func groupByTemplate(rows []*models.Document) map[string][]*models.Document {
	groups := make(map[string][]*models.Document)
	for _, row := range rows {
		id, ok := row.ResolveTemplateID()
		if !ok {
			continue
		}
		groups[id] = append(groups[id], row)
	}
	return groups
}

// deriveRow computes the view for a single template from its group. An empty
// group means NotUploaded. Otherwise the group is ordered newest-first
// (stable, so equal timestamps keep input order) and the latest row decides
// the status: an explicit reviewer status wins, else Uploaded.
func deriveRow(tpl models.DocumentTemplate, group []*models.Document) RowView {
	view := RowView{TemplateID: tpl.ID, Title: tpl.Title, Status: StatusNotUploaded}
	if len(group) == 0 {
		return view
	}

	ordered := make([]*models.Document, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UploadedAt.After(ordered[j].UploadedAt)
	})

	latest := ordered[0]
	view.FileCount = len(ordered)
	view.LastFileName = latest.FileName
	ts := latest.UploadedAt
	view.LastUploadedAt = &ts
	view.Note = latest.FileName
	view.Status = statusOf(latest)
	return view
}

// statusOf maps a row's recorded status to the derived one. Anything other
// than the two reviewer verdicts means plain Uploaded.
func statusOf(d *models.Document) Status {
	switch d.Status {
	case string(StatusVerified):
		return StatusVerified
	case string(StatusRejected):
		return StatusRejected
	default:
		return StatusUploaded
	}
}
