package reconcile

import "github.com/dishubaceh/damprah/internal/server/models"

// DeltaKind discriminates the two mutations the lifecycle controller can
// produce.
type DeltaKind int

const (
	FileAdded DeltaKind = iota
	FileRemoved
)

// Delta is one mutation applied to a port's view. Upload and delete both go
// through Apply, so there is exactly one derivation path shared with full
// reconciliation.
type Delta struct {
	Kind DeltaKind
	Row  *models.Document
}

// View is the in-memory document table of one port: the template set, the
// per-template row groups, and the derived rows. It is not safe for
// concurrent use; the owning service serializes access.
type View struct {
	templates []models.DocumentTemplate
	groups    map[string][]*models.Document
	rows      []RowView
	loaded    bool
}

// NewView builds an empty view in which every template is NotUploaded. This
// is the first-load default when the metadata store has not been read yet.
func NewView(templates []models.DocumentTemplate) *View {
	v := &View{templates: templates}
	v.Load(nil)
	v.loaded = false
	return v
}

// Load replaces the view's contents with a full reconciliation of rows.
func (v *View) Load(rows []*models.Document) {
	v.groups = groupByTemplate(rows)
	v.rows = Reconcile(v.templates, rows)
	v.loaded = true
}

// Loaded reports whether the view has seen at least one successful load.
// Before that, Rows returns the all-NotUploaded default.
func (v *View) Loaded() bool { return v.loaded }

// Apply patches the view with a single mutation. Added rows are prepended to
// their group (most recent first); removed rows are matched by path, with an
// id fallback for rows whose path normalization drifted. Rows that resolve
// to no template are ignored. Only the affected template's row is rederived.
func (v *View) Apply(d Delta) {
	id, ok := d.Row.ResolveTemplateID()
	if !ok {
		return
	}

	switch d.Kind {
	case FileAdded:
		v.groups[id] = append([]*models.Document{d.Row}, v.groups[id]...)
	case FileRemoved:
		group := v.groups[id]
		for i, row := range group {
			if row.Path == d.Row.Path || (d.Row.ID != "" && row.ID == d.Row.ID) {
				v.groups[id] = append(group[:i], group[i+1:]...)
				break
			}
		}
	}

	v.rederive(id)
}

func (v *View) rederive(templateID string) {
	for i, tpl := range v.templates {
		if tpl.ID == templateID {
			v.rows[i] = deriveRow(tpl, v.groups[templateID])
			return
		}
	}
}

// Rows returns the derived table rows in template order. The returned slice
// is a copy.
func (v *View) Rows() []RowView {
	out := make([]RowView, len(v.rows))
	copy(out, v.rows)
	return out
}

// Group returns the document group of one template, most recent first.
func (v *View) Group(templateID string) []*models.Document {
	group := v.groups[templateID]
	ordered := make([]*models.Document, len(group))
	copy(ordered, group)
	return ordered
}
