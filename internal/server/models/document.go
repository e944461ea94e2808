package models

import (
	"strings"
	"time"
)

// Document is one uploaded object's metadata row. The object itself lives in
// the storage bucket under Path; Path is an opaque locator
// ("<portID>/<templateID>/<unixMillis>_<fileName>") and TemplateID is the
// authoritative join key. Rows written before the template_id column existed
// have it empty and fall back to path parsing during reconciliation.
type Document struct {
	ID         string
	PortID     string
	TemplateID string
	FileName   string
	Path       string
	UploadedAt time.Time
	UploadedBy string
	// Status is the reviewer-recorded status ("verified", "rejected") or
	// empty, in which case presence of the row means "uploaded".
	Status string
}

// ResolveTemplateID returns the template the document belongs to. It prefers
// the explicit column and falls back to the second path segment. The second
// return value is false when neither source yields a template id; such rows
// are excluded from every group, never an error.
func (d *Document) ResolveTemplateID() (string, bool) {
	if d.TemplateID != "" {
		return d.TemplateID, true
	}
	segments := strings.Split(d.Path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", false
	}
	return segments[1], true
}
