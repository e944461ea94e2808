// Package preview classifies uploaded files into a display strategy for the
// dashboard's file browser. Classification is a pure function of the file
// name; it never fails, falling back to KindOther for anything it does not
// recognize.
package preview

import (
	"path/filepath"
	"strings"
)

// Kind is the coarse content class of a file, derived from its extension.
type Kind string

const (
	KindPDF    Kind = "pdf"
	KindImage  Kind = "image"
	KindText   Kind = "text"
	KindOffice Kind = "office"
	KindOther  Kind = "other"
)

// Mode tells the dashboard how to present a classified file.
type Mode string

const (
	// ModeEmbed embeds the signed URL directly (pdf, plain text).
	ModeEmbed Mode = "embed"
	// ModeInlineImage renders the signed URL as an inline image.
	ModeInlineImage Mode = "inline-image"
	// ModeExternalOnly offers only open-externally and download actions.
	ModeExternalOnly Mode = "external-only"
)

// RenderPlan pairs a resolved signed URL with the way it should be shown.
type RenderPlan struct {
	Kind Kind
	Mode Mode
	URL  string
}

var kindByExt = map[string]Kind{
	".pdf":  KindPDF,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".bmp":  KindImage,
	".svg":  KindImage,
	".txt":  KindText,
	".md":   KindText,
	".csv":  KindText,
	".doc":  KindOffice,
	".docx": KindOffice,
	".xls":  KindOffice,
	".xlsx": KindOffice,
	".ppt":  KindOffice,
	".pptx": KindOffice,
}

// Classify maps a file name to its Kind. The extension match is
// case-insensitive; a missing or unknown extension yields KindOther.
func Classify(fileName string) Kind {
	ext := strings.ToLower(filepath.Ext(fileName))
	if kind, ok := kindByExt[ext]; ok {
		return kind
	}
	return KindOther
}

// Plan builds the render plan for a classified file and its signed URL.
func Plan(kind Kind, url string) RenderPlan {
	plan := RenderPlan{Kind: kind, URL: url}
	switch kind {
	case KindPDF, KindText:
		plan.Mode = ModeEmbed
	case KindImage:
		plan.Mode = ModeInlineImage
	default:
		plan.Mode = ModeExternalOnly
	}
	return plan
}
