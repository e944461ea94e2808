// Package registry holds the static reference data of the dashboard: the six
// ferry ports of the Aceh crossing network and the nine document templates
// every port must supply. Both sets are fixed at build time and shared by all
// ports; the slice order of Templates defines document table row order.
package registry

import "github.com/dishubaceh/damprah/internal/server/models"

var ports = []models.Port{
	{ID: "ulee-lheue", Name: "Pelabuhan Ulee Lheue", Region: "Kota Banda Aceh", Lat: 5.564771, Lng: 95.293473},
	{ID: "lamteng", Name: "Pelabuhan Lamteng", Region: "Aceh Besar", Lat: 5.6417549, Lng: 95.1589633},
	{ID: "meulaboh", Name: "Pelabuhan Meulaboh", Region: "Aceh Barat", Lat: 4.2050372, Lng: 96.0397789},
	{ID: "labuhan-haji", Name: "Pelabuhan Labuhan Haji", Region: "Aceh Selatan", Lat: 3.5460545, Lng: 96.998153},
	{ID: "sinabang", Name: "Pelabuhan Sinabang", Region: "Simeulue", Lat: 2.4563128, Lng: 96.4025222},
	{ID: "pulau-banyak", Name: "Pelabuhan Pulau Banyak", Region: "Aceh Singkil", Lat: 2.2954307, Lng: 97.4069009},
}

var templates = []models.DocumentTemplate{
	{ID: "d1", Title: "Rencana Induk Pelabuhan"},
	{ID: "d2", Title: "FS"},
	{ID: "d3", Title: "DED"},
	{ID: "d4", Title: "Dokumen Amdal"},
	{ID: "d5", Title: "Surat Kementerian Perhubungan"},
	{ID: "d6", Title: "Surat Gubernur Aceh"},
	{ID: "d7", Title: "Surat Kepala Dinas"},
	{ID: "d8", Title: "Data Sarana Prasarana Pelabuhan"},
	{ID: "d9", Title: "Dokumen P3D"},
}

// Ports returns the fixed port set in display order. The returned slice is a
// copy; callers may not mutate the registry.
func Ports() []models.Port {
	out := make([]models.Port, len(ports))
	copy(out, ports)
	return out
}

// PortByID looks up a port by its identifier.
func PortByID(id string) (models.Port, bool) {
	for _, p := range ports {
		if p.ID == id {
			return p, true
		}
	}
	return models.Port{}, false
}

// Templates returns the required document kinds in table row order.
func Templates() []models.DocumentTemplate {
	out := make([]models.DocumentTemplate, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a document template by its identifier.
func TemplateByID(id string) (models.DocumentTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.DocumentTemplate{}, false
}
