package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts_FixedSet(t *testing.T) {
	ps := Ports()
	require.Len(t, ps, 6)

	assert.Equal(t, "ulee-lheue", ps[0].ID)
	assert.Equal(t, "pulau-banyak", ps[5].ID)

	for _, p := range ps {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Region)
		assert.NotZero(t, p.Lat)
		assert.NotZero(t, p.Lng)
	}
}

func TestTemplates_OrderAndCount(t *testing.T) {
	ts := Templates()
	require.Len(t, ts, 9)

	assert.Equal(t, "d1", ts[0].ID)
	assert.Equal(t, "Rencana Induk Pelabuhan", ts[0].Title)
	assert.Equal(t, "d9", ts[8].ID)
	assert.Equal(t, "Dokumen P3D", ts[8].Title)
}

func TestPortByID(t *testing.T) {
	p, ok := PortByID("sinabang")
	require.True(t, ok)
	assert.Equal(t, "Simeulue", p.Region)

	_, ok = PortByID("atlantis")
	assert.False(t, ok)
}

func TestTemplateByID(t *testing.T) {
	tpl, ok := TemplateByID("d4")
	require.True(t, ok)
	assert.Equal(t, "Dokumen Amdal", tpl.Title)

	_, ok = TemplateByID("d10")
	assert.False(t, ok)
}

func TestRegistryCopies_AreNotAliased(t *testing.T) {
	a := Templates()
	a[0].Title = "mutated"

	b := Templates()
	assert.Equal(t, "Rencana Induk Pelabuhan", b[0].Title)
}
