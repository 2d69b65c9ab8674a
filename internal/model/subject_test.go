package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseProgressKey(t *testing.T) {
	tests := []struct {
		key         string
		wantSubject string
		wantType    ProgressType
		wantOK      bool
	}{
		{"maths-lectures", "maths", ProgressLectures, true},
		{"class11-dpp", "class11", ProgressDPP, true},
		{"physics11-videos", "", "", false},
		{"physics", "", "", false},
		{"-dpp", "", "", false},
		{"maths-dpp-extra", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			subject, typ, ok := ParseProgressKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Equal(t, tt.wantType, typ)
		})
	}
}

func TestClassCatalog(t *testing.T) {
	c12, ok := CatalogFor(Class12)
	assert.True(t, ok)
	assert.Equal(t, []string{"maths", "physics", "chemistry", "class12"}, c12.Members())
	assert.True(t, c12.Allows("class12"))
	assert.True(t, c12.Allows("physics"))
	assert.False(t, c12.Allows("physics11"))
	assert.False(t, c12.Allows("class11"))

	_, ok = CatalogFor(ClassLevel(10))
	assert.False(t, ok)

	assert.True(t, IsKnownSubject("chemistry11"))
	assert.False(t, IsKnownSubject("biology"))
}

func TestDefaultTotal(t *testing.T) {
	assert.Equal(t, 30, DefaultTotal("maths", ProgressLectures))
	assert.Equal(t, 20, DefaultTotal("physics11", ProgressDPP))
	assert.Equal(t, 90, DefaultTotal("class11", ProgressLectures))
	assert.Equal(t, 60, DefaultTotal("class12", ProgressDPP))
}

func TestSeedProgress(t *testing.T) {
	rows := SeedProgress(uuid.New(), time.Now())
	assert.Len(t, rows, 16)
	keys := make(map[string]bool)
	for _, r := range rows {
		keys[ProgressKey(r.Subject, r.Type)] = true
		assert.Zero(t, r.Completed)
	}
	assert.Len(t, keys, 16, "キーは重複しない")
}
