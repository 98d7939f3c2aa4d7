package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nixdiff/nixdiff/store"
)

func TestHighlightChangedChars(t *testing.T) {
	DisableColors()

	cases := []struct {
		name string
		from string
		to   string
		want string
	}{
		{
			name: "identical versions",
			from: "1.2.3",
			to:   "1.2.3",
			want: "1.2.3",
		},
		{
			name: "patch bump",
			from: "1.2.3",
			to:   "1.2.4",
			want: "1.2.4",
		},
		{
			name: "new version longer",
			from: "8",
			to:   "8.4.0",
			want: "8.4.0",
		},
		{
			name: "new version shorter",
			from: "4.0-rc5",
			to:   "4.0",
			want: "4.0",
		},
		{
			name: "empty old version",
			from: "",
			to:   "2.27",
			want: "2.27",
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, highlightChangedChars(test.from, test.to))
		})
	}
}

func TestIsDowngrade(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{
			name: "upgrade",
			from: "1.2.3",
			to:   "1.3.0",
			want: false,
		},
		{
			name: "downgrade",
			from: "5.0.0",
			to:   "4.8.30",
			want: true,
		},
		{
			name: "equal",
			from: "2.27.0",
			to:   "2.27.0",
			want: false,
		},
		{
			name: "old version not semver",
			from: "2016-08-26",
			to:   "1.0.0",
			want: false,
		},
		{
			name: "new version not semver",
			from: "1.0.0",
			to:   "7788-4c59395",
			want: false,
		},
		{
			// The semver library would coerce these dates to 2016.0.0 and
			// 2019.0.0; the strict gate keeps them out entirely.
			name: "date versions never flagged",
			from: "2019-02-15",
			to:   "2016-08-26",
			want: false,
		},
		{
			name: "two-component version never flagged",
			from: "4.1",
			to:   "4.0",
			want: false,
		},
		{
			name: "v-prefixed strict semver",
			from: "v1.2.0",
			to:   "v1.1.0",
			want: true,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, isDowngrade(test.from, test.to))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "glxinfo", displayName(store.StoreDiff{Name: "glxinfo"}))
	assert.Equal(t, "wine-wow|staging",
		displayName(store.StoreDiff{Name: "wine-wow", Suffix: "staging"}))
}

func TestFormatVersionChangeMarksDowngrade(t *testing.T) {
	DisableColors()

	change := formatVersionChange(store.StoreDiff{VerFrom: "5.0.0", VerTo: "4.8.30"})
	assert.Contains(t, change, "5.0.0 -> 4.8.30")
	assert.Contains(t, change, "(downgrade)")

	change = formatVersionChange(store.StoreDiff{VerFrom: "4.8.30", VerTo: "5.0.0"})
	assert.NotContains(t, change, "(downgrade)")
}
