package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repo-fetch/model"
)

func TestArchivePrefix(t *testing.T) {
	withSubpath := model.RepoCoordinates{
		Owner:      "acme",
		Repository: "widgets",
		Revision:   "v2",
		Subpath:    "src/lib",
	}
	assert.Equal(t, "widgets-v2/src/lib/", withSubpath.ArchivePrefix())

	wholeRepo := model.RepoCoordinates{
		Owner:      "acme",
		Repository: "widgets",
		Revision:   "main",
	}
	assert.Equal(t, "widgets-main/", wholeRepo.ArchivePrefix())
}

func TestDefaultOutputDir(t *testing.T) {
	tests := []struct {
		name     string
		coords   model.RepoCoordinates
		expected string
	}{
		{
			name:     "last subpath segment",
			coords:   model.RepoCoordinates{Repository: "widgets", Subpath: "src/lib"},
			expected: "lib",
		},
		{
			name:     "single segment subpath",
			coords:   model.RepoCoordinates{Repository: "widgets", Subpath: "docs"},
			expected: "docs",
		},
		{
			name:     "repository name for whole repo",
			coords:   model.RepoCoordinates{Repository: "widgets"},
			expected: "widgets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coords.DefaultOutputDir())
		})
	}
}
