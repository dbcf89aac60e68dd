package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repo-fetch/model"
	"repo-fetch/parse"
)

func TestFolderURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expected    model.RepoCoordinates
		expectError bool
	}{
		{
			name: "repository root defaults to main",
			url:  "https://github.com/owner/repo",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
			},
		},
		{
			name: "trailing slash is insignificant",
			url:  "https://github.com/owner/repo/",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
			},
		},
		{
			name: "tree selector with revision and subpath",
			url:  "https://github.com/acme/widgets/tree/v2/src/lib",
			expected: model.RepoCoordinates{
				Owner:      "acme",
				Repository: "widgets",
				Revision:   "v2",
				Subpath:    "src/lib",
			},
		},
		{
			name: "blob selector",
			url:  "https://github.com/owner/repo/blob/main/docs/readme.md",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
				Subpath:    "docs/readme.md",
			},
		},
		{
			name: "tree selector without subpath",
			url:  "https://github.com/owner/repo/tree/develop",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "develop",
			},
		},
		{
			name: "subpath with trailing slash",
			url:  "https://github.com/owner/repo/tree/main/dir/",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
				Subpath:    "dir",
			},
		},
		{
			name: "www host accepted",
			url:  "https://www.github.com/owner/repo",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
			},
		},
		{
			name: "extra segment without selector keeps defaults",
			url:  "https://github.com/owner/repo/issues",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "repo",
				Revision:   "main",
			},
		},
		{
			name: "repository name with dots",
			url:  "https://github.com/owner/my.repo-v2/tree/main/src",
			expected: model.RepoCoordinates{
				Owner:      "owner",
				Repository: "my.repo-v2",
				Revision:   "main",
				Subpath:    "src",
			},
		},
		{
			name:        "unsupported host",
			url:         "https://gitlab.com/owner/repo",
			expectError: true,
		},
		{
			name:        "missing repository segment",
			url:         "https://github.com/owner",
			expectError: true,
		},
		{
			name:        "not a URL",
			url:         "owner/repo",
			expectError: true,
		},
		{
			name:        "unsupported scheme",
			url:         "ftp://github.com/owner/repo",
			expectError: true,
		},
		{
			name:        "owner with unsafe characters",
			url:         "https://github.com/ow%20ner/repo",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, err := parse.FolderURL(tt.url)

			if tt.expectError {
				assert.ErrorIs(t, err, parse.ErrInvalidReference)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, coords)
		})
	}
}

func TestFolderURLIsPure(t *testing.T) {
	url := "https://github.com/acme/widgets/tree/v2/src/lib"

	first, err := parse.FolderURL(url)
	assert.NoError(t, err)
	second, err := parse.FolderURL(url)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
