// Package gh holds the GitHub-specific pieces: archive URL construction and
// the optional downloaded-archive cache.
package gh

import (
	"fmt"

	"repo-fetch/model"
)

const (
	codeloadHost = "codeload.github.com"
	webHost      = "github.com"
)

// ArchiveURL builds the primary zip archive URL for a revision, served
// directly by codeload.
func ArchiveURL(coords model.RepoCoordinates) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/zip/refs/heads/%s",
		codeloadHost,
		coords.Owner,
		coords.Repository,
		coords.Revision,
	)
}

// FallbackArchiveURL builds the secondary archive URL on the web host. It
// resolves tags and commit-ish revisions that the refs/heads form does not.
func FallbackArchiveURL(coords model.RepoCoordinates) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/archive/%s.zip",
		webHost,
		coords.Owner,
		coords.Repository,
		coords.Revision,
	)
}
