package model

import "path"

// RepoCoordinates holds the addressable parts of a GitHub folder reference.
// Immutable once parsed; one value lives for one invocation.
type RepoCoordinates struct {
	Owner      string
	Repository string
	Revision   string
	Subpath    string
}

// ArchivePrefix returns the member-path prefix that identifies the requested
// subtree inside a GitHub source archive. Archives for a revision unpack
// under "{repo}-{revision}/".
func (c RepoCoordinates) ArchivePrefix() string {
	prefix := c.Repository + "-" + c.Revision + "/"
	if c.Subpath != "" {
		prefix += c.Subpath + "/"
	}
	return prefix
}

// DefaultOutputDir derives the destination directory name when the caller
// did not supply one: the last subpath segment, or the repository name when
// the whole repo root was requested.
func (c RepoCoordinates) DefaultOutputDir() string {
	if c.Subpath == "" {
		return c.Repository
	}
	return path.Base(c.Subpath)
}
