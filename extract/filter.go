// Package extract filters a source archive down to one subtree and
// materializes it onto the filesystem through a staging directory, so a
// partial failure never corrupts a pre-existing destination.
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"strings"
)

// ErrSubpathNotFound signals that the requested subtree has no members in
// the archive. This is the only way to learn that a subpath does not exist
// in the given revision.
var ErrSubpathNotFound = errors.New("subpath not found in repository archive")

// FilterMembers selects the archive members under prefix, excluding the
// directory marker entry for the prefix itself. Members keep the archive's
// insertion order; callers must not assume alphabetical order.
func FilterMembers(reader *zip.Reader, prefix string) ([]*zip.File, error) {
	var members []*zip.File
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, prefix) && file.Name != prefix {
			members = append(members, file)
		}
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no members under %q", ErrSubpathNotFound, prefix)
	}

	return members, nil
}
