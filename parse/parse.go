// Package parse turns a user-supplied GitHub folder URL into structured
// repository coordinates. Parsing is pure: no I/O, no network.
package parse

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"repo-fetch/model"
)

// ErrInvalidReference is returned for any locator that does not identify a
// GitHub repository folder.
var ErrInvalidReference = errors.New("invalid repository reference")

var (
	ownerRegex = regexp.MustCompile(`^[\w-]+$`)
	repoRegex  = regexp.MustCompile(`^[\w.-]+$`)
)

// Ref selector segments as they appear in github.com URLs: "tree" addresses
// a branch or tag, "blob" a single file under one.
const (
	selectorTree = "tree"
	selectorBlob = "blob"
)

// FolderURL parses a locator of the form
// https://github.com/owner/repo[/tree/revision[/sub/path]] into
// RepoCoordinates. The revision defaults to "main" when the URL stops at the
// repository; a trailing slash is insignificant.
func FolderURL(rawURL string) (model.RepoCoordinates, error) {
	rawURL = strings.TrimRight(rawURL, "/\\")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return model.RepoCoordinates{}, fmt.Errorf("%w: %s", ErrInvalidReference, rawURL)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return model.RepoCoordinates{}, fmt.Errorf("%w: %s", ErrInvalidReference, rawURL)
	}

	host := strings.ToLower(parsedURL.Host)
	if host != "github.com" && host != "www.github.com" {
		return model.RepoCoordinates{}, fmt.Errorf(
			"%w: unsupported host %q, expected github.com", ErrInvalidReference, parsedURL.Host,
		)
	}

	segments := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return model.RepoCoordinates{}, fmt.Errorf(
			"%w: URL does not point to a repository: %s", ErrInvalidReference, rawURL,
		)
	}

	owner := segments[0]
	repository := segments[1]
	if !ownerRegex.MatchString(owner) || !repoRegex.MatchString(repository) {
		return model.RepoCoordinates{}, fmt.Errorf(
			"%w: malformed owner/repository: %s/%s", ErrInvalidReference, owner, repository,
		)
	}

	coords := model.RepoCoordinates{
		Owner:      owner,
		Repository: repository,
		Revision:   "main",
	}

	if len(segments) > 2 && (segments[2] == selectorTree || segments[2] == selectorBlob) {
		if len(segments) > 3 {
			coords.Revision = segments[3]
		}
		if len(segments) > 4 {
			coords.Subpath = strings.Join(segments[4:], "/")
		}
	}

	return coords, nil
}
