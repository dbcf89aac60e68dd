package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"repo-fetch/helpers"
)

// Options tunes one Materialize call. The zero value is silent.
type Options struct {
	Progress helpers.Progress
	Logf     helpers.Logf
}

func (o *Options) withDefaults() {
	if o.Progress == nil {
		o.Progress = helpers.NopProgress
	}
	if o.Logf == nil {
		o.Logf = helpers.NopLogf
	}
}

// Materialize extracts the selected members into a fresh staging directory
// next to the destination's parent, then promotes the staged top-level
// entries into dest, replacing same-named entries and leaving unrelated
// siblings alone. A single member or item failure is logged and skipped; the
// staging directory is removed on every exit path. Returns the absolute
// destination path.
func Materialize(ctx context.Context, members []*zip.File, prefix, dest string, opts Options) (string, error) {
	opts.withDefaults()

	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("resolving destination %s: %w", dest, err)
	}

	parent := filepath.Dir(destAbs)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("creating destination parent %s: %w", parent, err)
	}

	// Staging lives beside the destination, not under the system temp root,
	// so promotion is a same-volume rename.
	staging, err := os.MkdirTemp(parent, ".repo-fetch-stage-")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			opts.Logf("could not remove staging directory %s: %v", staging, err)
		}
	}()

	if err := extractMembers(ctx, members, prefix, staging, opts); err != nil {
		return "", err
	}

	if err := promote(ctx, staging, destAbs, opts); err != nil {
		return "", err
	}

	return destAbs, nil
}

func extractMembers(ctx context.Context, members []*zip.File, prefix, staging string, opts Options) error {
	for i, member := range members {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(member.Name, prefix)
		rel = strings.TrimRight(rel, "/\\")
		if rel == "" {
			continue
		}

		// Archive member names are attacker-controlled; anything that would
		// escape the staging root is skipped, not normalized.
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			opts.Logf("skipping unsafe member path %q", member.Name)
			continue
		}

		target := filepath.Join(staging, filepath.FromSlash(rel))

		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				opts.Logf("failed to create directory for %s: %v", member.Name, err)
			}
			continue
		}

		if err := extractMember(member, target); err != nil {
			opts.Logf("failed to extract %s: %v", member.Name, err)
			continue
		}

		opts.Progress(int64(i+1), int64(len(members)))
	}

	return nil
}

func extractMember(member *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := member.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// promote moves each staged top-level entry into dest, removing a
// same-named entry first. Item failures are logged and skipped.
func promote(ctx context.Context, staging, dest string, opts Options) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating destination %s: %w", dest, err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return fmt.Errorf("listing staging directory: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		src := filepath.Join(staging, entry.Name())
		dst := filepath.Join(dest, entry.Name())

		if err := os.RemoveAll(dst); err != nil {
			opts.Logf("failed to replace %s: %v", dst, err)
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			opts.Logf("failed to move %s: %v", entry.Name(), err)
		}
	}

	return nil
}
