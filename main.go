// Command repo-fetch downloads a single folder from a GitHub repository by
// fetching the revision archive and extracting just the requested subtree.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repo-fetch/config"
	"repo-fetch/gh"
	"repo-fetch/helpers"
	"repo-fetch/parse"
	"repo-fetch/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	output  string
	timeout time.Duration
	retries int
	backoff float64
	force   bool
	cache   bool
}

func newRootCommand() *cobra.Command {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	var (
		output  string
		timeout int
		retries int
		force   bool
		cache   bool
	)

	cmd := &cobra.Command{
		Use:   "repo-fetch <github-folder-url>",
		Short: "Download a single folder from a GitHub repository",
		Long: `repo-fetch downloads one directory out of a GitHub repository without
cloning it, e.g.:

  repo-fetch https://github.com/owner/repo/tree/main/path/to/dir`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], runOptions{
				output:  output,
				timeout: time.Duration(timeout) * time.Second,
				retries: retries,
				backoff: cfg.BackoffFactor,
				force:   force,
				cache:   cache,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory name (default: folder name)")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", cfg.TimeoutSeconds, "connection timeout in seconds")
	cmd.Flags().IntVarP(&retries, "retries", "r", cfg.MaxRetries, "number of retries for failed downloads")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output directory without asking")
	cmd.Flags().BoolVar(&cache, "cache", cfg.CacheArchives, "reuse previously downloaded archives")

	return cmd
}

func run(ctx context.Context, locator string, opts runOptions) error {
	coords, err := parse.FolderURL(locator)
	if err != nil {
		return err
	}

	folder := coords.Subpath
	if folder == "" {
		folder = "(repository root)"
	}
	fmt.Printf("[-] Repository: %s/%s (revision: %s)\n", coords.Owner, coords.Repository, coords.Revision)
	fmt.Printf("[-] Folder: %s\n", folder)

	if opts.output != "" && !opts.force {
		if info, err := os.Stat(opts.output); err == nil && info.IsDir() {
			if !confirmOverwrite(opts.output) {
				fmt.Println("Download cancelled.")
				return nil
			}
		}
	}

	var archiveCache *gh.ArchiveCache
	if opts.cache {
		archiveCache = gh.NewArchiveCache()
	}

	downloadBar := &lazyBar{showBytes: true}
	extractBar := &lazyBar{}

	dest, err := pipeline.Run(ctx, locator, pipeline.Options{
		OutputDir:        opts.output,
		Timeout:          opts.timeout,
		MaxRetries:       opts.retries,
		BackoffFactor:    opts.backoff,
		Cache:            archiveCache,
		DownloadProgress: downloadBar.observe,
		ExtractProgress: func(current, total int64) {
			downloadBar.finish()
			extractBar.observe(current, total)
		},
		Logf: warnf,
	})
	downloadBar.finish()
	extractBar.finish()
	if err != nil {
		return err
	}

	fmt.Printf(
		"%s Downloaded %s to %s\n",
		color.GreenString("[+]"),
		humanize.Bytes(uint64(downloadBar.current)),
		dest,
	)
	return nil
}

func confirmOverwrite(dir string) bool {
	fmt.Printf("Output directory %q already exists.\n", dir)
	fmt.Print("Do you want to overwrite? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// lazyBar starts its progress bar on the first observation, so the download
// and extraction bars never render at the same time.
type lazyBar struct {
	showBytes bool
	bar       *pb.ProgressBar
	update    helpers.Progress
	current   int64
	finished  bool
}

func (l *lazyBar) observe(current, total int64) {
	if l.finished {
		return
	}
	if l.bar == nil {
		l.bar = pb.Full.Start64(total)
		l.bar.Set(pb.Bytes, l.showBytes)
		l.update = helpers.NewBarProgress(l.bar)
	}
	l.current = current
	l.update(current, total)
}

func (l *lazyBar) finish() {
	if l.bar != nil && !l.finished {
		l.bar.Finish()
	}
	l.finished = true
}
