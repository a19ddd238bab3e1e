package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docslice/carve/internal/doc"
	"github.com/docslice/carve/internal/engine"
	"github.com/docslice/carve/internal/output"
	"github.com/docslice/carve/internal/profile"
)

var (
	segmentProfile string
	segmentTokens  string
	segmentPDF     string
	segmentWatch   bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Resolve profile regions against a token dump",
	Long: `Resolve every region in the profile against the pages of a token
dump and print the resulting region map.

The token dump is the JSON extraction output for one document: pages,
their text tokens with normalized bounding boxes, and any detected
table hints. Pass --pdf to cross-check the dump's page count against
the source PDF before resolving.

With --watch the profile file is re-read and the document re-segmented
on every save, which makes iterating on window distances cheap.

Examples:
  carve segment -p invoice.yaml -t tokens.json
  carve segment -p invoice.yaml -t tokens.json --pdf invoice.pdf
  carve segment -p invoice.yaml -t tokens.json --watch -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		profilePath, err := resolveProfilePath(segmentProfile)
		if err != nil {
			return err
		}

		d, err := doc.LoadFile(segmentTokens)
		if err != nil {
			return err
		}
		if segmentPDF != "" {
			if err := doc.VerifyAgainstPDF(d, segmentPDF); err != nil {
				return err
			}
		}

		p, err := printer(cmd)
		if err != nil {
			return err
		}

		if err := segmentOnce(ctx, profilePath, d, p); err != nil {
			return err
		}
		if !segmentWatch {
			return nil
		}
		return watchProfile(ctx, profilePath, d, p)
	},
}

// segmentOnce loads the profile, resolves the document, and prints the
// region map.
func segmentOnce(ctx context.Context, profilePath string, d *doc.Document, p *output.Printer) error {
	prof, warnings, err := profile.Load(profilePath, logger)
	if err != nil {
		return err
	}

	eng, err := engine.New(prof,
		engine.WithLogger(logger),
		engine.WithWorkers(cfgManager.Get().Workers),
		engine.WithWarnings(warnings),
	)
	if err != nil {
		return err
	}

	res, err := eng.Resolve(ctx, d)
	if err != nil {
		return err
	}
	return p.Print(res)
}

// watchProfile re-runs segmentation whenever the profile file changes.
// Editors save via rename or truncate-then-write, so reloads are
// retried briefly before a parse failure is reported.
func watchProfile(ctx context.Context, profilePath string, d *doc.Document, p *output.Printer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: rename-style saves replace
	// the inode and would silently drop a file watch.
	if err := watcher.Add(filepath.Dir(profilePath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", profilePath, err)
	}

	logger.Info("watching profile", "path", profilePath)
	target := filepath.Clean(profilePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			err := retry.Do(
				func() error { return segmentOnce(ctx, profilePath, d, p) },
				retry.Context(ctx),
				retry.Attempts(3),
				retry.Delay(100*time.Millisecond),
			)
			if err != nil {
				logger.Error("reload failed", "path", profilePath, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentProfile, "profile", "p", "", "segmentation profile (yaml path or saved profile name)")
	segmentCmd.Flags().StringVarP(&segmentTokens, "tokens", "t", "", "token dump (json)")
	segmentCmd.Flags().StringVar(&segmentPDF, "pdf", "", "source PDF to cross-check page count against")
	segmentCmd.Flags().BoolVar(&segmentWatch, "watch", false, "re-segment whenever the profile changes")
	_ = segmentCmd.MarkFlagRequired("profile")
	_ = segmentCmd.MarkFlagRequired("tokens")

	rootCmd.AddCommand(segmentCmd)
}
