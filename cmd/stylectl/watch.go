package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// settleDelay gives editors and build tools time to finish writing a file
// before it is read and uploaded.
const settleDelay = 500 * time.Millisecond

// watchCmd uploads HTML files as they appear in a directory
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and upload new or changed HTML files",
	Long: `Watch a directory and upload every HTML file that is created or
modified in it. Useful while iterating on generated pages: each save feeds
the aggregate profile.

Only files with .html or .htm extensions are uploaded. Press Ctrl-C to stop.

Examples:
  stylectl watch ./dist
  stylectl watch --server http://localhost:8080 ./pages`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// runWatch handles the watch command
func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stderr, "[stylectl] watching %s (Ctrl-C to stop)\n", dir)

	for {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "[stylectl] received %v, stopping\n", sig)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isHTMLFile(event.Name) {
				continue
			}
			time.Sleep(settleDelay)
			if err := uploadSingle(event.Name); err != nil {
				fmt.Fprintf(os.Stderr, "[stylectl] upload failed for %s: %v\n", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "[stylectl] watch error: %v\n", err)
		}
	}
}

// isHTMLFile reports whether the path looks like an HTML document.
func isHTMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
