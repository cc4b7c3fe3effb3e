package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand groups the local cache management subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response and artifact caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheLayout resolves the two on-disk cache locations. Service responses
// live at the cache root, or at cfg.Cache.Dir when configured; rendered
// artifacts always live under the root's artifacts/ subdirectory.
func cacheLayout(cfg Config) (responses, artifacts string, err error) {
	root, err := cacheDir()
	if err != nil {
		return "", "", fmt.Errorf("get cache dir: %w", err)
	}
	responses = cfg.Cache.Dir
	if responses == "" {
		responses = root
	}
	return responses, filepath.Join(root, "artifacts"), nil
}

// cacheClearCommand creates the "cache clear" subcommand. It removes the
// artifact tree and the response entries but leaves the directories
// themselves, so a clear never races a concurrent export's mkdir.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached service responses and rendered artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(config)
			if err != nil {
				return err
			}
			responses, artifacts, err := cacheLayout(cfg)
			if err != nil {
				return err
			}

			removedArtifacts := countFiles(artifacts)
			if err := os.RemoveAll(artifacts); err != nil {
				return fmt.Errorf("clear artifact cache: %w", err)
			}

			// Response entries are digest-named files directly under the
			// response directory.
			removedResponses := 0
			entries, err := os.ReadDir(responses)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("clear response cache: %w", err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if os.Remove(filepath.Join(responses, entry.Name())) == nil {
					removedResponses++
				}
			}

			if removedArtifacts == 0 && removedResponses == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d rendered artifacts and %d cached responses", removedArtifacts, removedResponses)
			return nil
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(config)
			if err != nil {
				return err
			}
			responses, artifacts, err := cacheLayout(cfg)
			if err != nil {
				return err
			}
			printKeyValue("responses", responses)
			printKeyValue("artifacts", artifacts)
			return nil
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}

// countFiles counts regular files under dir, recursively. A missing
// directory counts as zero.
func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}
