package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/griddock/griddock/pkg/icons"
)

// iconsCommand creates the icon cache management command.
func (c *CLI) iconsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Manage the icon cache",
	}

	cmd.AddCommand(c.iconsClearCommand())
	cmd.AddCommand(c.iconsPathCommand())

	return cmd
}

// iconsClearCommand creates the "icons clear" subcommand.
func (c *CLI) iconsClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached icons",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			dir, err := resolveIconCacheDir(s)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || info.IsDir() {
					return nil
				}
				count++
				return nil
			})

			cache, err := icons.NewFileCache(dir, s.FaviconTTL())
			if err != nil {
				return err
			}
			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}

			printSuccess("Cleared %d cached icons", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// iconsPathCommand creates the "icons path" subcommand.
func (c *CLI) iconsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the icon cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			dir, err := resolveIconCacheDir(s)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
