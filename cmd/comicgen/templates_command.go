package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"comicgen/internal/config"
	"comicgen/internal/render"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Template utilities",
	}
	templatesCmd.AddCommand(newTemplatesInitCommand(ctx))
	return templatesCmd
}

func newTemplatesInitCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the built-in templates to a directory for editing",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(dir)
			if target == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return fmt.Errorf("no --dir given and config unavailable: %w", err)
				}
				target = cfg.TemplatesDir()
				if target == "" {
					target = filepath.Join(cfg.Site.Root, "templates")
				}
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve templates directory: %w", err)
				}
				target = expanded
			}

			written, err := render.WriteDefaults(target, overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			if len(written) == 0 {
				fmt.Fprintf(out, "Templates already present in %s (use --overwrite to replace them)\n", target)
				return nil
			}
			fmt.Fprintf(out, "Set paths.templates = %q to build with these templates.\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Destination directory (default: paths.templates or <site root>/templates)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace templates that already exist")
	return cmd
}
