package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func NewGenDocsCommand() *cobra.Command {
	var (
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Write CLI reference docs (markdown or man pages)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("gendocs: resolve %q: %w", outDir, err)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("gendocs: mkdir %q: %w", dir, err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true

			switch format {
			case "md", "markdown":
				err = doc.GenMarkdownTree(root, dir)
			case "man":
				err = doc.GenManTree(root, &doc.GenManHeader{Title: "KLINIK", Section: "1"}, dir)
			default:
				return fmt.Errorf("gendocs: unknown format %q", format)
			}
			if err != nil {
				return fmt.Errorf("gendocs: %w", err)
			}

			cmd.Printf("%s docs written to %s\n", format, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "docs/cli", "output directory")
	cmd.Flags().StringVar(&format, "format", "md", "md or man")

	return cmd
}
