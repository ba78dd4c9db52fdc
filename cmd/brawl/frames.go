package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/frames/formats"
)

var flagExportDir string

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Validate or export frame tables",
	Long: `Work with the frame tables that define fighters and objects.

Tables are read from the built-in set, overlaid by --frames, then
~/.brawl/fighters, then ./fighters.

Examples:
  brawl frames validate
  brawl frames validate --frames ./my-fighters
  brawl frames export brawler --out ./fighters`,
}

var framesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every table and cross reference",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		catalog, err := frames.LoadCatalog(flagFrames)
		if err != nil {
			return err
		}
		for _, kind := range catalog.Kinds() {
			t := catalog.MustGet(kind)
			fmt.Printf("  %-12s  %3d frames\n", kind, len(t.Frames))
		}
		fmt.Println("All tables are valid.")
		return nil
	},
}

var framesExportCmd = &cobra.Command{
	Use:   "export <kind>...",
	Short: "Write tables as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		catalog, err := frames.LoadCatalog(flagFrames)
		if err != nil {
			return err
		}
		for _, kind := range args {
			t, ok := catalog.Get(kind)
			if !ok {
				return fmt.Errorf("unknown kind %q", kind)
			}
			data, err := formats.ExportJSON(t.Document())
			if err != nil {
				return err
			}
			if flagExportDir == "" {
				fmt.Println(string(data))
				continue
			}
			if err := os.MkdirAll(flagExportDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(flagExportDir, kind+".json")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	framesCmd.PersistentFlags().StringVar(&flagFrames, "frames", "", "Directory of extra frame tables")
	framesExportCmd.Flags().StringVar(&flagExportDir, "out", "", "Directory to write to (default stdout)")
	framesCmd.AddCommand(framesValidateCmd, framesExportCmd)
}
