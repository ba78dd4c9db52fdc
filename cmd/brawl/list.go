package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-brawl/internal/frames"
	"github.com/vovakirdan/tui-brawl/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List modes and fighters",
	Long:  `Shows the registered modes and the fighters in the built-in frame tables.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	modes := registry.List()

	fmt.Println("Modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range modes {
		maxIDLen = max(maxIDLen, len(g.ID))
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	catalog, err := frames.LoadCatalog("")
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Fighters:")
	fmt.Println()
	for _, kind := range catalog.Fighters() {
		t := catalog.MustGet(kind)
		fmt.Printf("  %-*s  %s (%d HP)\n", maxIDLen, kind, t.Name, t.HP)
	}

	fmt.Println()
	fmt.Println("Run 'brawl play <id>' to fight.")
	return nil
}
