package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-gem-catalog/catalog"
	"github.com/goliatone/go-gem-catalog/pagination"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printGem(cmd *cobra.Command, gem catalog.Gem) error {
	w := cmd.OutOrStdout()
	if a.jsonOutput {
		return printJSON(w, gem)
	}
	fmt.Fprintf(w, "ID:          %s\n", gem.ID)
	fmt.Fprintf(w, "Name:        %s\n", gem.Name)
	fmt.Fprintf(w, "Category:    %s\n", gem.Category)
	fmt.Fprintf(w, "Color:       %s\n", gem.Color)
	fmt.Fprintf(w, "Formula:     %s\n", gem.ChemicalFormula)
	fmt.Fprintf(w, "Image:       %s\n", gem.Image)
	if gem.MagicalDescription != "" {
		fmt.Fprintf(w, "Description: %s\n", gem.MagicalDescription)
	}
	return nil
}

func printGemTable(out io.Writer, gems []catalog.Gem) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOLOR\tFORMULA")
	for _, g := range gems {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", g.ID, g.Name, g.Category, g.Color, g.ChemicalFormula)
	}
	w.Flush()
}

func printPageInfo(w io.Writer, info pagination.Info) {
	fmt.Fprintf(w, "\n%d total, page size %d\n", info.TotalCount, info.PageSize)
	if info.PreviousCursor != nil {
		fmt.Fprintf(w, "previous: --cursor %s\n", *info.PreviousCursor)
	}
	if info.NextCursor != nil {
		fmt.Fprintf(w, "next:     --cursor %s\n", *info.NextCursor)
	}
}
