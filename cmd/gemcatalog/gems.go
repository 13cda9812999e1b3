package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-gem-catalog/catalog"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single gem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}
			gem, err := a.service().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printGem(cmd, gem)
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search gems by name, description and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gems, err := a.service().Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), gems)
			}
			printGemTable(cmd.OutOrStdout(), gems)
			return nil
		},
	}
}

func newMetadataCmd(a *app) *cobra.Command {
	lookups := map[string]func(*app, *cobra.Command) ([]string, error){
		"colors": func(a *app, cmd *cobra.Command) ([]string, error) {
			return a.service().Colors(cmd.Context())
		},
		"categories": func(a *app, cmd *cobra.Command) ([]string, error) {
			return a.service().Categories(cmd.Context())
		},
		"formulas": func(a *app, cmd *cobra.Command) ([]string, error) {
			return a.service().Formulas(cmd.Context())
		},
	}

	return &cobra.Command{
		Use:       "metadata <colors|categories|formulas>",
		Short:     "List the distinct values of an attribute",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"colors", "categories", "formulas"},
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := lookups[args[0]](a, cmd)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), values)
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "gem name")
	cmd.Flags().String("description", "", "magical description")
	cmd.Flags().String("category", "", "category")
	cmd.Flags().String("color", "", "color")
	cmd.Flags().String("formula", "", "chemical formula")
}

func requestFromFlags(cmd *cobra.Command) catalog.CreateGemRequest {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	color, _ := cmd.Flags().GetString("color")
	formula, _ := cmd.Flags().GetString("formula")
	return catalog.CreateGemRequest{
		Name:               name,
		MagicalDescription: description,
		Category:           category,
		Color:              color,
		ChemicalFormula:    formula,
	}
}

func newCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a gem to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gem, err := a.service().Create(cmd.Context(), requestFromFlags(cmd))
			if err != nil {
				return err
			}
			return a.printGem(cmd, gem)
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the attributes of a gem, keeping its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}
			gem, err := a.service().Update(cmd.Context(), id, requestFromFlags(cmd))
			if err != nil {
				return err
			}
			return a.printGem(cmd, gem)
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func newImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "image <id> <path>",
		Short: "Set the image path of a gem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}
			gem, err := a.service().UpdateImage(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return a.printGem(cmd, gem)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more gems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				id, err := catalog.ParseID(raw)
				if err != nil {
					return err
				}
				if err := a.service().Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", raw, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
}
