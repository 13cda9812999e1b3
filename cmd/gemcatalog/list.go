package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-gem-catalog/pagination"
	"github.com/goliatone/go-gem-catalog/query"
)

// listFlags maps CLI flags onto the query parameters of a list request.
var listFlags = []struct {
	flag  string
	usage string
	dest  func(*query.Params, *string)
}{
	{"search", "free-text search over name, description and category", func(p *query.Params, v *string) { p.Search = v }},
	{"filter", "filter expression, e.g. \"color eq 'Azul' and category eq Berilo\"", func(p *query.Params, v *string) { p.Filter = v }},
	{"name", "search by name when --search is not given", func(p *query.Params, v *string) { p.Name = v }},
	{"color", "exact color, case and accent insensitive", func(p *query.Params, v *string) { p.Color = v }},
	{"category", "exact category, case and accent insensitive", func(p *query.Params, v *string) { p.Category = v }},
	{"formula", "exact chemical formula", func(p *query.Params, v *string) { p.ChemicalFormula = v }},
	{"orderby", "sort keys, e.g. \"category asc,name desc\"", func(p *query.Params, v *string) { p.OrderBy = v }},
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gems with filters, sorting and cursor pagination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := listParams(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			cursor, _ := cmd.Flags().GetString("cursor")

			_, warnings := query.NormalizeWithWarnings(params)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignored %s %q\n", w.Kind, w.Clause)
			}

			page, err := a.service().List(cmd.Context(), params, pagination.Request{Limit: limit, Cursor: cursor})
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), page)
			}
			printGemTable(cmd.OutOrStdout(), page.Data)
			printPageInfo(cmd.OutOrStdout(), page.Pagination)
			return nil
		},
	}

	cmd.Flags().Int("limit", pagination.DefaultLimit, fmt.Sprintf("page size, at most %d", pagination.MaxLimit))
	cmd.Flags().String("cursor", "", "cursor token from a previous page")
	for _, f := range listFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

// listParams returns the parameters whose flags were given. An explicitly
// empty flag is kept so it reaches the filter as an empty value.
func listParams(cmd *cobra.Command) (query.Params, error) {
	var params query.Params
	for _, f := range listFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return params, err
		}
		f.dest(&params, &v)
	}
	return params, nil
}
