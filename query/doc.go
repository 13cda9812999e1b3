// Package query turns the raw list parameters of the gem catalog into a
// canonical filter and sort description that both storage backends execute.
//
// # Filters
//
// A request carries individual field parameters (name, color, category,
// chemical_formula), a free-text $search term, and an optional $filter
// expression made of conjunctive equality clauses:
//
//	color eq 'Blue' and category eq 'Quartz'
//
// Normalize copies the field parameters first and then applies the clauses of
// $filter in order, so a clause overwrites the parameter for the same field and
// leaves other fields untouched. Clauses that are not of the form
// "field eq value", or that name an unknown field, are skipped. Use
// NormalizeWithWarnings to get a report of skipped clauses.
//
// The search term is $search when present, otherwise the name filter.
//
// # Matching
//
// All comparisons go through NormalizeText, which lowercases and folds the
// accented vowels and ñ. The search term matches by substring against name,
// magical description and category; color, category and chemical formula
// filters match by equality.
//
// # Sorting
//
//	opts := query.EffectiveOrder(query.ParseOrderBy("name asc, color desc"))
//	query.SortRecords(gems, opts)
//
// Options are applied last to first with a stable sort so the first option is
// the primary key. Ties keep storage order.
package query
