package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexieremia/burgersocial/internal/discovery"
	"github.com/alexieremia/burgersocial/internal/models"
	"github.com/alexieremia/burgersocial/internal/store"
	"github.com/alexieremia/burgersocial/internal/tui"
)

func (c *cli) queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a one-shot restaurant search",
		Long: `Filters and orders the restaurants, either from the built-in demo data or,
with --api, from a running server.`,
		Example: `  burgersocial query --q wagyu
  burgersocial query --price '$,$$' --open --sort rating
  burgersocial query --min-rating 4.5 --json --api http://localhost:3001`,
		Args: cobra.NoArgs,
		RunE: c.runQuery,
	}
	cmd.Flags().String("q", "", "text to match against names and specialties")
	cmd.Flags().StringSlice("price", nil, "accepted price tiers ($, $$, $$$), comma separated or repeated")
	cmd.Flags().Float64("min-rating", 0, "minimum rating, 0 to 5")
	cmd.Flags().Bool("open", false, "only restaurants open now")
	cmd.Flags().String("sort", string(discovery.SortDistance), "order by distance, rating or reviews")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	cmd.Flags().String("api", "", "query a running API instead of the demo data")
	return cmd
}

// filterFromFlags builds the filter, rejecting values the lenient HTTP decoder would ignore.
func filterFromFlags(fs *pflag.FlagSet) (discovery.Filter, error) {
	f := discovery.DefaultFilter()
	f.Query, _ = fs.GetString("q")

	prices, _ := fs.GetStringSlice("price")
	for _, p := range prices {
		p = strings.TrimSpace(p)
		if p == "" || f.HasPrice(p) {
			continue
		}
		f.PriceRange = append(f.PriceRange, p)
	}

	f.MinRating, _ = fs.GetFloat64("min-rating")
	if f.MinRating < 0 || f.MinRating > 5 {
		return f, fmt.Errorf("--min-rating must be between 0 and 5, got %v", f.MinRating)
	}
	f.OpenNow, _ = fs.GetBool("open")

	sortBy, _ := fs.GetString("sort")
	f.SortBy = discovery.ParseSortKey(sortBy)
	if !strings.EqualFold(strings.TrimSpace(sortBy), string(f.SortBy)) {
		return f, fmt.Errorf("unknown sort %q (want distance, rating or reviews)", sortBy)
	}
	return f, nil
}

func (c *cli) runQuery(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	var results []models.Restaurant
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cl, closeCache, err := newAPIClient(cmd.Context(), c.cfg, api)
		if err != nil {
			return err
		}
		defer closeCache()
		if results, err = cl.Search(cmd.Context(), f); err != nil {
			return err
		}
	} else {
		mem, err := store.FromFixtures()
		if err != nil {
			return err
		}
		results = discovery.Query(mem.Restaurants(), f)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return printRestaurants(cmd.OutOrStdout(), results)
}

func printRestaurants(out io.Writer, rs []models.Restaurant) error {
	if len(rs) == 0 {
		_, err := fmt.Fprintln(out, tui.EmptyResults)
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tDistance\tRating\tReviews\tPrice\tOpen")
	fmt.Fprintln(w, "----\t--------\t------\t-------\t-----\t----")
	for _, r := range rs {
		open := "no"
		if r.IsOpen {
			open = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\t%s\n", r.Name, r.Distance, r.Rating, r.ReviewCount, r.PriceRange, open)
	}
	return w.Flush()
}
