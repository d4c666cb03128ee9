package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Humphrey-He/vanya/pkg/catalog"
)

var catalogOpts struct {
	category   string
	newOnly    bool
	categories []string
	colors     []string
	sizes      []string
	minPrice   int
	maxPrice   int
	sort       string
	asJSON     bool
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog products through the collection filters",
	Long: `Applies the same filters and sort orders as the collection page.

Example:
  vanya catalog --category bridal --color Maroon --sort price-high
  vanya catalog --new --max-price 40000 --json`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	f := catalogCmd.Flags()
	f.StringVar(&catalogOpts.category, "category", "", "Navigation category (bridal, wedding, festive, ...)")
	f.BoolVar(&catalogOpts.newOnly, "new", false, "Only new arrivals")
	f.StringSliceVar(&catalogOpts.categories, "categories", nil, "Category facet values")
	f.StringSliceVar(&catalogOpts.colors, "color", nil, "Color facet values")
	f.StringSliceVar(&catalogOpts.sizes, "size", nil, "Size facet values")
	f.IntVar(&catalogOpts.minPrice, "min-price", -1, "Lowest price in rupees")
	f.IntVar(&catalogOpts.maxPrice, "max-price", -1, "Highest price in rupees")
	f.StringVar(&catalogOpts.sort, "sort", "featured", "featured, newest, price-low, price-high or rating")
	f.BoolVar(&catalogOpts.asJSON, "json", false, "Print JSON instead of a table")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	criteria, err := catalogCriteria()
	if err != nil {
		return err
	}
	products := catalog.Default().Filter(criteria)

	out := cmd.OutOrStdout()
	if catalogOpts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}
	return printProducts(out, products)
}

func catalogCriteria() (catalog.Criteria, error) {
	sortKey, err := catalog.ParseSortKey(catalogOpts.sort)
	if err != nil {
		return catalog.Criteria{}, err
	}
	c := catalog.Criteria{
		Category:    catalogOpts.category,
		NewArrivals: catalogOpts.newOnly,
		Categories:  catalogOpts.categories,
		Colors:      catalogOpts.colors,
		Sizes:       catalogOpts.sizes,
		Sort:        sortKey,
	}
	if catalogOpts.minPrice >= 0 || catalogOpts.maxPrice >= 0 {
		pr := catalog.PriceRange{Min: 0, Max: math.MaxInt}
		if catalogOpts.minPrice >= 0 {
			pr.Min = catalogOpts.minPrice
		}
		if catalogOpts.maxPrice >= 0 {
			pr.Max = catalogOpts.maxPrice
		}
		if pr.Min > pr.Max {
			return catalog.Criteria{}, fmt.Errorf("min-price %d is above max-price %d", pr.Min, pr.Max)
		}
		c.PriceRange = &pr
	}
	return c, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printProducts(w io.Writer, products []catalog.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		off := ""
		if d := p.DiscountPercent(); d > 0 {
			off = strconv.Itoa(d) + "%"
		}
		var tags []string
		if p.IsNew {
			tags = append(tags, "new")
		}
		if p.IsBestSeller {
			tags = append(tags, "bestseller")
		}
		rows = append(rows, []string{
			p.ID,
			p.Name,
			catalog.CategoryName(p.Category),
			catalog.FormatPrice(p.Price),
			off,
			strconv.FormatFloat(p.Rating, 'f', 1, 64),
			strings.Join(tags, ","),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "PRICE", "OFF", "RATING", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%d products\n", t.Render(), len(products))
	return err
}
