package http

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Humphrey-He/vanya/pkg/catalog"
)

// relatedCount is how many related products accompany a product page.
const relatedCount = 4

// productView adds the derived discount to a product.
type productView struct {
	catalog.Product
	Discount int `json:"discountPercent"`
}

func viewOf(p catalog.Product) productView {
	return productView{Product: p, Discount: p.DiscountPercent()}
}

func viewsOf(ps []catalog.Product) []productView {
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = viewOf(p)
	}
	return out
}

// productQuery is the collection page's filter state as query parameters.
// Multi-selects accept repeated keys and comma-separated values.
type productQuery struct {
	Category   string   `form:"category"`
	Filter     string   `form:"filter"`
	Categories []string `form:"categories"`
	Colors     []string `form:"colors"`
	Sizes      []string `form:"sizes"`
	MinPrice   *int     `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice   *int     `form:"max_price" binding:"omitempty,min=0"`
	Sort       string   `form:"sort"`
}

func splitValues(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (q productQuery) criteria() (catalog.Criteria, error) {
	sort, err := catalog.ParseSortKey(q.Sort)
	if err != nil {
		return catalog.Criteria{}, err
	}
	cr := catalog.Criteria{
		Category:    q.Category,
		NewArrivals: strings.EqualFold(q.Filter, "new"),
		Categories:  splitValues(q.Categories),
		Colors:      splitValues(q.Colors),
		Sizes:       splitValues(q.Sizes),
		Sort:        sort,
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		pr := catalog.PriceRange{Min: 0, Max: math.MaxInt}
		if q.MinPrice != nil {
			pr.Min = *q.MinPrice
		}
		if q.MaxPrice != nil {
			pr.Max = *q.MaxPrice
		}
		cr.PriceRange = &pr
	}
	return cr, nil
}

func (s *Server) listProducts(c *gin.Context) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	cr, err := q.criteria()
	if err != nil {
		abortWithError(c, err)
		return
	}

	title := catalog.CategoryName(q.Category)
	if cr.NewArrivals {
		title = "New Arrivals"
	}
	products := s.session.Catalog.Filter(cr)
	c.JSON(http.StatusOK, gin.H{
		"title":         title,
		"products":      viewsOf(products),
		"count":         len(products),
		"filtersActive": cr.Active(),
		"sort":          cr.Sort,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := s.session.Catalog.Find(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":    viewOf(p),
		"related":    viewsOf(s.session.Catalog.Related(id, relatedCount)),
		"inWishlist": s.session.Wishlist.IsInWishlist(id),
	})
}

func (s *Server) facets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":  catalog.Categories,
		"colors":      catalog.Colors,
		"sizes":       catalog.Sizes,
		"priceRanges": catalog.PriceRanges,
		"sortKeys": []catalog.SortKey{
			catalog.SortFeatured, catalog.SortNewest, catalog.SortPriceLow,
			catalog.SortPriceHigh, catalog.SortRating,
		},
	})
}
