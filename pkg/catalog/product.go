// Package catalog holds the compiled-in product catalog and the pure
// filter/sort computation behind the collection view.
//
// Package catalog 包含编译进程序的商品目录，以及集合视图背后的纯过滤/排序计算。
package catalog

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry. Prices are whole rupees.
//
// Product 是不可变的目录条目。价格以整卢比计。
type Product struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Price            int      `json:"price"`
	OriginalPrice    *int     `json:"originalPrice,omitempty"`
	Category         string   `json:"category"`
	Colors           []string `json:"colors"`
	Sizes            []string `json:"sizes"`
	Rating           float64  `json:"rating"`
	Reviews          int      `json:"reviews"`
	Description      string   `json:"description"`
	Fabric           string   `json:"fabric"`
	CareInstructions []string `json:"careInstructions"`
	IsNew            bool     `json:"isNew,omitempty"`
	IsBestSeller     bool     `json:"isBestSeller,omitempty"`
}

// HasColor reports whether color is one of the product's colors.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// HasSize reports whether size is one of the product's sizes.
func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// DiscountPercent returns the whole-percent markdown from the original price,
// rounded half away from zero. It is 0 when there is no original price or the
// original price is not above the current price.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	price := decimal.NewFromInt(int64(p.Price))
	original := decimal.NewFromInt(int64(*p.OriginalPrice))
	pct := decimal.NewFromInt(1).Sub(price.Div(original)).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

// Clone returns a deep copy that shares no slices with p.
func (p Product) Clone() Product {
	cp := p
	cp.Colors = slices.Clone(p.Colors)
	cp.Sizes = slices.Clone(p.Sizes)
	cp.CareInstructions = slices.Clone(p.CareInstructions)
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		cp.OriginalPrice = &v
	}
	return cp
}

// Category is a navigation category. Count is the advertised collection size.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Swatch is a filterable color with its display hex.
type Swatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// PriceRange is an inclusive [Min, Max] price band.
type PriceRange struct {
	Label string `json:"label,omitempty"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price int) bool {
	return price >= r.Min && price <= r.Max
}

// FormatPrice renders whole rupees with Indian digit grouping, e.g.
// 1234567 becomes "₹12,34,567".
//
// FormatPrice 以印度数字分组格式渲染整卢比，例如1234567渲染为"₹12,34,567"。
func FormatPrice(rupees int) string {
	sign := ""
	if rupees < 0 {
		sign = "-"
		rupees = -rupees
	}
	digits := strconv.Itoa(rupees)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
