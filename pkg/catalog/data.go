package catalog

import "math"

func price(v int) *int { return &v }

// products is the static catalog, in featured order.
var products = []Product{
	{
		ID:               "1",
		Name:             "Rose Bloom Embroidered Lehenga",
		Price:            45999,
		OriginalPrice:    price(59999),
		Category:         "Bridal",
		Colors:           []string{"Pink", "Rose Gold", "Silver"},
		Sizes:            []string{"XS", "S", "M", "L", "XL"},
		Rating:           4.8,
		Reviews:          124,
		Description:      "Exquisite pink lehenga with intricate silver embroidery, perfect for your special day. Features hand-embroidered floral motifs with sequin detailing.",
		Fabric:           "Raw Silk with Net Dupatta",
		CareInstructions: []string{"Dry clean only", "Store in muslin cloth", "Avoid direct sunlight"},
		IsNew:            true,
		IsBestSeller:     true,
	},
	{
		ID:               "2",
		Name:             "Royal Blue Zardozi Lehenga",
		Price:            68999,
		OriginalPrice:    price(89999),
		Category:         "Bridal",
		Colors:           []string{"Royal Blue", "Navy", "Teal"},
		Sizes:            []string{"XS", "S", "M", "L", "XL", "XXL"},
		Rating:           4.9,
		Reviews:          89,
		Description:      "Stunning royal blue lehenga with heavy zardozi embroidery and golden threadwork. A masterpiece for the modern bride.",
		Fabric:           "Velvet with Organza Dupatta",
		CareInstructions: []string{"Dry clean only", "Steam iron on low", "Store flat"},
		IsBestSeller:     true,
	},
	{
		ID:               "3",
		Name:             "Maroon Heritage Bridal Lehenga",
		Price:            78999,
		Category:         "Bridal",
		Colors:           []string{"Maroon", "Wine", "Burgundy"},
		Sizes:            []string{"S", "M", "L", "XL"},
		Rating:           4.7,
		Reviews:          156,
		Description:      "Traditional maroon bridal lehenga with antique gold embroidery. Timeless elegance meets contemporary craftsmanship.",
		Fabric:           "Banarasi Silk with Net Dupatta",
		CareInstructions: []string{"Dry clean only", "Handle with care", "Avoid moisture"},
		IsNew:            true,
	},
	{
		ID:               "4",
		Name:             "Ivory Pearl Wedding Lehenga",
		Price:            92999,
		OriginalPrice:    price(120000),
		Category:         "Wedding",
		Colors:           []string{"Ivory", "Cream", "Off-White"},
		Sizes:            []string{"XS", "S", "M", "L", "XL"},
		Rating:           5.0,
		Reviews:          67,
		Description:      "Ethereal ivory lehenga with delicate pearl embellishments and golden zari work. Perfect for the contemporary bride.",
		Fabric:           "Georgette with Pearl Net Dupatta",
		CareInstructions: []string{"Dry clean only", "Store in breathable bag", "Avoid folding"},
		IsBestSeller:     true,
	},
	{
		ID:               "5",
		Name:             "Emerald Kundan Festive Lehenga",
		Price:            54999,
		Category:         "Festive",
		Colors:           []string{"Emerald", "Forest Green", "Mint"},
		Sizes:            []string{"S", "M", "L", "XL", "XXL"},
		Rating:           4.6,
		Reviews:          203,
		Description:      "Vibrant emerald green lehenga with traditional kundan work and golden embroidery. Ideal for festivals and celebrations.",
		Fabric:           "Art Silk with Soft Net Dupatta",
		CareInstructions: []string{"Dry clean recommended", "Iron on medium heat", "Store carefully"},
		IsNew:            true,
	},
	{
		ID:               "6",
		Name:             "Peach Sequin Party Lehenga",
		Price:            38999,
		OriginalPrice:    price(49999),
		Category:         "Party",
		Colors:           []string{"Peach", "Coral", "Rose"},
		Sizes:            []string{"XS", "S", "M", "L"},
		Rating:           4.5,
		Reviews:          178,
		Description:      "Glamorous peach lehenga with contemporary sequin work. Light and elegant for sangeet and cocktail parties.",
		Fabric:           "Soft Net with Satin Inner",
		CareInstructions: []string{"Dry clean only", "Store in cool place", "Handle sequins carefully"},
	},
}

// Categories lists the navigation categories.
var Categories = []Category{
	{ID: "bridal", Name: "Bridal", Count: 45},
	{ID: "wedding", Name: "Wedding", Count: 32},
	{ID: "festive", Name: "Festive", Count: 28},
	{ID: "party", Name: "Party Wear", Count: 56},
	{ID: "reception", Name: "Reception", Count: 24},
	{ID: "sangeet", Name: "Sangeet", Count: 38},
}

// Colors lists the color facet offered by the collection filter panel.
var Colors = []Swatch{
	{Name: "Red", Hex: "#C41E3A"},
	{Name: "Pink", Hex: "#E8A0BF"},
	{Name: "Blue", Hex: "#1E40AF"},
	{Name: "Green", Hex: "#059669"},
	{Name: "Gold", Hex: "#D4AF37"},
	{Name: "Ivory", Hex: "#FFFFF0"},
	{Name: "Maroon", Hex: "#800000"},
	{Name: "Peach", Hex: "#FFCBA4"},
}

// Sizes lists the size facet.
var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// PriceRanges lists the price facet. The last band has no upper bound.
var PriceRanges = []PriceRange{
	{Label: "Under ₹30,000", Min: 0, Max: 30000},
	{Label: "₹30,000 - ₹50,000", Min: 30000, Max: 50000},
	{Label: "₹50,000 - ₹80,000", Min: 50000, Max: 80000},
	{Label: "Above ₹80,000", Min: 80000, Max: math.MaxInt},
}
