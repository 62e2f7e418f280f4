package service

import (
	"strings"

	"storefront/internal/domain"
)

// ShelfView is the filtered catalog plus the shelf a search wants focused.
type ShelfView struct {
	Shelves domain.ShelfMap
	// Focus is set only for a query search; empty means keep the current shelf.
	Focus string
}

// ComputeVisibleShelves filters every shelf by category or by query. A
// non-empty category wins and the query is not evaluated. With neither set
// the shelves are returned as is.
func ComputeVisibleShelves(all domain.ShelfMap, query, category string) ShelfView {
	switch {
	case category != "":
		return ShelfView{Shelves: filterShelves(all, func(p domain.Product) bool {
			return strings.Contains(p.Category, category)
		})}
	case query != "":
		q := strings.ToLower(query)
		shelves := filterShelves(all, func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Category), q)
		})
		return ShelfView{Shelves: shelves, Focus: busiestShelf(shelves)}
	default:
		return ShelfView{Shelves: all}
	}
}

func filterShelves(all domain.ShelfMap, keep func(domain.Product) bool) domain.ShelfMap {
	out := make(domain.ShelfMap, 0, len(all))
	for _, s := range all {
		products := make([]domain.Product, 0, len(s.Products))
		for _, p := range s.Products {
			if keep(p) {
				products = append(products, p)
			}
		}
		out = append(out, domain.Shelf{Name: s.Name, Products: products})
	}
	return out
}

// busiestShelf returns the first shelf with the most products.
func busiestShelf(shelves domain.ShelfMap) string {
	best, max := "", -1
	for _, s := range shelves {
		if len(s.Products) > max {
			best, max = s.Name, len(s.Products)
		}
	}
	return best
}
