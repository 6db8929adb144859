package models

// CatalogStats backs the admin dashboard's analytics tab.
type CatalogStats struct {
	Products         int     `json:"products" db:"products"`
	EnabledProducts  int     `json:"enabled_products" db:"enabled_products"`
	FeaturedProducts int     `json:"featured_products" db:"featured_products"`
	OutOfStock       int     `json:"out_of_stock" db:"out_of_stock"`
	Categories       int     `json:"categories" db:"categories"`
	Collections      int     `json:"collections" db:"collections"`
	Reviews          int     `json:"reviews" db:"reviews"`
	AvgRating        float64 `json:"avg_rating" db:"avg_rating"`
}
