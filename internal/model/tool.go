package model

const (
	PricingFree     = "free"
	PricingFreemium = "freemium"
	PricingPaid     = "paid"
)

type Tool struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Tagline     string  `json:"tagline"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Logo        string  `json:"logo"`
	Pricing     string  `json:"pricing"`
	Rating      float64 `json:"rating"`
	CategoryID  string  `json:"category_id"`
	Featured    int     `json:"featured"`
	Ctime       int64   `json:"ctime"`
	Mtime       int64   `json:"mtime"`
}
