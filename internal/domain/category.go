package domain

// Category groups products. Products reference a category by slug on input.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
