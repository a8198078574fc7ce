package domain

// Tag is a free-form label. A product carries any number of tags.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
