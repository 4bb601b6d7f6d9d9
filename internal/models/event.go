package models

// Keyword is a normalized thematic phrase: trimmed and lower-cased.
type Keyword = string

type Product struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// InspirationLink is a (title, url) pair suggested by the search-grounded stage.
type InspirationLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// IdeaRequest holds everything the idea prompt is built from. It lives for one
// generation call.
type IdeaRequest struct {
	Paragraph string
	Products  []Product
	Links     []InspirationLink
	Keywords  []Keyword
	IdeaCount int
}

// IdeaCounts are the allowed numbers of ideas per request.
var IdeaCounts = []int{5, 6, 7, 8}
