package viewmodel

// OpenGraph holds the OG meta tags rendered into a page head
type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
}
