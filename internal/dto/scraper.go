package dto

// AddWebsiteRequest registers a site for scraping.
type AddWebsiteRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name"`
}
