package dto

// ExportRequest selects a log table and output format.
type ExportRequest struct {
	Dataset string `json:"dataset" validate:"required,oneof=system email scrape"`
	Format  string `json:"format" validate:"required,oneof=csv pdf"`
	Module  string `json:"module"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=5000"`
}

// ExportResponse points at the signed download.
type ExportResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
	Rows      int    `json:"rows"`
}
