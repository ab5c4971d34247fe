package domain

// DashboardSummary holds the headline fields of /api/sites/{id}/dashboard.
// The full report carries many more sections; only the summary is decoded.
type DashboardSummary struct {
	WebsiteName       string `json:"website_name"`
	URL               string `json:"url"`
	SiteID            string `json:"site_id"`
	TotalVisitors     int    `json:"total_visitors"`
	TotalPageviews    int    `json:"total_pageviews"`
	DateRange         string `json:"date_range,omitempty"`
	ReportGeneratedAt string `json:"report_generated_at,omitempty"`
	Message           string `json:"message,omitempty"`
}
