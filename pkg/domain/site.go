package domain

// Site is a tracked website owned by the authenticated user.
type Site struct {
	SiteID      string `json:"site_id,omitempty"`
	OwnerUserID string `json:"owner_user_id,omitempty"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	SiteKey     string `json:"site_key,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Verified    bool   `json:"verified"`
}

// NewSite is the payload for creating a site.
type NewSite struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreatedSite is the create response. Snippet is only ever returned here,
// so callers must surface it immediately.
type CreatedSite struct {
	Site
	Snippet string `json:"snippet"`
}

// Status returns a short label for the site's tracking state.
func (s Site) Status() string {
	if s.Verified {
		return "verified"
	}
	return "pending"
}

// DeleteResult is returned by DELETE /api/sites/{id}.
type DeleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VerificationDetails lists which tracking markers were found on the page.
type VerificationDetails struct {
	HasScriptTag   bool   `json:"has_script_tag"`
	HasSiteID      bool   `json:"has_site_id"`
	HasSiteKey     bool   `json:"has_site_key"`
	HasSDKLoader   bool   `json:"has_sdk_loader"`
	ExpectedSiteID string `json:"expected_site_id,omitempty"`
	CheckedURL     string `json:"checked_url,omitempty"`
}

// Verification is the result of checking a site for the tracking snippet.
type Verification struct {
	Verified bool                 `json:"verified"`
	Message  string               `json:"message"`
	SiteID   string               `json:"site_id"`
	Details  *VerificationDetails `json:"details,omitempty"`
}
