package models

// AuthenticateResponse captures the short-lived token returned by POST /g/aaa/authenticate
type AuthenticateResponse struct {
	Token string `json:"token"`
}

// AuthorizeResponse captures the user record returned by POST /g/aaa/authorize.
// Only the brand subdomain is used; it selects the tenant API host.
type AuthorizeResponse struct {
	ActiveBrandSubdomain string `json:"active_brand_subdomain"`
}

// Session is the authenticated context for all calls after login.
// Built once by Authenticate and never mutated; pass it by value.
type Session struct {
	AuthKey  string // long-lived auth_key cookie value
	BaseURL  string // tenant base URL, e.g. https://c001.eagleeyenetworks.com
	Username string
}
