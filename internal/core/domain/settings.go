package domain

// Default client settings target Wikidata.
const (
	DefaultAPIURL            = "https://www.wikidata.org/w/api.php"
	DefaultSiteIRI           = "http://www.wikidata.org/entity/"
	DefaultUserAgent         = "wbedit/dev (https://github.com/custodia-labs/wbedit)"
	DefaultMaxlag            = 5
	DefaultRequestsPerSecond = 2.0
)

// ClientSettings configures the connection to a Wikibase site.
type ClientSettings struct {
	// APIURL is the api.php endpoint.
	APIURL string

	// SiteIRI is the entity IRI prefix stamped on returned documents.
	SiteIRI string

	UserAgent string

	// Maxlag is sent with every request; 0 disables it.
	Maxlag int

	// RequestsPerSecond throttles outgoing requests.
	RequestsPerSecond float64

	Auth AuthSettings
}

// AuthSettings holds the credentials used to authenticate edits.
type AuthSettings struct {
	Username string
	Password string

	// AccessToken is an OAuth 2 owner-only consumer token. When set it
	// takes precedence over Username and Password.
	AccessToken string
}

// UsesOAuth reports whether requests are authorised with a bearer token.
func (a AuthSettings) UsesOAuth() bool {
	return a.AccessToken != ""
}

// HasLogin reports whether a bot password login is configured.
func (a AuthSettings) HasLogin() bool {
	return a.Username != ""
}

// DefaultClientSettings returns the settings used when nothing is configured.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		APIURL:            DefaultAPIURL,
		SiteIRI:           DefaultSiteIRI,
		UserAgent:         DefaultUserAgent,
		Maxlag:            DefaultMaxlag,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}
