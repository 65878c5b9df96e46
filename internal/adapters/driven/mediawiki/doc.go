// Package mediawiki implements the driven ports that talk to a MediaWiki
// api.php endpoint.
//
// # Components
//
//   - Connection: sends form-encoded requests, keeps the session cookies,
//     classifies API errors and logs API warnings
//   - RateLimiter: throttles requests and honours Retry-After
//   - Feed: reads the recent changes RSS feed
//
// # Authentication
//
// Two authentication methods are supported:
//
//   - Bot passwords: Login performs the two-step action=login flow and the
//     session is kept in the connection's cookie jar.
//
//   - OAuth 2 owner-only consumers: WithAccessToken sends the access token
//     as a bearer token with every request. No login is needed.
//
// # Error Handling
//
// Transport failures are returned as wrapped errors; non-200 responses as
// [HTTPError]. API errors found by CheckErrors are returned as
// [domain.APIError], so callers can use [domain.IsTokenError] and friends.
//
// # Example Usage
//
//	conn, err := mediawiki.NewConnection(settings.APIURL,
//	    mediawiki.WithUserAgent(settings.UserAgent),
//	    mediawiki.WithMaxlag(settings.Maxlag),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := conn.Login(ctx, user, password); err != nil {
//	    return err
//	}
package mediawiki
