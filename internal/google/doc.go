// Package google provides OAuth2 authentication and token caching for the
// Gmail API. The flow is the out-of-band code exchange: the user visits the
// auth URL, pastes the code back, and the refresh token is cached on disk.
package google
