// Package gmail provides a thin client over the Gmail API for reading
// messages, fetching attachments and filing messages under labels.
//
// The client authenticates through the google package's cached OAuth token.
// Label lookups are cached per client; labels are created on first use so
// category folders never need manual setup.
package gmail
