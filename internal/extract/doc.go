// Package extract converts mail attachments to plain text for
// classification. PDF, DOCX, RTF and plain text are supported; everything
// else is reported as unsupported so callers can skip it.
package extract
