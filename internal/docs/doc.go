// Package docs generates application documents: English and German cover
// letters, CV tailoring notes and common form answers. Documents are
// generated once per application and never overwritten.
package docs
