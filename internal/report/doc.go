// Package report renders rover metadata, photo lists and sync results for
// the command line in text, JSON or Markdown.
package report
