// Package sitestat fetches third-party ranking, category listing and whois
// pages and extracts them into nested key-value records.
//
// Extraction is done by chains of small phase handlers that walk a stream
// of tokenizer events, each phase handing control to the next one when it
// sees a structural landmark of the page layout.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or the site they talk to (e.g., html/,
// alexa/, whois/, sqlite/).
package sitestat
