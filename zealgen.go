// Package zealgen generates offline documentation bundles ("docsets") that
// Dash and Zeal can browse. It crawls a documentation site, extracts page
// content and API symbols, and assembles the pages, a search index and a
// manifest into a self-contained <Name>.docset directory.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/).
package zealgen
