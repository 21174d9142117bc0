// Package ohscrap extracts structured data from web pages by evaluating a
// declarative selector against fetched content, following links to crawl
// deeper pages when the selector asks for it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, whatwg/).
package ohscrap
