// Package horizon provides a technology news reader. It pulls headlines from a
// news API, extracts readable article content from publisher pages, caches
// both locally, serves them over HTTP, and emails subscribers a digest.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, resend/).
package horizon
