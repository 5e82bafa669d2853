// Package lawharvest harvests court judgments and statutes from the Kenya Law
// websites and turns their HTML into structured records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, etree/, sqlite/).
package lawharvest

// Site hosts. The legacy host serves the old CMS pages and the legislation
// tables; the modern host serves the Atom feed and the judgment listings.
const (
	LegacyBaseURL = "https://kenyalaw.org/kl"
	ModernBaseURL = "https://new.kenyalaw.org"
)
