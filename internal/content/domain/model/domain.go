package model

import (
	"fmt"
	"strings"
)

// Domain identifies one section of the site with its own content document.
type Domain string

const (
	DomainHome    Domain = "home"
	DomainAbout   Domain = "about"
	DomainContact Domain = "contact"
	DomainMembers Domain = "members"
	DomainGallery Domain = "gallery"
)

// DocumentDomains are the domains persisted as a single document in the content collection.
// Gallery lives in its own album and image collections.
var DocumentDomains = []Domain{DomainHome, DomainAbout, DomainContact, DomainMembers}

// AllDomains lists every content domain.
var AllDomains = []Domain{DomainHome, DomainAbout, DomainContact, DomainMembers, DomainGallery}

// WriteMode selects how a submitted document is persisted.
type WriteMode int

const (
	// WriteModeMerge merges submitted fields into the stored document. Nested
	// objects merge recursively, lists are replaced, unspecified fields are kept.
	WriteModeMerge WriteMode = iota
	// WriteModeReplace substitutes the stored document with the submitted one.
	// Fields absent from the submission are removed.
	WriteModeReplace
)

func (m WriteMode) String() string {
	switch m {
	case WriteModeMerge:
		return "merge"
	case WriteModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// ReadPolicy selects how a stored document is combined with its defaults.
type ReadPolicy int

const (
	// ReadNestedMerge merges top-level keys and selected nested objects key by key.
	ReadNestedMerge ReadPolicy = iota
	// ReadShallowMerge merges top-level keys only. Nested objects are taken wholesale.
	ReadShallowMerge
	// ReadAsStored returns the stored document untouched, or the empty shell when missing.
	ReadAsStored
)

// DocumentID is the id of the domain's document in the content collection.
func (d Domain) DocumentID() string {
	return string(d) + "Data"
}

// WriteMode returns the persistence strategy the admin UI for this domain relies on.
// Members always sends the complete document, so it is replaced.
func (d Domain) WriteMode() WriteMode {
	if d == DomainMembers {
		return WriteModeReplace
	}
	return WriteModeMerge
}

// ReadPolicy returns how reads of this domain are merged with defaults.
func (d Domain) ReadPolicy() ReadPolicy {
	switch d {
	case DomainHome:
		return ReadNestedMerge
	case DomainAbout, DomainContact:
		return ReadShallowMerge
	default:
		return ReadAsStored
	}
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, known := range AllDomains {
		if d == known {
			return true
		}
	}
	return false
}

func (d Domain) String() string { return string(d) }

// ParseDomain converts a name such as "Home" into a Domain.
func ParseDomain(name string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(name)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown content domain %q", name)
	}
	return d, nil
}
