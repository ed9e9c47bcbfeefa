package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Passage IDs are content-based so that identical passages collapse to one record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// StressType identifies one of eight stress presentations derived from three
// independent screening flags: depressive mood, anxiety, and occupational strain.
type StressType int

const (
	// StressCalm represents no elevated flags (XXX).
	StressCalm StressType = iota + 1
	// StressDepressive represents an elevated depressive-mood flag only (OXX).
	StressDepressive
	// StressAnxious represents an elevated anxiety flag only (XOX).
	StressAnxious
	// StressOccupational represents an elevated occupational-strain flag only (XXO).
	StressOccupational
	// StressDepressiveAnxious represents depressive mood plus anxiety (OOX).
	StressDepressiveAnxious
	// StressDepressiveOccupational represents depressive mood plus occupational strain (OXO).
	StressDepressiveOccupational
	// StressAnxiousOccupational represents anxiety plus occupational strain (XOO).
	StressAnxiousOccupational
	// StressCrisis represents all three flags elevated (OOO).
	StressCrisis
)

// Code returns the three-symbol flag pattern for the stress type, one symbol
// per flag in (depressive, anxiety, occupational) order: O elevated, X not.
func (s StressType) Code() string {
	switch s {
	case StressCalm:
		return "XXX"
	case StressDepressive:
		return "OXX"
	case StressAnxious:
		return "XOX"
	case StressOccupational:
		return "XXO"
	case StressDepressiveAnxious:
		return "OOX"
	case StressDepressiveOccupational:
		return "OXO"
	case StressAnxiousOccupational:
		return "XOO"
	case StressCrisis:
		return "OOO"
	}
	return ""
}

// String returns a human-readable name for the stress type.
func (s StressType) String() string {
	switch s {
	case StressCalm:
		return "calm"
	case StressDepressive:
		return "depressive"
	case StressAnxious:
		return "anxious"
	case StressOccupational:
		return "occupational stress"
	case StressDepressiveAnxious:
		return "depressive-anxious"
	case StressDepressiveOccupational:
		return "depressive occupational stress"
	case StressAnxiousOccupational:
		return "anxious occupational stress"
	case StressCrisis:
		return "crisis"
	}
	return "unknown"
}

// UserProfile bundles the identity, demographic, and screening data used to
// personalize retrieval. It has a fixed schema on purpose: facet lookups are
// field accesses, so a misspelled facet is a compile error rather than an
// empty secondary query.
//
// A profile is owned by the session layer and treated as immutable for the
// duration of one retrieval request.
type UserProfile struct {
	Nickname   string
	Age        int
	Gender     string
	Occupation string // occupation code, see profile.OccupationDescriptor
	Stress     StressType
	Keywords   []string // free-text personal keywords from the intake survey

	// Wellness indices. Descriptive only; never used in ranking.
	MSI float64 // mental stress index
	PSI float64 // physical stress index
}

// Passage is one retrievable unit of reference material.
// Passages are immutable once stored; retrieval holds references only.
type Passage struct {
	Id         ID
	Content    string
	Source     string // originating document title or filename
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// PassageID computes the content-based identity of a passage. Content and
// source together form the dedup key: the same text from two documents is
// two distinct passages.
func PassageID(content, source string) ID {
	return IDFromContent(source + "\x00" + content)
}

// PassageHit is a raw match returned by a semantic index query.
// Distance follows the index port convention: cosine distance, lower is closer.
type PassageHit struct {
	Passage  *Passage
	Distance float32
}

// RankedPassage is a passage with its blended relevance score after
// priority-weighted merging. Slices of RankedPassage are ordered by
// descending score with first-seen tie-breaking.
type RankedPassage struct {
	Passage *Passage
	Score   float64
}
