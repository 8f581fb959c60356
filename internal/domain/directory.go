// Package domain defines the core business types of the credit-risk oracle:
// the corporate payer directory, invoice facts, and risk assessments. These
// types are transport-agnostic and carry no I/O; they are shared across the
// risk engine, the attestation layer, and the HTTP handlers.
package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tier is the coarse credit-risk bucket assigned to a payer.
type Tier int

const (
	// TierPrime marks large, highly reputable payers (e.g. national retailers).
	TierPrime Tier = 1
	// TierMid marks smaller regional payers with acceptable but weaker credit.
	TierMid Tier = 2
	// TierBlacklisted marks payers that must never be approved.
	TierBlacklisted Tier = 3
)

// DirectoryEntry describes a single payer in the corporate directory.
//
// Multiplier scales the base score for tier 1 and 2 payers and must lie in
// [0,1]. Blacklisted (tier 3) entries always carry multiplier 0; the risk
// engine short-circuits on the tier before the multiplier is ever applied.
type DirectoryEntry struct {
	Tier       Tier    `json:"tier"`
	Multiplier float64 `json:"multiplier"`
	Name       string  `json:"name,omitempty"`
}

// Directory is an immutable payer lookup table, built once at startup and
// safe for concurrent reads. The zero value is an empty directory.
type Directory struct {
	entries map[string]DirectoryEntry
}

// NewDirectory builds a Directory from the given entries. The input map is
// copied so later mutations by the caller do not leak into the directory.
// Entries are validated: tier must be 1..3, multiplier must be in [0,1], and
// tier-3 entries must carry multiplier 0.
func NewDirectory(entries map[string]DirectoryEntry) (Directory, error) {
	cp := make(map[string]DirectoryEntry, len(entries))
	for id, e := range entries {
		if id == "" {
			return Directory{}, fmt.Errorf("directory: empty payer id")
		}
		if e.Tier < TierPrime || e.Tier > TierBlacklisted {
			return Directory{}, fmt.Errorf("directory: payer %q has invalid tier %d", id, e.Tier)
		}
		if e.Multiplier < 0 || e.Multiplier > 1 {
			return Directory{}, fmt.Errorf("directory: payer %q has multiplier %v outside [0,1]", id, e.Multiplier)
		}
		if e.Tier == TierBlacklisted && e.Multiplier != 0 {
			return Directory{}, fmt.Errorf("directory: blacklisted payer %q must have multiplier 0", id)
		}
		cp[id] = e
	}
	return Directory{entries: cp}, nil
}

// MustNewDirectory is like NewDirectory but panics on invalid input. It is
// intended for the built-in directory and for tests.
func MustNewDirectory(entries map[string]DirectoryEntry) Directory {
	d, err := NewDirectory(entries)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadDirectory reads a JSON file mapping payer ids to directory entries and
// returns the validated Directory. The file format mirrors DirectoryEntry:
//
//	{ "WALMART_INC": { "tier": 1, "multiplier": 1.0, "name": "Walmart Inc." }, ... }
func LoadDirectory(path string) (Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Directory{}, fmt.Errorf("directory: read %s: %w", path, err)
	}
	var entries map[string]DirectoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Directory{}, fmt.Errorf("directory: parse %s: %w", path, err)
	}
	return NewDirectory(entries)
}

// Lookup returns the entry for payerID and whether it exists.
func (d Directory) Lookup(payerID string) (DirectoryEntry, bool) {
	e, ok := d.entries[payerID]
	return e, ok
}

// Len returns the number of payers in the directory.
func (d Directory) Len() int { return len(d.entries) }

// DefaultDirectory returns the built-in corporate directory shipped with the
// oracle. It matches the protocol fixtures used by the on-chain deployment.
func DefaultDirectory() Directory {
	return MustNewDirectory(map[string]DirectoryEntry{
		"WALMART_INC":       {Tier: TierPrime, Multiplier: 1.0, Name: "Walmart Inc."},
		"WHOLE_FOODS":       {Tier: TierPrime, Multiplier: 0.98, Name: "Whole Foods Market"},
		"COSTCO_WHOLESALE":  {Tier: TierPrime, Multiplier: 0.99, Name: "Costco Wholesale"},
		"TARGET_CORP":       {Tier: TierPrime, Multiplier: 0.97, Name: "Target Corporation"},
		"TIENDA_LOCAL_SPA":  {Tier: TierMid, Multiplier: 0.85, Name: "Tienda Local S.P.A."},
		"COMERCIAL_MEDIANO": {Tier: TierMid, Multiplier: 0.80, Name: "Comercial Mediano Ltda."},
		"EMPRESA_FANTASMA":  {Tier: TierBlacklisted, Multiplier: 0, Name: "Empresa Fantasma (Blacklisted)"},
		"DEUDOR_MOROSO":     {Tier: TierBlacklisted, Multiplier: 0, Name: "Deudor Moroso S.A."},
	})
}
