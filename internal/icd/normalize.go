// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// folder performs full Unicode case folding, which handles more than
// ASCII lowercasing (ß → ss, İ → i̇).
var folder = cases.Fold()

// NormalizeQuery canonicalizes a raw query into a cache key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC so composed and decomposed input hit the same entry.
// 2. Case-folds ("Fièvre", "FIÈVRE" and "fièvre" are one lookup).
// 3. Collapses internal whitespace runs and trims the ends.
//
// Two queries with equal normalized forms share one cache entry and one
// network round trip.
func NormalizeQuery(raw string) string {
	canonical := norm.NFC.String(raw)
	folded := folder.String(canonical)
	return strings.Join(strings.Fields(folded), " ")
}
