// Package match decides whether a submitted answer names a real location.
// Matching is fuzzy: the input is scored against every gazetteer key with
// the Sorensen-Dice bigram coefficient and the best match wins, so small
// typos ("chicgao") still resolve to the intended place.
package match

import (
	"fmt"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/geochain-io/geochain-backend/internal/gazetteer"
)

// Threshold is exclusive: a best score of exactly 0.95 still rejects.
const Threshold = 0.95

type Result struct {
	OK      bool
	Key     string // normalized gazetteer key that matched
	Record  gazetteer.Record
	Message string // rejection reason, user-visible
}

type Validator struct {
	gaz  *gazetteer.Index
	dice *metrics.SorensenDice
}

func New(gaz *gazetteer.Index) *Validator {
	dice := metrics.NewSorensenDice()
	dice.CaseSensitive = false
	dice.NgramSize = 2
	return &Validator{gaz: gaz, dice: dice}
}

// Validate finds the best match for raw and accepts it unless it scores at
// or below the threshold or was already guessed in this room. On acceptance
// the matched key is added to guessed; rejection leaves guessed untouched.
// An empty gazetteer rejects everything.
func (v *Validator) Validate(raw string, guessed map[string]bool) Result {
	input := gazetteer.Normalize(raw)

	bestKey := ""
	bestScore := -1.0
	for _, key := range v.gaz.Keys() {
		// Strictly-greater keeps the first key on ties (index order).
		if score := strutil.Similarity(input, key, v.dice); score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestKey == "" || bestScore <= Threshold {
		return Result{Message: fmt.Sprintf("%q is not a valid location!", raw)}
	}
	if guessed[bestKey] {
		return Result{Message: fmt.Sprintf("%q has already been guessed!", bestKey)}
	}
	guessed[bestKey] = true
	rec, _ := v.gaz.Lookup(bestKey)
	return Result{OK: true, Key: bestKey, Record: rec}
}
