// Package classification folds decoded mint facts into a safety verdict.
//
// The policy is fail-closed: malformed or ambiguous input is never
// classified SAFE. Only a mint whose authorities are absent and whose
// metadata is positively immutable earns a SAFE verdict.
package classification

import (
	"strings"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
)

// Classify computes the verdict for one inspection. Pure function of its
// input; safe for concurrent use.
func Classify(input Input) *Result {
	if !input.AccountFound || !input.OwnerRecognized || input.Facts == nil {
		return &Result{
			Verdict:         VerdictUnknown,
			MetadataMutable: domain.MutableUnknown,
			Summary:         "No data",
		}
	}

	facts := input.Facts
	mutable := resolveMutability(facts, input.Metadata)

	// Reasons accumulate in fixed evaluation order: authority checks
	// before metadata checks, parse failures last.
	var reasons []Reason
	if facts.MintAuthority != nil {
		reasons = append(reasons, ReasonMintable)
	}
	if facts.FreezeAuthority != nil {
		reasons = append(reasons, ReasonFreezable)
	}
	switch mutable {
	case domain.MutableYes:
		reasons = append(reasons, ReasonMutableMetadata)
	case domain.MutableUnknown:
		reasons = append(reasons, ReasonUndeterminedMetadata)
	}
	if facts.ParseFail {
		reasons = append(reasons, ReasonMalformedRecord)
	}

	if len(reasons) == 0 {
		return &Result{
			Verdict:         VerdictSafe,
			MetadataMutable: mutable,
			Summary:         "Safe",
		}
	}

	return &Result{
		Verdict:         VerdictDanger,
		Reasons:         reasons,
		MetadataMutable: mutable,
		Summary:         buildSummary(reasons),
	}
}

// resolveMutability determines the metadata mutability tri-state.
// Priority: the metadata account's own flag; then, for Token-2022 mints
// whose extension chain decoded, the metadata-pointer authority marker;
// otherwise unknown. A Token-2022 mint with zero recognized extensions is
// deliberately left unknown rather than assumed safe.
func resolveMutability(facts *domain.MintFacts, meta *domain.MetadataFacts) string {
	if meta != nil {
		if meta.IsMutable {
			return domain.MutableYes
		}
		return domain.MutableNo
	}

	if facts.IsToken2022 && facts.FoundExtension && !facts.ParseFail && facts.PointerAuthority != nil {
		if *facts.PointerAuthority {
			return domain.MutableYes
		}
		return domain.MutableNo
	}

	return domain.MutableUnknown
}

// buildSummary renders the ledger summary line, e.g.
// "Danger - mintable, freezable".
func buildSummary(reasons []Reason) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if p, ok := phrases[r]; ok {
			parts = append(parts, p)
		}
	}
	return "Danger - " + strings.Join(parts, ", ")
}

// ReasonStrings converts reasons to plain strings for persistence.
func ReasonStrings(reasons []Reason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}
