package classification

import "github.com/SquelchySolana/TheCoinWifsperer/internal/domain"

// Verdict is the final three-valued safety classification.
type Verdict string

const (
	VerdictSafe    Verdict = "SAFE"
	VerdictDanger  Verdict = "DANGER"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Reason identifies one adverse condition behind a DANGER verdict.
type Reason string

const (
	// ReasonMintable: a mint authority exists, supply can be inflated.
	ReasonMintable Reason = "MINTABLE"

	// ReasonFreezable: a freeze authority exists, balances can be frozen.
	ReasonFreezable Reason = "FREEZABLE"

	// ReasonMutableMetadata: the metadata account is update-authority mutable.
	ReasonMutableMetadata Reason = "MUTABLE_METADATA"

	// ReasonUndeterminedMetadata: mutability could not be established.
	// Unknown mutability is treated as risk, never as benign.
	ReasonUndeterminedMetadata Reason = "UNDETERMINED_METADATA"

	// ReasonMalformedRecord: the mint's extension chain failed to decode.
	ReasonMalformedRecord Reason = "MALFORMED_RECORD"
)

// phrase is the human wording used in ledger summaries.
var phrases = map[Reason]string{
	ReasonMintable:             "mintable",
	ReasonFreezable:            "freezable",
	ReasonMutableMetadata:      "mutable metadata",
	ReasonUndeterminedMetadata: "undetermined metadata",
	ReasonMalformedRecord:      "malformed record",
}

// Input carries all facts the classifier folds into a verdict.
type Input struct {
	// AccountFound is false when the mint account could not be retrieved.
	AccountFound bool

	// OwnerRecognized is false when the owner matched neither token program.
	OwnerRecognized bool

	Facts *domain.MintFacts

	// Metadata is nil when the metadata account was absent or malformed.
	Metadata *domain.MetadataFacts
}

// Result is the classification outcome with its ordered reason list.
type Result struct {
	Verdict Verdict
	Reasons []Reason // evaluation order, deterministic

	// MetadataMutable is the resolved tri-state persisted to the ledger.
	MetadataMutable string // domain.MutableYes / MutableNo / MutableUnknown

	// Summary is the human-readable ledger summary.
	Summary string
}
