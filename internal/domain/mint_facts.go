package domain

// MintFacts is the decoded authority and supply state of a mint account.
// Exactly one of the two decode paths (legacy SPL Token or Token-2022)
// produces a value; IsToken2022 tags which one.
type MintFacts struct {
	MintAuthority   *string // base58, nil when the authority option flag is 0
	FreezeAuthority *string // base58, nil when the authority option flag is 0
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool

	IsToken2022 bool

	// MetadataAddress is the metadata account address carried by the
	// metadata-account extension. Only set on the Token-2022 path.
	MetadataAddress *string

	// PointerAuthority reports whether the metadata-pointer extension
	// declared an update authority. Used as the mutability source of truth
	// when the metadata account itself cannot be decoded.
	PointerAuthority *bool

	// ParseFail is set when the extension chain was truncated mid-field.
	// Fields populated before the failure point remain valid.
	ParseFail bool

	// FoundExtension is false when a Token-2022 mint carried no extensions
	// at all. Downstream must treat mutability as unknown in that case.
	FoundExtension bool
}

// MetadataFacts is the decoded state of a Metaplex metadata account.
type MetadataFacts struct {
	UpdateAuthority     string // base58
	Mint                string // base58
	Name                string
	Symbol              string
	PrimarySaleHappened bool
	IsMutable           bool
}
