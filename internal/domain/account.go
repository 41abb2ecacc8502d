package domain

// RawAccount is the raw on-chain state of a single account, as returned by
// getAccountInfo. Data is the decoded account storage; the decoders treat it
// as untrusted input.
type RawAccount struct {
	Owner    string // owning program id (base58)
	Data     []byte
	Lamports uint64
	Slot     int64 // slot at which the account was observed
}
