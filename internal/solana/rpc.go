package solana

import "context"

// RPCClient is the account-fetch surface consumed by the inspection
// layer. HTTPClient carries the wider RPC method set; callers that need
// getMultipleAccounts or getSlot use the concrete client.
type RPCClient interface {
	// GetAccountInfo retrieves an account by public key.
	// Returns nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string // owning program id (base58)
	Data       string // base64 encoded account data
	Executable bool
	RentEpoch  uint64
	Slot       int64 // slot of the RPC response context
}
