package inspection

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/solana"
)

// AccountFetcher retrieves raw account state by address.
type AccountFetcher interface {
	// Fetch returns the account at address, or nil if it does not exist.
	Fetch(ctx context.Context, address string) (*domain.RawAccount, error)
}

// RPCFetcher implements AccountFetcher on top of the Solana RPC client.
type RPCFetcher struct {
	client solana.RPCClient
}

// Compile-time interface check.
var _ AccountFetcher = (*RPCFetcher)(nil)

// NewRPCFetcher creates an RPC-backed account fetcher.
func NewRPCFetcher(client solana.RPCClient) *RPCFetcher {
	return &RPCFetcher{client: client}
}

// Fetch retrieves and decodes one account. A missing account is (nil, nil).
func (f *RPCFetcher) Fetch(ctx context.Context, address string) (*domain.RawAccount, error) {
	info, err := f.client.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get account info %s: %w", address, err)
	}

	if info == nil {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode account data %s: %w", address, err)
	}

	return &domain.RawAccount{
		Owner:    info.Owner,
		Data:     data,
		Lamports: info.Lamports,
		Slot:     info.Slot,
	}, nil
}
