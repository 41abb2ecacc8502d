package splmint

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
)

// MintAccountSize is the fixed size of a legacy SPL Token mint account.
//
// Layout (little-endian):
//   - mintAuthorityOption: u32 (1 = authority present)
//   - mintAuthority:       Pubkey (32 bytes, meaningful only if option == 1)
//   - supply:              u64
//   - decimals:            u8
//   - isInitialized:       u8
//   - freezeAuthorityOption: u32
//   - freezeAuthority:     Pubkey (32 bytes)
const MintAccountSize = 82

// ParseLegacyMint decodes a legacy SPL Token mint account.
// The buffer must be exactly 82 bytes; anything else is a malformed record.
func ParseLegacyMint(data []byte) (*domain.MintFacts, error) {
	if len(data) != MintAccountSize {
		return nil, fmt.Errorf("mint account size %d, want %d", len(data), MintAccountSize)
	}

	facts := &domain.MintFacts{}
	parseMintHeader(newCursor(data), facts)
	return facts, nil
}

// parseMintHeader decodes the fixed 82-byte mint layout shared by the legacy
// and Token-2022 formats. The caller guarantees at least 82 bytes, so every
// read below succeeds; the ok results are still checked to keep the cursor
// discipline uniform.
func parseMintHeader(c *cursor, facts *domain.MintFacts) bool {
	mintOpt, ok := c.u32()
	if !ok {
		return false
	}
	mintAuth, ok := c.pubkey()
	if !ok {
		return false
	}
	if mintOpt == 1 {
		addr := base58.Encode(mintAuth)
		facts.MintAuthority = &addr
	}

	supply, ok := c.u64()
	if !ok {
		return false
	}
	facts.Supply = supply

	decimals, ok := c.u8()
	if !ok {
		return false
	}
	facts.Decimals = decimals

	initialized, ok := c.u8()
	if !ok {
		return false
	}
	facts.IsInitialized = initialized != 0

	freezeOpt, ok := c.u32()
	if !ok {
		return false
	}
	freezeAuth, ok := c.pubkey()
	if !ok {
		return false
	}
	if freezeOpt == 1 {
		addr := base58.Encode(freezeAuth)
		facts.FreezeAuthority = &addr
	}

	return true
}
