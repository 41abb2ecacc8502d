package splmint

import (
	"strings"

	"github.com/mr-tron/base58"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
)

// Metaplex metadata account layout:
//   - key:             u8 (4 = MetadataV1)
//   - updateAuthority: Pubkey (32 bytes)
//   - mint:            Pubkey (32 bytes)
//   - name, symbol, uri: borsh strings (u32 length prefix each)
//   - sellerFeeBasisPoints: u16
//   - creators: Option<Vec<Creator>> (u8 flag, u32 count, 34 bytes each)
//   - primarySaleHappened: u8
//   - isMutable: u8
const (
	metadataKeyV1    = 4
	metadataMinSize  = 67 // key + two pubkeys + shortest possible tail
	creatorEntrySize = 34 // pubkey(32) + verified(1) + share(1)
)

// ParseMetadata decodes a Metaplex metadata account and extracts the
// mutability flag plus name/symbol for ledger enrichment. Returns nil when
// the record is absent, not MetadataV1, or malformed in any way; the caller
// treats nil as "mutability undeterminable".
func ParseMetadata(data []byte) *domain.MetadataFacts {
	if len(data) < metadataMinSize {
		return nil
	}

	c := newCursor(data)

	key, ok := c.u8()
	if !ok || key != metadataKeyV1 {
		return nil
	}

	updateAuth, ok := c.pubkey()
	if !ok {
		return nil
	}
	mint, ok := c.pubkey()
	if !ok {
		return nil
	}

	facts := &domain.MetadataFacts{
		UpdateAuthority: base58.Encode(updateAuth),
		Mint:            base58.Encode(mint),
	}

	name, ok := readBorshString(c)
	if !ok {
		return nil
	}
	facts.Name = name

	symbol, ok := readBorshString(c)
	if !ok {
		return nil
	}
	facts.Symbol = symbol

	// URI content is irrelevant here, only its length field must be sane.
	if _, ok := readBorshString(c); !ok {
		return nil
	}

	// sellerFeeBasisPoints
	if !c.skip(2) {
		return nil
	}

	hasCreators, ok := c.u8()
	if !ok {
		return nil
	}
	if hasCreators != 0 {
		count, ok := c.u32()
		if !ok {
			return nil
		}
		if !c.skip(int(count) * creatorEntrySize) {
			return nil
		}
	}

	primarySale, ok := c.u8()
	if !ok {
		return nil
	}
	facts.PrimarySaleHappened = primarySale != 0

	mutable, ok := c.u8()
	if !ok {
		return nil
	}
	facts.IsMutable = mutable != 0

	return facts
}

// readBorshString reads a u32-length-prefixed string, bounds-checking the
// declared length against the remaining buffer. Metaplex pads string
// fields with NULs; those are trimmed.
func readBorshString(c *cursor) (string, bool) {
	length, ok := c.u32()
	if !ok {
		return "", false
	}
	raw, ok := c.bytes(int(length))
	if !ok {
		return "", false
	}
	return strings.TrimRight(string(raw), "\x00"), true
}
