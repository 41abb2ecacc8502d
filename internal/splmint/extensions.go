package splmint

import (
	"github.com/mr-tron/base58"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
)

// Token-2022 mints reuse the 82-byte mint layout, zero-pad it to the token
// account size and append a one-byte account type discriminant before the
// TLV extension chain.
const (
	mintPaddingSize = 83
	accountTypeMint = 1
)

// Extension types relevant to security scanning. Everything else is skipped
// by its declared length so unknown extensions never stall the decoder.
const (
	extMetadataAccount = 12 // first 32 payload bytes: metadata account address
	extMetadataPointer = 13 // first payload byte: update authority present
)

// ParseMint2022 decodes a Token-2022 mint account with its extension chain.
// It never fails outright: truncation mid-field sets ParseFail and returns
// whatever was decoded before the failure point. IsToken2022 is always set.
func ParseMint2022(data []byte) *domain.MintFacts {
	facts := &domain.MintFacts{IsToken2022: true}

	c := newCursor(data)
	if !parseMintHeader(c, facts) {
		facts.ParseFail = true
		return facts
	}

	// Bare 82-byte record: valid base layout, but an extensible mint
	// carrying no extensions at all. Leave FoundExtension false.
	if c.remaining() == 0 {
		return facts
	}

	// Padding plus account type discriminant precede the TLV region.
	if !c.skip(mintPaddingSize) {
		facts.ParseFail = true
		return facts
	}
	accountType, ok := c.u8()
	if !ok || accountType != accountTypeMint {
		facts.ParseFail = true
		return facts
	}

	parseExtensionChain(c, facts)
	return facts
}

// parseExtensionChain walks the tag-length-value entries after the header.
// A declared length reaching past the buffer end aborts the walk with
// ParseFail; unknown extension types are consumed and ignored.
func parseExtensionChain(c *cursor, facts *domain.MintFacts) {
	for c.remaining() >= 4 {
		extType, ok := c.u16()
		if !ok {
			facts.ParseFail = true
			return
		}
		extLen, ok := c.u16()
		if !ok {
			facts.ParseFail = true
			return
		}

		payload, ok := c.bytes(int(extLen))
		if !ok {
			facts.ParseFail = true
			return
		}
		facts.FoundExtension = true

		switch extType {
		case extMetadataPointer:
			if len(payload) >= 1 {
				present := payload[0] != 0
				facts.PointerAuthority = &present
			}
		case extMetadataAccount:
			if len(payload) >= 32 {
				addr := base58.Encode(payload[:32])
				facts.MetadataAddress = &addr
			}
		}
	}
}
