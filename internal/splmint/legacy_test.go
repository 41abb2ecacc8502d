package splmint

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
)

// buildMintAccount constructs an 82-byte mint record.
func buildMintAccount(mintOpt uint32, mintAuth []byte, supply uint64, decimals byte, initialized byte, freezeOpt uint32, freezeAuth []byte) []byte {
	buf := make([]byte, MintAccountSize)
	binary.LittleEndian.PutUint32(buf[0:], mintOpt)
	copy(buf[4:36], mintAuth)
	binary.LittleEndian.PutUint64(buf[36:], supply)
	buf[44] = decimals
	buf[45] = initialized
	binary.LittleEndian.PutUint32(buf[46:], freezeOpt)
	copy(buf[50:82], freezeAuth)
	return buf
}

// testPubkey returns a deterministic 32-byte key filled with b.
func testPubkey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestParseLegacyMint_TooShort(t *testing.T) {
	for _, size := range []int{0, 1, 4, 36, 81} {
		data := make([]byte, size)
		if _, err := ParseLegacyMint(data); err == nil {
			t.Errorf("size %d: expected error, got nil", size)
		}
	}
}

func TestParseLegacyMint_TooLong(t *testing.T) {
	data := make([]byte, MintAccountSize+1)
	if _, err := ParseLegacyMint(data); err == nil {
		t.Error("expected error for oversized buffer, got nil")
	}
}

func TestParseLegacyMint_NoAuthorities(t *testing.T) {
	data := buildMintAccount(0, testPubkey(0xAA), 1_000_000, 6, 1, 0, testPubkey(0xBB))

	facts, err := ParseLegacyMint(data)
	if err != nil {
		t.Fatalf("ParseLegacyMint failed: %v", err)
	}

	if facts.MintAuthority != nil {
		t.Errorf("MintAuthority should be nil when option=0, got %s", *facts.MintAuthority)
	}
	if facts.FreezeAuthority != nil {
		t.Errorf("FreezeAuthority should be nil when option=0, got %s", *facts.FreezeAuthority)
	}
	if facts.Supply != 1_000_000 {
		t.Errorf("Supply mismatch: got %d, want 1000000", facts.Supply)
	}
	if facts.Decimals != 6 {
		t.Errorf("Decimals mismatch: got %d, want 6", facts.Decimals)
	}
	if !facts.IsInitialized {
		t.Error("IsInitialized should be true")
	}
	if facts.IsToken2022 {
		t.Error("IsToken2022 should be false on legacy path")
	}
}

func TestParseLegacyMint_BothAuthorities(t *testing.T) {
	mintAuth := testPubkey(0x11)
	freezeAuth := testPubkey(0x22)
	data := buildMintAccount(1, mintAuth, 42, 9, 1, 1, freezeAuth)

	facts, err := ParseLegacyMint(data)
	if err != nil {
		t.Fatalf("ParseLegacyMint failed: %v", err)
	}

	if facts.MintAuthority == nil {
		t.Fatal("MintAuthority should be set when option=1")
	}
	decoded, err := base58.Decode(*facts.MintAuthority)
	if err != nil {
		t.Fatalf("MintAuthority is not valid base58: %v", err)
	}
	if !bytes.Equal(decoded, mintAuth) {
		t.Errorf("MintAuthority bytes mismatch: got %x", decoded)
	}

	if facts.FreezeAuthority == nil {
		t.Fatal("FreezeAuthority should be set when option=1")
	}
	decoded, err = base58.Decode(*facts.FreezeAuthority)
	if err != nil {
		t.Fatalf("FreezeAuthority is not valid base58: %v", err)
	}
	if !bytes.Equal(decoded, freezeAuth) {
		t.Errorf("FreezeAuthority bytes mismatch: got %x", decoded)
	}
}

func TestParseLegacyMint_OptionFlagOtherValues(t *testing.T) {
	// Anything other than exactly 1 means no authority.
	data := buildMintAccount(2, testPubkey(0x11), 0, 0, 0, 0xFFFFFFFF, testPubkey(0x22))

	facts, err := ParseLegacyMint(data)
	if err != nil {
		t.Fatalf("ParseLegacyMint failed: %v", err)
	}

	if facts.MintAuthority != nil {
		t.Error("MintAuthority should be nil for option=2")
	}
	if facts.FreezeAuthority != nil {
		t.Error("FreezeAuthority should be nil for option=0xFFFFFFFF")
	}
	if facts.IsInitialized {
		t.Error("IsInitialized should be false")
	}
}
