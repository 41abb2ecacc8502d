// Package splmint decodes SPL token mint and metadata account data.
//
// All decoders operate on raw account bytes already fetched from a node.
// The bytes are attacker-controlled: every variable-length field is
// bounds-checked before slicing, and malformed input degrades the result
// instead of panicking.
package splmint

// Well-known program ids.
const (
	// TokenProgramID is the legacy SPL Token program.
	TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// Token2022ProgramID is the extensible Token-2022 program.
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"

	// MetadataProgramID is the Metaplex token metadata program, used only
	// for metadata PDA derivation.
	MetadataProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// IsTokenProgram reports whether owner is either known token program.
func IsTokenProgram(owner string) bool {
	return owner == TokenProgramID || owner == Token2022ProgramID
}
