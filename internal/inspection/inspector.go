package inspection

import (
	"context"
	"fmt"
	"log"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/splmint"
)

// Report is the outcome of inspecting one mint address. It carries
// everything the classifier needs plus the slot the account was read at.
type Report struct {
	Mint            string
	AccountFound    bool
	OwnerRecognized bool
	Slot            int64
	Facts           *domain.MintFacts
	Metadata        *domain.MetadataFacts
}

// Inspector fetches a mint account, routes it to the right decoder by
// owning program, and resolves the associated metadata record.
type Inspector struct {
	fetcher AccountFetcher
	logger  *log.Logger
}

// InspectorOptions contains configuration for creating an Inspector.
type InspectorOptions struct {
	Fetcher AccountFetcher
	Logger  *log.Logger
}

// NewInspector creates a new mint inspector.
func NewInspector(opts InspectorOptions) *Inspector {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Inspector{
		fetcher: opts.Fetcher,
		logger:  logger,
	}
}

// Inspect fetches and decodes the mint account at the given address.
// Transport failures on the mint account itself are returned as errors;
// everything downstream (malformed bytes, unreachable metadata) degrades
// into the report instead so the classifier can apply its own policy.
func (i *Inspector) Inspect(ctx context.Context, mint string) (*Report, error) {
	account, err := i.fetcher.Fetch(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("fetch mint %s: %w", mint, err)
	}

	if account == nil {
		return &Report{Mint: mint}, nil
	}

	report := &Report{
		Mint:         mint,
		AccountFound: true,
		Slot:         account.Slot,
	}

	switch account.Owner {
	case splmint.TokenProgramID:
		report.OwnerRecognized = true
		facts, err := splmint.ParseLegacyMint(account.Data)
		if err != nil {
			i.logger.Printf("[inspect] Malformed legacy mint %s: %v", mint, err)
			report.Facts = &domain.MintFacts{ParseFail: true}
			return report, nil
		}
		report.Facts = facts
		report.Metadata = i.resolveMetadata(ctx, mint, nil)

	case splmint.Token2022ProgramID:
		report.OwnerRecognized = true
		report.Facts = splmint.ParseMint2022(account.Data)
		report.Metadata = i.resolveMetadata(ctx, mint, report.Facts.MetadataAddress)

	default:
		// Not a recognized token program. Empty facts, classifier maps
		// this to UNKNOWN.
		report.Facts = &domain.MintFacts{}
	}

	return report, nil
}

// resolveMetadata locates and decodes the metadata record for a mint.
// The pointer address from the extension chain takes priority; without
// one the canonical derived address is used. Any failure along the way
// yields nil, which classifies as undetermined mutability.
func (i *Inspector) resolveMetadata(ctx context.Context, mint string, pointer *string) *domain.MetadataFacts {
	address := ""
	if pointer != nil {
		address = *pointer
	} else {
		derived, err := splmint.DeriveMetadataAddress(mint)
		if err != nil {
			i.logger.Printf("[inspect] Derive metadata address for %s: %v", mint, err)
			return nil
		}
		address = derived
	}

	account, err := i.fetcher.Fetch(ctx, address)
	if err != nil {
		i.logger.Printf("[inspect] Fetch metadata %s for mint %s: %v", address, mint, err)
		return nil
	}

	if account == nil {
		return nil
	}

	return splmint.ParseMetadata(account.Data)
}
