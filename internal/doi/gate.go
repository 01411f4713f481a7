// Package doi gates persistent identifier reservation behind an operator
// confirmation so minting, an effectively irreversible action, happens at
// most once per deposit.
package doi

import (
	"context"
	"log/slog"

	"curator/internal/confirm"
	"curator/internal/logging"
)

// Checker is the slice of the gateway the gate needs.
type Checker interface {
	DOICheck(ctx context.Context, articleID int64) (bool, string, error)
	ReserveDOI(ctx context.Context, articleID int64) (string, error)
}

// Result reports the identifier state after the gate ran.
type Result struct {
	// DOI is the identifier string; empty when unreserved and the operator
	// declined minting.
	DOI string
	// Minted is true only when this invocation issued the reservation.
	Minted bool
}

// Gate ensures at most one reservation action per deposit.
type Gate struct {
	client    Checker
	confirmer confirm.Confirmer
	logger    *slog.Logger
}

// NewGate constructs a reservation gate.
func NewGate(client Checker, confirmer confirm.Confirmer, logger *slog.Logger) *Gate {
	return &Gate{
		client:    client,
		confirmer: confirmer,
		logger:    logging.WithComponent(logger, "doi"),
	}
}

// EnsureIdentifier returns the deposit's identifier, minting one only after
// an explicit affirmative confirmation. An already-reserved identifier is
// returned as a logged no-op; a decline is a normal skip outcome, not an
// error.
func (g *Gate) EnsureIdentifier(ctx context.Context, articleID int64) (Result, error) {
	log := logging.WithContext(ctx, g.logger)

	reserved, current, err := g.client.DOICheck(ctx, articleID)
	if err != nil {
		return Result{}, err
	}
	if reserved {
		log.Info("identifier already reserved, skipping", logging.String("doi", current))
		return Result{DOI: current}, nil
	}

	ok, err := g.confirmer.Confirm("No identifier reserved for this deposit. Reserve one now?")
	if err != nil {
		return Result{}, err
	}
	if !ok {
		log.Warn("identifier reservation skipped by operator")
		return Result{DOI: current}, nil
	}

	minted, err := g.client.ReserveDOI(ctx, articleID)
	if err != nil {
		return Result{}, err
	}
	log.Info("identifier minted", logging.String("doi", minted))
	return Result{DOI: minted, Minted: true}, nil
}
