package services

import (
	"context"

	"github.com/growcart/growcart_backend/models"
)

// ResolveUpline returns up to MaxCommissionLevels ancestors of a user,
// nearest first. A live uplineId pointer chain is always preferred; the
// registration-time referralChain snapshot is only consulted when no pointer
// exists. A missing ancestor stops the walk early rather than erroring, so a
// broken chain just means fewer levels receive commission.
func ResolveUpline(ctx context.Context, users UserStore, user *models.User) []models.User {
	chain := make([]models.User, 0, models.MaxCommissionLevels)

	if user.UplineID != nil {
		next := user.UplineID
		for next != nil && len(chain) < models.MaxCommissionLevels {
			ancestor, err := users.FindByID(ctx, *next)
			if err != nil {
				break
			}
			chain = append(chain, *ancestor)
			next = ancestor.UplineID
		}
		return chain
	}

	for _, id := range user.ReferralChain {
		if len(chain) >= models.MaxCommissionLevels {
			break
		}
		ancestor, err := users.FindByID(ctx, id)
		if err != nil {
			break
		}
		chain = append(chain, *ancestor)
	}
	return chain
}
