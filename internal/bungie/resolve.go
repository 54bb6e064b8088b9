package bungie

import (
	"context"
	"fmt"
	"log/slog"

	"echo/internal/identity"
)

// ResolveMember resolves a validated identifier to exactly one canonical
// account, or nil when the identifier matches nobody. A player may hold
// linked accounts on several platforms; the cross-save rules below pick the
// one the upstream platform itself treats as current.
//
// With multiple cards, a crossSaveOverride of zero on any card means
// cross-save is not fully active for the account family, so the canonical
// account is whichever linked profile played most recently. When every card
// carries a nonzero override, the cards agree on a primary platform and the
// card on that platform wins.
func (c *Client) ResolveMember(ctx context.Context, id identity.BungieID) (*Member, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id.String())
	}

	cards, err := c.SearchPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		c.logger.Debug("no profile cards for id", slog.String("id", id.String()))
		return nil, nil
	}
	if len(cards) == 1 {
		return &Member{MembershipID: cards[0].MembershipID, PlatformID: cards[0].MembershipType}, nil
	}
	return c.resolveCrossSave(ctx, cards)
}

func (c *Client) resolveCrossSave(ctx context.Context, cards []ProfileCard) (*Member, error) {
	overrideDisabled := false
	overrideID := 0
	for _, card := range cards {
		if card.CrossSaveOverride == 0 {
			overrideDisabled = true
			continue
		}
		overrideID = card.CrossSaveOverride
	}

	if overrideDisabled {
		return c.mostRecentLinkedProfile(ctx, cards[0])
	}

	// Fully linked: pick the card on the overriding platform. The zero-override
	// check is defensive; in fully-linked mode no card should carry one. The
	// first card stays as the documented default when nothing matches.
	chosen := cards[0]
	for _, card := range cards[1:] {
		if card.CrossSaveOverride == 0 || card.MembershipType == overrideID {
			chosen = card
		}
	}
	return &Member{MembershipID: chosen.MembershipID, PlatformID: chosen.MembershipType}, nil
}

// mostRecentLinkedProfile picks the linked profile with the latest last-played
// timestamp. Ties keep the first-seen maximum. An empty linked-profile list
// means the lookup as a whole has no result.
func (c *Client) mostRecentLinkedProfile(ctx context.Context, card ProfileCard) (*Member, error) {
	profiles, err := c.LinkedProfiles(ctx, card.MembershipType, card.MembershipID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	mostRecent := profiles[0]
	for _, profile := range profiles[1:] {
		if profile.DateLastPlayed.After(mostRecent.DateLastPlayed) {
			mostRecent = profile
		}
	}
	return &Member{MembershipID: mostRecent.MembershipID, PlatformID: mostRecent.MembershipType}, nil
}
