package bungie

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"time"
)

// ProfileResponse carries the character and activity components of a
// membership's profile.
type ProfileResponse struct {
	MintedTimestamp time.Time `json:"responseMintedTimestamp"`
	Characters      struct {
		Data map[string]CharacterSummary `json:"data"`
	} `json:"characters"`
	CharacterActivities struct {
		Data map[string]CharacterActivity `json:"data"`
	} `json:"characterActivities"`
}

// CharacterSummary is the slice of a character record this client needs.
type CharacterSummary struct {
	DateLastPlayed time.Time `json:"dateLastPlayed"`
}

// CharacterActivity describes what a character is currently doing.
type CharacterActivity struct {
	CurrentActivityModeTypes []Mode `json:"currentActivityModeTypes"`
}

// MostRecentCharacterID returns the id of the character played most recently,
// or empty when the profile has no characters.
func (p *ProfileResponse) MostRecentCharacterID() string {
	var id string
	var latest time.Time
	for key, character := range p.Characters.Data {
		if id == "" || character.DateLastPlayed.After(latest) {
			id = key
			latest = character.DateLastPlayed
		}
	}
	return id
}

// Profile fetches the character and activity components for a membership. A
// random query value busts intermediate caches the way the upstream site
// does. When a memo is attached, the freshest snapshot by minted timestamp is
// returned, which may be the memoized one.
func (c *Client) Profile(ctx context.Context, membershipType int, membershipID string) (*ProfileResponse, error) {
	path := fmt.Sprintf("/Destiny2/%d/Profile/%s/?components=200,204&rnd=%d",
		membershipType, url.PathEscape(membershipID), rand.IntN(9990000)+10000)

	var payload ProfileResponse
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return c.memo.Remember(payload.MintedTimestamp, &payload), nil
}

// CurrentActivityModes reports the activity modes of the most recently played
// character, or nil when no character is available.
func (c *Client) CurrentActivityModes(ctx context.Context, membershipType int, membershipID string) ([]Mode, error) {
	profile, err := c.Profile(ctx, membershipType, membershipID)
	if err != nil {
		return nil, err
	}
	characterID := profile.MostRecentCharacterID()
	if characterID == "" {
		return nil, nil
	}
	activity, ok := profile.CharacterActivities.Data[characterID]
	if !ok {
		return nil, nil
	}
	return activity.CurrentActivityModeTypes, nil
}
