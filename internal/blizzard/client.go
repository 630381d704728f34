// Package blizzard is the Battle.net API client. It layers OAuth token
// management, request rate limiting and tiered caching on top of the
// retrying HTTP client, and maps upstream failures onto domain errors.
package blizzard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wowlab/guildsim/internal/cache"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/httpclient"
	"github.com/wowlab/guildsim/internal/metrics"
)

// Config holds Battle.net API credentials and tuning.
type Config struct {
	ClientID     string
	ClientSecret string
	Region       string
	Locale       string
	// RequestsPerSecond caps outbound API calls. Zero means the default.
	RequestsPerSecond float64
	CacheSize         int
	// CacheStore mirrors cached responses into durable storage so they
	// survive restarts. Nil keeps the cache memory-only.
	CacheStore cache.Store
	// APIBaseURL and OAuthBaseURL override the regional endpoints,
	// mainly for tests.
	APIBaseURL   string
	OAuthBaseURL string
}

// Client talks to the Battle.net API for one region.
type Client struct {
	http    *httpclient.Client
	tokens  *tokenSource
	limiter *rate.Limiter
	region  string
	locale  string
	apiURL  string

	profiles  *cache.Persistent[*CharacterSummary]
	equipment *cache.Persistent[*CharacterEquipment]
	media     *cache.Persistent[string]
	rosters   *cache.Persistent[*GuildRoster]
	realms    *cache.Persistent[[]Realm]
}

// New creates a client. Credentials are required.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("battle.net client credentials are required")
	}
	if cfg.Region == "" {
		cfg.Region = RegionUS
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = httpclient.DefaultCacheSize
	}

	httpClient, err := httpclient.New(httpclient.Config{
		MaxRetries: httpclient.DefaultMaxRetries,
		CacheSize:  cfg.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	profiles, err := cache.NewPersistent[*CharacterSummary](cfg.CacheSize, cfg.CacheStore)
	if err != nil {
		return nil, err
	}
	equipment, err := cache.NewPersistent[*CharacterEquipment](cfg.CacheSize, cfg.CacheStore)
	if err != nil {
		return nil, err
	}
	media, err := cache.NewPersistent[string](cfg.CacheSize, cfg.CacheStore)
	if err != nil {
		return nil, err
	}
	rosters, err := cache.NewPersistent[*GuildRoster](cfg.CacheSize, cfg.CacheStore)
	if err != nil {
		return nil, err
	}
	realms, err := cache.NewPersistent[[]Realm](cfg.CacheSize, cfg.CacheStore)
	if err != nil {
		return nil, err
	}

	if cfg.OAuthBaseURL == "" {
		cfg.OAuthBaseURL = "https://oauth.battle.net"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = fmt.Sprintf("https://%s.api.blizzard.com", cfg.Region)
	}

	return &Client{
		http:      httpClient,
		tokens:    newTokenSource(httpClient, cfg.OAuthBaseURL, cfg.ClientID, cfg.ClientSecret),
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), DefaultBurst),
		region:    cfg.Region,
		locale:    NormalizeLocale(cfg.Locale),
		apiURL:    cfg.APIBaseURL,
		profiles:  profiles,
		equipment: equipment,
		media:     media,
		rosters:   rosters,
		realms:    realms,
	}, nil
}

// Region returns the region this client is bound to.
func (c *Client) Region() string { return c.region }

// RealmSlug converts a realm display name to the slug used in API paths.
// "Mal'Ganis" becomes "malganis", "Twisting Nether" becomes
// "twisting-nether".
func RealmSlug(realm string) string {
	s := strings.ToLower(strings.TrimSpace(realm))
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// CharacterProfile fetches a character's profile summary.
func (c *Client) CharacterProfile(ctx context.Context, realm, name string) (*CharacterSummary, error) {
	realmSlug := RealmSlug(realm)
	nameSlug := strings.ToLower(name)
	key := cache.Key("profile", c.region, realmSlug, nameSlug)

	if summary, ok := c.profiles.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues(TierProfile).Inc()
		return summary, nil
	}
	metrics.CacheMisses.WithLabelValues(TierProfile).Inc()

	var raw characterSummaryResponse
	path := fmt.Sprintf("/profile/wow/character/%s/%s", realmSlug, url.PathEscape(nameSlug))
	if err := c.getJSON(ctx, EndpointCharacterProfile, path, NamespaceProfile, &raw); err != nil {
		return nil, mapNotFound(err, domain.ErrCharacterNotFound)
	}

	summary := &CharacterSummary{
		Name:              raw.Name,
		Realm:             raw.Realm.Name,
		RealmSlug:         raw.Realm.Slug,
		Class:             raw.CharacterClass.Name,
		ActiveSpec:        raw.ActiveSpec.Name,
		Level:             raw.Level,
		Faction:           raw.Faction.Name,
		AverageItemLevel:  raw.AverageItemLevel,
		EquippedItemLevel: raw.EquippedItemLevel,
	}
	if raw.Guild != nil {
		summary.GuildName = raw.Guild.Name
	}

	c.profiles.Set(ctx, key, summary, cache.TTLProfile)
	return summary, nil
}

// CharacterEquipment fetches a character's currently equipped items.
func (c *Client) CharacterEquipment(ctx context.Context, realm, name string) (*CharacterEquipment, error) {
	realmSlug := RealmSlug(realm)
	nameSlug := strings.ToLower(name)
	key := cache.Key("equipment", c.region, realmSlug, nameSlug)

	if eq, ok := c.equipment.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues(TierProfile).Inc()
		return eq, nil
	}
	metrics.CacheMisses.WithLabelValues(TierProfile).Inc()

	var raw characterEquipmentResponse
	path := fmt.Sprintf("/profile/wow/character/%s/%s/equipment", realmSlug, url.PathEscape(nameSlug))
	if err := c.getJSON(ctx, EndpointCharacterEquip, path, NamespaceProfile, &raw); err != nil {
		return nil, mapNotFound(err, domain.ErrCharacterNotFound)
	}

	eq := &CharacterEquipment{Items: make([]EquippedItem, 0, len(raw.EquippedItems))}
	for _, it := range raw.EquippedItems {
		item := EquippedItem{
			ID:        it.Item.ID,
			Name:      it.Name,
			Slot:      it.Slot.Type,
			ItemLevel: it.Level.Value,
			BonusIDs:  it.BonusList,
		}
		for _, e := range it.Enchantments {
			item.EnchantIDs = append(item.EnchantIDs, e.EnchantmentID)
		}
		for _, s := range it.Sockets {
			if s.Item != nil {
				item.GemIDs = append(item.GemIDs, s.Item.ID)
			}
		}
		eq.Items = append(eq.Items, item)
	}

	c.equipment.Set(ctx, key, eq, cache.TTLProfile)
	return eq, nil
}

// ItemMedia returns the icon URL for an item.
func (c *Client) ItemMedia(ctx context.Context, itemID int) (string, error) {
	key := cache.Key("item-media", c.region, fmt.Sprint(itemID))

	if iconURL, ok := c.media.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues(TierStatic).Inc()
		return iconURL, nil
	}
	metrics.CacheMisses.WithLabelValues(TierStatic).Inc()

	var raw mediaResponse
	path := fmt.Sprintf("/data/wow/media/item/%d", itemID)
	if err := c.getJSON(ctx, EndpointItemMedia, path, NamespaceStatic, &raw); err != nil {
		return "", mapNotFound(err, domain.ErrUpstreamError)
	}

	for _, asset := range raw.Assets {
		if asset.Key == "icon" {
			c.media.Set(ctx, key, asset.Value, cache.TTLStatic)
			return asset.Value, nil
		}
	}
	return "", fmt.Errorf("%w: item %d has no icon asset", domain.ErrUpstreamError, itemID)
}

// RealmIndex lists the realms in the client's region, for realm
// autocomplete. The list changes roughly once per expansion, so it caches
// at the static tier.
func (c *Client) RealmIndex(ctx context.Context) ([]Realm, error) {
	key := cache.Key("realm-index", c.region)

	if realms, ok := c.realms.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues(TierStatic).Inc()
		return realms, nil
	}
	metrics.CacheMisses.WithLabelValues(TierStatic).Inc()

	var raw realmIndexResponse
	if err := c.getJSON(ctx, EndpointRealmIndex, "/data/wow/realm/index", NamespaceDynamic, &raw); err != nil {
		return nil, mapNotFound(err, domain.ErrUpstreamError)
	}

	realms := make([]Realm, 0, len(raw.Realms))
	for _, r := range raw.Realms {
		realms = append(realms, Realm{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}

	c.realms.Set(ctx, key, realms, cache.TTLStatic)
	return realms, nil
}

// GuildRoster fetches a guild's member list.
func (c *Client) GuildRoster(ctx context.Context, realm, guildSlug string) (*GuildRoster, error) {
	realmSlug := RealmSlug(realm)
	key := cache.Key("guild-roster", c.region, realmSlug, guildSlug)

	if roster, ok := c.rosters.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues(TierDynamic).Inc()
		return roster, nil
	}
	metrics.CacheMisses.WithLabelValues(TierDynamic).Inc()

	var raw guildRosterResponse
	path := fmt.Sprintf("/data/wow/guild/%s/%s/roster", realmSlug, url.PathEscape(guildSlug))
	if err := c.getJSON(ctx, EndpointGuildRoster, path, NamespaceProfile, &raw); err != nil {
		return nil, mapNotFound(err, domain.ErrGuildNotFound)
	}

	roster := &GuildRoster{
		GuildName: raw.Guild.Name,
		Faction:   raw.Guild.Faction.Type,
		Members:   make([]GuildMember, 0, len(raw.Members)),
	}
	for _, m := range raw.Members {
		roster.Members = append(roster.Members, GuildMember{
			Name:      m.Character.Name,
			RealmSlug: m.Character.Realm.Slug,
			Level:     m.Character.Level,
			ClassID:   m.Character.PlayableClass.ID,
			Rank:      m.Rank,
		})
	}

	c.rosters.Set(ctx, key, roster, cache.TTLDynamic)
	return roster, nil
}

// InvalidateCharacter drops cached data for one character so the next
// fetch goes upstream. Used after the player re-imports their gear.
func (c *Client) InvalidateCharacter(ctx context.Context, realm, name string) {
	realmSlug := RealmSlug(realm)
	nameSlug := strings.ToLower(name)
	c.profiles.Invalidate(ctx, cache.Key("profile", c.region, realmSlug, nameSlug))
	c.equipment.Invalidate(ctx, cache.Key("equipment", c.region, realmSlug, nameSlug))
}

// ExchangeCode swaps an OAuth authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.tokens.oauthURL + "/token",
		Header: http.Header{
			"Authorization": {basicAuth(c.tokens.clientID, c.tokens.clientSecret)},
			"Content-Type":  {"application/x-www-form-urlencoded"},
		},
		Body: []byte(form.Encode()),
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(EndpointToken, metrics.StatusError).Inc()
		return "", fmt.Errorf("%w: code exchange failed: %v", domain.ErrUnauthenticated, err)
	}
	metrics.UpstreamRequests.WithLabelValues(EndpointToken, metrics.StatusOK).Inc()

	var tr tokenResponse
	if err := decodeJSON(resp.Body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", domain.ErrUnauthenticated)
	}
	return tr.AccessToken, nil
}

// UserInfo fetches the Battle.net account behind a user access token.
func (c *Client) UserInfo(ctx context.Context, userToken string) (*UserInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var raw UserInfo
	err := c.http.GetJSON(ctx, c.tokens.oauthURL+"/userinfo", nil,
		http.Header{"Authorization": {"Bearer " + userToken}}, &raw)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(EndpointUserInfo, metrics.StatusError).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	metrics.UpstreamRequests.WithLabelValues(EndpointUserInfo, metrics.StatusOK).Inc()
	return &raw, nil
}

// AccountCharacters lists the WoW characters on the user's account. This
// endpoint requires the user's own token, not the app token.
func (c *Client) AccountCharacters(ctx context.Context, userToken string) ([]AccountCharacter, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"locale":    {c.locale},
		"namespace": {NamespaceProfile + "-" + c.region},
	}
	var raw accountProfileResponse
	err := c.http.GetJSON(ctx, c.apiURL+"/profile/user/wow", query,
		http.Header{"Authorization": {"Bearer " + userToken}}, &raw)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(EndpointAccountCharacters, metrics.StatusError).Inc()
		return nil, mapNotFound(err, domain.ErrUserNotFound)
	}
	metrics.UpstreamRequests.WithLabelValues(EndpointAccountCharacters, metrics.StatusOK).Inc()

	var characters []AccountCharacter
	for _, account := range raw.WowAccounts {
		for _, ch := range account.Characters {
			characters = append(characters, AccountCharacter{
				ID:        ch.ID,
				Name:      ch.Name,
				Realm:     ch.Realm.Name,
				RealmSlug: ch.Realm.Slug,
				Class:     ch.PlayableClass.Name,
				Level:     ch.Level,
			})
		}
	}
	return characters, nil
}

// getJSON performs an authenticated, rate-limited GET against the game API
// and records upstream request metrics.
func (c *Client) getJSON(ctx context.Context, endpoint, path, namespace string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	query := url.Values{
		"locale":    {c.locale},
		"namespace": {namespace + "-" + c.region},
	}
	header := http.Header{"Authorization": {"Bearer " + token}}

	if err := c.http.GetJSON(ctx, c.apiURL+path, query, header, out); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.StatusError).Inc()
		return err
	}
	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.StatusOK).Inc()
	return nil
}

// mapNotFound translates upstream failures into domain errors: 404 becomes
// notFoundErr, 429 becomes ErrRateLimited, everything else ErrUpstreamError.
func mapNotFound(err error, notFoundErr error) error {
	var apiErr *httpclient.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %v", notFoundErr, err)
		case apiErr.Kind == httpclient.KindRateLimited:
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamError, err)
}
