// Package catalog holds the static game data: the tradable assets, the venues
// the player travels between and the balance constants of a run. The default
// catalog is embedded from catalog.yaml and a file with the same layout can
// replace it at startup.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

var (
	ErrNoAssets = errors.New("catalog has no assets")
	ErrNoVenues = errors.New("catalog has no venues")
)

// Catalog is the root struct, mapping to the whole catalog YAML file.
type Catalog struct {
	Balance Balance `yaml:"game_balance"`
	Assets  []Asset `yaml:"assets"`
	Venues  []Venue `yaml:"venues"`
}

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from the given YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyDefaults fills balance values the YAML left out.
func (c *Catalog) applyDefaults() {
	b := &c.Balance
	if b.InterestRate == 0 {
		b.InterestRate = 1.15
	}
	if b.HistoryLimit <= 0 {
		b.HistoryLimit = 5
	}
	if len(b.DayOptions) == 0 {
		b.DayOptions = []int{30, 60}
	}
	if b.PriceFloor <= 0 {
		b.PriceFloor = 1e-11
	}
	if b.MaxHealth <= 0 {
		b.MaxHealth = 100
	}
}

// Validate checks the invariants the engine relies on.
func (c *Catalog) Validate() error {
	if len(c.Assets) == 0 {
		return ErrNoAssets
	}
	if len(c.Venues) == 0 {
		return ErrNoVenues
	}

	seen := make(map[AssetID]bool, len(c.Assets))
	for _, a := range c.Assets {
		if a.ID == "" {
			return fmt.Errorf("asset %q: empty id", a.Name)
		}
		if seen[a.ID] {
			return fmt.Errorf("asset %q: duplicate id", a.ID)
		}
		seen[a.ID] = true
		if a.BasePrice <= 0 {
			return fmt.Errorf("asset %q: base price must be positive", a.ID)
		}
		if a.Volatility <= 0 || a.Volatility > 1 {
			return fmt.Errorf("asset %q: volatility must be in (0, 1]", a.ID)
		}
	}

	seenVenue := make(map[VenueID]bool, len(c.Venues))
	for _, v := range c.Venues {
		if v.ID == "" {
			return fmt.Errorf("venue %q: empty id", v.Name)
		}
		if seenVenue[v.ID] {
			return fmt.Errorf("venue %q: duplicate id", v.ID)
		}
		seenVenue[v.ID] = true
		switch v.Modifier.Kind {
		case ModifierNone, ModifierRugImmunity:
		case ModifierBuyDiscount, ModifierSellBonus, ModifierCashYield:
			if v.Modifier.Magnitude <= 0 || v.Modifier.Magnitude >= 1 {
				return fmt.Errorf("venue %q: %s magnitude must be in (0, 1)", v.ID, v.Modifier.Kind)
			}
		case ModifierAmplifyVolatility:
			if v.Modifier.Magnitude <= 1 {
				return fmt.Errorf("venue %q: amplification must be > 1", v.ID)
			}
		default:
			return fmt.Errorf("venue %q: unknown modifier %q", v.ID, v.Modifier.Kind)
		}
	}

	b := c.Balance
	if b.StartingCash < 0 || b.StartingDebt < 0 {
		return errors.New("balance: starting cash and debt must be non-negative")
	}
	if b.InterestRate < 1 {
		return errors.New("balance: interest rate must be >= 1")
	}
	if b.RugPullChance < 0 || b.RugPullChance > 1 {
		return errors.New("balance: rug pull chance must be in [0, 1]")
	}
	if b.RugPullPenalty < 0 || b.WalletCapacity < 0 {
		return errors.New("balance: penalty and capacity must be non-negative")
	}
	for _, d := range b.DayOptions {
		if d <= 0 {
			return fmt.Errorf("balance: invalid day option %d", d)
		}
	}
	return nil
}

// Asset returns the asset with the given id.
func (c *Catalog) Asset(id AssetID) (Asset, bool) {
	for _, a := range c.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// Venue returns the venue with the given id.
func (c *Catalog) Venue(id VenueID) (Venue, bool) {
	for _, v := range c.Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// StartVenue is the venue every run begins at.
func (c *Catalog) StartVenue() Venue {
	return c.Venues[0]
}
