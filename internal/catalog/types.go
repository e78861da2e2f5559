package catalog

import "strings"

// AssetID uniquely identifies a tradable asset.
type AssetID string

// VenueID uniquely identifies a trading venue.
type VenueID string

// Asset represents a tradable coin.
type Asset struct {
	ID          AssetID `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	BasePrice   float64 `yaml:"base_price" json:"base_price"`
	Volatility  float64 `yaml:"volatility" json:"volatility"` // (0, 1]
	Description string  `yaml:"description" json:"description"`
}

// Symbol is the upper-cased id used in history messages.
func (a Asset) Symbol() string {
	return strings.ToUpper(string(a.ID))
}

// ModifierKind names the rule a venue applies.
type ModifierKind string

const (
	ModifierNone              ModifierKind = ""
	ModifierBuyDiscount       ModifierKind = "buy_discount"
	ModifierSellBonus         ModifierKind = "sell_bonus"
	ModifierRugImmunity       ModifierKind = "rug_immunity"
	ModifierAmplifyVolatility ModifierKind = "amplify_volatility"
	ModifierCashYield         ModifierKind = "cash_yield"
)

// Modifier is the behavioral rule attached to a venue.
//
// Magnitude is a fraction for buy_discount, sell_bonus and cash_yield
// (0.05 = 5%) and a multiplier for amplify_volatility. Threshold and Cap
// only apply to amplify_volatility.
type Modifier struct {
	Kind      ModifierKind `yaml:"kind" json:"kind"`
	Magnitude float64      `yaml:"magnitude" json:"magnitude"`
	Threshold float64      `yaml:"threshold" json:"threshold"`
	Cap       float64      `yaml:"cap" json:"cap"`
}

// Venue represents a DEX the player can travel to.
type Venue struct {
	ID        VenueID  `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Network   string   `yaml:"network" json:"network"`
	Specialty string   `yaml:"specialty" json:"specialty"`
	Color     string   `yaml:"color" json:"color,omitempty"`
	Icon      string   `yaml:"icon" json:"icon,omitempty"`
	Modifier  Modifier `yaml:"modifier" json:"modifier"`
}

// Has reports whether the venue applies the given modifier kind.
func (v Venue) Has(kind ModifierKind) bool {
	return kind != ModifierNone && v.Modifier.Kind == kind
}

// BuyPrice returns the unit price paid at this venue.
func (v Venue) BuyPrice(price float64) float64 {
	if v.Has(ModifierBuyDiscount) {
		return price * (1 - v.Modifier.Magnitude)
	}
	return price
}

// SellPrice returns the unit price received at this venue.
func (v Venue) SellPrice(price float64) float64 {
	if v.Has(ModifierSellBonus) {
		return price * (1 + v.Modifier.Magnitude)
	}
	return price
}

// EffectiveVolatility returns the volatility used for price draws at this venue.
func (v Venue) EffectiveVolatility(vol float64) float64 {
	if !v.Has(ModifierAmplifyVolatility) || vol < v.Modifier.Threshold {
		return vol
	}
	amplified := vol * v.Modifier.Magnitude
	if v.Modifier.Cap > 0 && amplified > v.Modifier.Cap {
		return v.Modifier.Cap
	}
	return amplified
}

// Balance stores the global tuning variables of a run.
type Balance struct {
	StartingCash   float64 `yaml:"starting_cash" json:"starting_cash"`
	StartingDebt   float64 `yaml:"starting_debt" json:"starting_debt"`
	InterestRate   float64 `yaml:"interest_rate" json:"interest_rate"`       // daily debt multiplier
	RugPullChance  float64 `yaml:"rug_pull_chance" json:"rug_pull_chance"`   // per travel
	RugPullPenalty int     `yaml:"rug_pull_penalty" json:"rug_pull_penalty"` // OpSec points
	WalletCapacity int64   `yaml:"wallet_capacity" json:"wallet_capacity"`   // 0 means unlimited
	HistoryLimit   int     `yaml:"history_limit" json:"history_limit"`
	DayOptions     []int   `yaml:"day_options" json:"day_options"`
	PriceFloor     float64 `yaml:"price_floor" json:"price_floor"`
	MaxHealth      int     `yaml:"max_health" json:"max_health"`
}

// AllowsDays reports whether a run may be started with the given length.
func (b Balance) AllowsDays(days int) bool {
	for _, d := range b.DayOptions {
		if d == days {
			return true
		}
	}
	return false
}
