package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/dexwars/internal/catalog"
	"github.com/zappabad/dexwars/internal/entropy"
)

var testAssets = []catalog.Asset{
	{ID: "btc", BasePrice: 65000, Volatility: 0.1},
	{ID: "hex", BasePrice: 0.05, Volatility: 0.4},
	{ID: "pepe", BasePrice: 0.000001, Volatility: 1.0},
}

func TestGenerateMidpointKeepsBasePrice(t *testing.T) {
	g := NewGenerator(entropy.Constant(0.5), 0)

	prices := g.Generate(testAssets, catalog.Venue{})

	require.Len(t, prices, len(testAssets))
	for _, a := range testAssets {
		assert.InDelta(t, a.BasePrice, prices[a.ID], a.BasePrice*1e-9, a.ID)
	}
}

func TestGenerateExtremes(t *testing.T) {
	// U=0 gives f=-1, U→1 gives f→+1.
	low := NewGenerator(entropy.Constant(0), 0).Generate(testAssets, catalog.Venue{})
	assert.InDelta(t, 65000*0.9, low["btc"], 1e-6)
	assert.InDelta(t, 0.05*0.6, low["hex"], 1e-12)
	assert.Equal(t, DefaultFloor, low["pepe"], "volatility 1.0 bottoms out at the floor")

	high := NewGenerator(entropy.Constant(0.999999), 0).Generate(testAssets, catalog.Venue{})
	assert.Less(t, high["btc"], 65000*1.1)
	assert.Greater(t, high["btc"], 65000*1.09)
}

func TestGenerateOneDrawPerAssetInOrder(t *testing.T) {
	seq := entropy.NewSequence(0.0, 0.5, 0.75)
	prices := NewGenerator(seq, 0).Generate(testAssets, catalog.Venue{})

	assert.Equal(t, 3, seq.Draws())
	assert.InDelta(t, 65000*0.9, prices["btc"], 1e-6)
	assert.InDelta(t, 0.05, prices["hex"], 1e-12)
	assert.InDelta(t, 0.000001*1.5, prices["pepe"], 1e-15)
}

func TestGenerateAmplifiedVenue(t *testing.T) {
	piteas := catalog.Venue{Modifier: catalog.Modifier{
		Kind: catalog.ModifierAmplifyVolatility, Magnitude: 1.5, Threshold: 0.4, Cap: 0.99,
	}}
	prices := NewGenerator(entropy.Constant(0), 0).Generate(testAssets, piteas)

	assert.InDelta(t, 65000*0.9, prices["btc"], 1e-6, "low volatility untouched")
	assert.InDelta(t, 0.05*(1-0.6), prices["hex"], 1e-12, "0.4 amplified to 0.6")
	assert.InDelta(t, 0.000001*0.01, prices["pepe"], 1e-15, "1.0 capped at 0.99")
}

func TestGenerateAlwaysPositive(t *testing.T) {
	g := NewGenerator(entropy.NewRand(7), 0)
	for i := 0; i < 200; i++ {
		for id, p := range g.Generate(testAssets, catalog.Venue{}) {
			require.Greater(t, p, 0.0, id)
		}
	}
}

func TestPricesClone(t *testing.T) {
	p := Prices{"btc": 1}
	c := p.Clone()
	c["btc"] = 2
	assert.Equal(t, 1.0, p["btc"])
	assert.NotNil(t, Prices(nil).Clone())
}
