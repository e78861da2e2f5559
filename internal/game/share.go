package game

import (
	"net/url"

	"github.com/zappabad/dexwars/internal/economy"
)

const intentURL = "https://twitter.com/intent/tweet"

// ShareText is the post offered on the game over screen.
func ShareText(netWorth float64) string {
	return "I just dominated the trenches in DEX Wars! My net worth: " +
		economy.FormatMoney(netWorth) + ". 🚀📈 #DEXWars #PulseChain"
}

// ShareURL builds an X intent link carrying ShareText. pageURL is attached
// when non-empty.
func ShareURL(netWorth float64, pageURL string) string {
	q := url.Values{}
	q.Set("text", ShareText(netWorth))
	if pageURL != "" {
		q.Set("url", pageURL)
	}
	return intentURL + "?" + q.Encode()
}
