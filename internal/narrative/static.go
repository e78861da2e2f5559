package narrative

import (
	"context"
	"strconv"
	"strings"

	"github.com/zappabad/dexwars/internal/entropy"
)

var staticHeadlines = []string{
	"SEC chairman spotted at a coffee shop; markets dump 5% in fear.",
	"New bridge update goes live at {venue}; staking volume hits record high!",
	"Hexicans gather outside {venue} chanting about price per T-share.",
	"Ethereum maxi declares everything else a shitcoin; nobody is surprised.",
	"Anon dev renounces contract, then un-renounces it. Day {day} vibes.",
	"Influencer shills a coin with no liquidity; followers discover slippage.",
	"Memecoin season declared for the fourth time this week.",
	"Gas fees spike as everyone tries to exit at once at {venue}.",
	"Chart wizard draws a triangle; market ignores it.",
}

var staticWhales = []string{
	"Whale Alert: a dormant wallet just moved 40M tokens to {venue}.",
	"Whale Alert: Pepe whale accidentally burns $2M; deflationary pressure intensifies.",
	"Whale Alert: an ancient ICO wallet wakes up on day {day} and starts selling.",
	"Whale Alert: 9 figures bridged in one block. Nobody knows who.",
}

// Static writes canned headlines without touching the network. It is the
// offline generator used when no LLM is configured.
type Static struct {
	src entropy.Source
}

// NewStatic creates a Static generator drawing from src.
func NewStatic(src entropy.Source) *Static {
	return &Static{src: src}
}

// Generate implements Generator. It returns three bullets, the last a whale alert.
func (s *Static) Generate(ctx context.Context, day int, venue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	first := s.pick(len(staticHeadlines))
	second := s.pick(len(staticHeadlines) - 1)
	if second >= first {
		second++
	}
	whale := s.pick(len(staticWhales))

	fill := strings.NewReplacer("{venue}", venue, "{day}", strconv.Itoa(day))
	lines := []string{
		staticHeadlines[first],
		staticHeadlines[second],
		staticWhales[whale],
	}
	for i, l := range lines {
		lines[i] = "- " + fill.Replace(l)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Static) pick(n int) int {
	i := int(s.src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
