package autopilot

import "github.com/zappabad/dexwars/internal/catalog"

// ActionKind is the engine operation an Action maps to.
type ActionKind int

const (
	ActionBuy ActionKind = iota
	ActionSell
	ActionRepay
	ActionTravel
)

func (k ActionKind) String() string {
	switch k {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	case ActionRepay:
		return "repay"
	case ActionTravel:
		return "travel"
	default:
		return "unknown"
	}
}

// Action represents a strategy's intention to perform one operation.
type Action struct {
	Kind  ActionKind
	Asset catalog.AssetID // buy and sell only
	Venue catalog.VenueID // travel only
}

// Buy returns a buy action.
func Buy(id catalog.AssetID) Action { return Action{Kind: ActionBuy, Asset: id} }

// Sell returns a sell action.
func Sell(id catalog.AssetID) Action { return Action{Kind: ActionSell, Asset: id} }

// Repay returns a repay action.
func Repay() Action { return Action{Kind: ActionRepay} }

// Travel returns a travel action.
func Travel(to catalog.VenueID) Action { return Action{Kind: ActionTravel, Venue: to} }

// EventType indicates the type of autopilot event.
type EventType int

const (
	EventActed EventType = iota
	EventRejected
	EventFinished
)

// Event represents something the autopilot did.
type Event struct {
	RunID   string
	Time    int64
	Day     int
	Type    EventType
	Action  *Action // optional, for Acted and Rejected
	Message string  // history line, rejection reason or summary
}
