package game

type CardType string

const (
	CardMove   CardType = "move"
	CardLane   CardType = "lane"
	CardJunk   CardType = "junk"
	CardRepair CardType = "repair"
)

// Card is immutable once created. Junk cards are minted on collisions and
// boundary violations; they cannot be played or discarded, only repaired away.
type Card struct {
	ID   string   `json:"id"`
	Type CardType `json:"type"`
}

func (c Card) Playable() bool {
	return c.Type != CardJunk
}

// Shuffler shuffles n elements in place through swap. It matches the
// rand.Shuffle signature so callers can plug in a seeded source.
type Shuffler func(n int, swap func(i, j int))

// Per-participant deck composition.
const (
	deckMoveCards   = 12
	deckLaneCards   = 6
	deckRepairCards = 2
)

func newRacingDeck(shuffle Shuffler) []Card {
	cards := make([]Card, 0, deckMoveCards+deckLaneCards+deckRepairCards)
	for i := 0; i < deckMoveCards; i++ {
		cards = append(cards, Card{ID: NewID(), Type: CardMove})
	}
	for i := 0; i < deckLaneCards; i++ {
		cards = append(cards, Card{ID: NewID(), Type: CardLane})
	}
	for i := 0; i < deckRepairCards; i++ {
		cards = append(cards, Card{ID: NewID(), Type: CardRepair})
	}
	shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}
