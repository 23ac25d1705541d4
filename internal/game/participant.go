package game

import "time"

// Participant is one seat in a room. Owned by exactly one room; all access
// goes through the room's engine.
type Participant struct {
	ID   string
	Name string

	Host  bool
	Ready bool

	Deck        []Card
	Hand        []Card
	DiscardPile []Card

	Pos      Position
	Progress int
	Gear     int

	// TimeBank is the remaining think-time budget. It may go negative.
	TimeBank time.Duration
}

func (p *Participant) cardInHand(id string) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// removeFromHand takes a card out of the hand without moving it anywhere.
func (p *Participant) removeFromHand(id string) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// draw moves one card from the deck to the hand, reshuffling the discard
// pile into the deck when the deck runs dry. Returns false when both piles
// are empty.
func (p *Participant) draw(shuffle Shuffler) bool {
	if len(p.Deck) == 0 {
		if len(p.DiscardPile) == 0 {
			return false
		}
		p.Deck = p.DiscardPile
		p.DiscardPile = nil
		shuffle(len(p.Deck), func(i, j int) {
			p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
		})
	}
	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, card)
	return true
}

func (p *Participant) junkCount() int {
	n := 0
	for _, c := range p.Hand {
		if c.Type == CardJunk {
			n++
		}
	}
	return n
}
