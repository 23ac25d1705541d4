package game

import "testing"

func TestNewRacingDeckComposition(t *testing.T) {
	deck := newRacingDeck(noShuffle)
	if len(deck) != 20 {
		t.Fatalf("deck size = %d, want 20", len(deck))
	}
	counts := map[CardType]int{}
	for _, c := range deck {
		counts[c.Type]++
		if c.ID == "" {
			t.Fatal("card minted without an id")
		}
	}
	if counts[CardMove] != 12 || counts[CardLane] != 6 || counts[CardRepair] != 2 {
		t.Fatalf("deck composition = %v", counts)
	}
	if counts[CardJunk] != 0 {
		t.Fatal("fresh deck must not contain junk")
	}
}

func TestDrawReshufflesDiscardPile(t *testing.T) {
	p := &Participant{ID: "p"}
	p.Deck = []Card{{ID: "a", Type: CardMove}}
	p.DiscardPile = []Card{{ID: "b", Type: CardMove}, {ID: "c", Type: CardLane}}

	if !p.draw(noShuffle) {
		t.Fatal("draw from non-empty deck failed")
	}
	if !p.draw(noShuffle) {
		t.Fatal("draw should reshuffle the discard pile into the deck")
	}
	if len(p.Hand) != 2 {
		t.Fatalf("hand size = %d, want 2", len(p.Hand))
	}
	if len(p.DiscardPile) != 0 {
		t.Fatalf("discard pile size = %d, want 0 after reshuffle", len(p.DiscardPile))
	}

	if !p.draw(noShuffle) {
		t.Fatal("one card should remain after reshuffle")
	}
	if p.draw(noShuffle) {
		t.Fatal("draw from exhausted piles must report false")
	}
}

func TestJunkNotPlayable(t *testing.T) {
	if (Card{Type: CardJunk}).Playable() {
		t.Fatal("junk must not be playable")
	}
	for _, typ := range []CardType{CardMove, CardLane, CardRepair} {
		if !(Card{Type: typ}).Playable() {
			t.Fatalf("%s must be playable", typ)
		}
	}
}
