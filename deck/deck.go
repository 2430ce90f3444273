package deck

import "math/rand"

// Deck is a draw-without-replacement pile with a separate discard pile.
// Drawing from an empty pile reshuffles the discard pile into a fresh draw
// pile first; cards held by callers (hands, the active prompt) are never
// recycled until they are explicitly discarded back.
type Deck[C any] struct {
	draw    []C
	discard []C
	rng     *rand.Rand
}

// New creates an empty deck using rng for all shuffles.
func New[C any](rng *rand.Rand) *Deck[C] {
	return &Deck[C]{rng: rng}
}

// Initialize replaces both piles with a shuffled copy of cards.
func (d *Deck[C]) Initialize(cards []C) {
	d.draw = make([]C, len(cards))
	copy(d.draw, cards)
	d.shuffle(d.draw)
	d.discard = d.discard[:0]
}

// Draw removes and returns the top card, reshuffling the discard pile into
// the draw pile if needed. ok is false when both piles are empty; callers
// must treat that as a terminal condition for the operation in progress.
func (d *Deck[C]) Draw() (card C, ok bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return card, false
		}
		d.draw = d.discard
		d.discard = nil
		d.shuffle(d.draw)
	}
	card = d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return card, true
}

// Discard returns a card to the discard pile. It is the caller's
// responsibility to discard any card that leaves a hand or the active
// prompt slot without being re-drawable elsewhere.
func (d *Deck[C]) Discard(card C) {
	d.discard = append(d.discard, card)
}

// Remaining reports the number of cards left in the draw pile.
func (d *Deck[C]) Remaining() int { return len(d.draw) }

// DiscardedCount reports the number of cards in the discard pile.
func (d *Deck[C]) DiscardedCount() int { return len(d.discard) }

func (d *Deck[C]) shuffle(cards []C) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
