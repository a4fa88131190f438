package spirit

import "errors"

// Personality identifies the fixed set of spirit temperaments.
type Personality string

const (
	Wise    Personality = "wise"
	Cryptic Personality = "cryptic"
	Dark    Personality = "dark"
	Playful Personality = "playful"
)

var ErrNotFound = errors.New("spirit not found")

// Spirit is an immutable persona definition. Instances are created at seed time
// and never mutated during conversations.
type Spirit struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Personality Personality `json:"personality"`
	Backstory   string      `json:"backstory"`

	// SystemPrompt is the persona-specific instruction block. Name and backstory
	// are interpolated by the conversation layer, not stored here.
	SystemPrompt string `json:"-"`
}

// Catalog is a read-only set of spirits loaded at startup. Safe for concurrent
// reads without synchronization.
type Catalog struct {
	spirits []Spirit
	byID    map[string]int
}

func NewCatalog(spirits []Spirit) *Catalog {
	c := &Catalog{
		spirits: spirits,
		byID:    make(map[string]int, len(spirits)),
	}
	for i, s := range spirits {
		c.byID[s.ID] = i
	}
	return c
}

// DefaultCatalog returns the four seeded spirits.
func DefaultCatalog() *Catalog {
	return NewCatalog(seedSpirits())
}

func (c *Catalog) All() []Spirit {
	out := make([]Spirit, len(c.spirits))
	copy(out, c.spirits)
	return out
}

func (c *Catalog) ByID(id string) (Spirit, error) {
	i, ok := c.byID[id]
	if !ok {
		return Spirit{}, ErrNotFound
	}
	return c.spirits[i], nil
}

// ByPersonality returns the first spirit with the given temperament.
func (c *Catalog) ByPersonality(p Personality) (Spirit, error) {
	for _, s := range c.spirits {
		if s.Personality == p {
			return s, nil
		}
	}
	return Spirit{}, ErrNotFound
}

// ValidPersonality reports whether p is one of the enumerated temperaments.
func ValidPersonality(p Personality) bool {
	switch p {
	case Wise, Cryptic, Dark, Playful:
		return true
	default:
		return false
	}
}
