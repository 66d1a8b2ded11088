package domain

import "time"

// Edition is a limited print run of an artwork.
type Edition struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Size        string `json:"size" bson:"size"`
	Price       int64  `json:"price" bson:"price"`
	EditionSize int    `json:"edition_size" bson:"edition_size"`
	Sold        int    `json:"sold" bson:"sold"`
}

// Remaining returns how many prints of the edition are still for sale.
func (e Edition) Remaining() int {
	if n := e.EditionSize - e.Sold; n > 0 {
		return n
	}
	return 0
}

// Artwork is a catalogue entry: an original plus zero or more print editions.
// Prices are in minor units of Currency.
type Artwork struct {
	ID                string    `json:"id" bson:"_id"`
	Slug              string    `json:"slug" bson:"slug"`
	Title             string    `json:"title" bson:"title"`
	Artist            string    `json:"artist" bson:"artist"`
	Description       string    `json:"description" bson:"description"`
	Medium            string    `json:"medium" bson:"medium"`
	Year              int       `json:"year,omitempty" bson:"year,omitempty"`
	Dimensions        string    `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Price             int64     `json:"price" bson:"price"`
	Currency          string    `json:"currency" bson:"currency"`
	OriginalAvailable bool      `json:"original_available" bson:"original_available"`
	Published         bool      `json:"published" bson:"published"`
	Editions          []Edition `json:"editions" bson:"editions"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// Edition looks up one of the artwork's editions by id.
func (a *Artwork) Edition(id string) (Edition, bool) {
	for _, e := range a.Editions {
		if e.ID == id {
			return e, true
		}
	}
	return Edition{}, false
}

// Favorite links a customer to an artwork they saved.
type Favorite struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	ArtworkID string    `json:"artwork_id" bson:"artwork_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
