package domain

import "time"

type SearchCriterion string

const (
	CriterionAuthor SearchCriterion = "author"
	CriterionTitle  SearchCriterion = "title"
	CriterionGenre  SearchCriterion = "genre"
	CriterionYear   SearchCriterion = "year"
)

func (c SearchCriterion) Valid() bool {
	switch c {
	case CriterionAuthor, CriterionTitle, CriterionGenre, CriterionYear:
		return true
	}
	return false
}

type Movie struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Equal compares movies by storage identity.
func (m *Movie) Equal(other *Movie) bool {
	return other != nil && m.ID != 0 && m.ID == other.ID
}

type MovieRepository interface {
	FindByID(id int64) (*Movie, error)

	// Search returns movies matching every supplied criterion. Textual
	// criteria match as case-insensitive substrings, year by equality. An
	// empty criteria map returns the whole catalog. Ordering is stable
	// across calls with identical criteria.
	Search(criteria map[SearchCriterion]string) ([]*Movie, error)

	Create(movie *Movie) error
	Update(movie *Movie) error

	// Delete fails with a state error while active rentals reference the
	// movie; otherwise it removes the movie and its dormant rental history.
	Delete(id int64) error
}
