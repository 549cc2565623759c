package domain

import "time"

type Rank int

const (
	RankStandard Rank = 1
	RankAdmin    Rank = 2
)

// StandardRentalCap is the maximum number of concurrent rentals a standard
// user may hold. Administrators are uncapped.
const StandardRentalCap = 3

func (r Rank) String() string {
	switch r {
	case RankStandard:
		return "user"
	case RankAdmin:
		return "administrator"
	default:
		return "unknown"
	}
}

func (r Rank) Valid() bool {
	return r == RankStandard || r == RankAdmin
}

// RentalCap returns the concurrent rental limit for the rank. Zero means
// unlimited.
func (r Rank) RentalCap() int {
	if r == RankAdmin {
		return 0
	}
	return StandardRentalCap
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Rank         Rank      `json:"rank"`
	Balance      float64   `json:"balance"`
	RentedMovies int       `json:"rented_movies"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRepository interface {
	FindByID(id int64) (*User, error)
	FindByUsername(username string) (*User, error)
	Create(user *User) error
	Update(user *User) error

	// Delete removes the user row and the user's returned rental history in
	// one transaction. It fails with a state error while active rentals remain.
	Delete(id int64) error
}
