package domain

import "time"

// RentalFee is the flat fee charged when a rental row is created. Charging
// happens inside the same storage transaction as the row insert.
const RentalFee = 4.50

// DateLayout is the wire form of rental dates.
const DateLayout = "2006-01-02"

// ActiveRentalLabel is returned in place of a return date while a rental is
// still open.
const ActiveRentalLabel = "active"

type DateMode int

const (
	DateModeStart DateMode = iota
	DateModeReturn
)

type Rental struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	MovieID    int64      `json:"movie_id"`
	StartDate  time.Time  `json:"start_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

func (r *Rental) Active() bool {
	return r.ReturnDate == nil
}

type RentalRepository interface {
	// Rent creates the rental row and deducts the fee from the borrower's
	// balance as one transaction. It fails with a state error when the movie
	// already has an active rental or the balance does not cover the fee.
	Rent(userID, movieID int64, fee float64, startDate time.Time) (*Rental, error)

	// EndRental stamps the return date on the user's active rental of the
	// movie. It fails with a state error when no active rental exists.
	EndRental(userID, movieID int64, returnDate time.Time) error

	// FindLatest returns the most recent rental of the movie by the user,
	// active or not, or nil when the user never rented it.
	FindLatest(userID, movieID int64) (*Rental, error)

	// ActiveMovies lists the movies the user currently has rented.
	ActiveMovies(userID int64) ([]*Movie, error)

	CountActive(userID int64) (int, error)
}
