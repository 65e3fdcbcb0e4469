package domain

import "time"

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type Review struct {
	ID         int64        `json:"id"`
	BookingID  int64        `json:"booking_id"`
	CustomerID int64        `json:"customer_id"`
	Username   string       `json:"username"`
	Service    string       `json:"service"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment,omitempty"`
	Status     ReviewStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type ReviewStats struct {
	TotalReviews  int64         `json:"total_reviews"`
	AverageRating float64       `json:"average_rating"`
	Distribution  map[int]int64 `json:"rating_distribution"`
}
