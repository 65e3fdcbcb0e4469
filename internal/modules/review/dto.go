package review

type CreateReviewRequest struct {
	BookingID int64  `json:"booking_id" validate:"required,gt=0"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty" validate:"max=2000"`
}

type ModerateRequest struct {
	Status string `json:"status" validate:"required"`
}
