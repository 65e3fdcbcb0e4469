package booking

type CreateBookingRequest struct {
	TimeSlotID int64  `json:"time_slot_id" validate:"required,gt=0"`
	Service    string `json:"service,omitempty" validate:"max=100"`
	Notes      string `json:"notes,omitempty" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
