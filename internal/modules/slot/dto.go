package slot

type CreateSlotRequest struct {
	Date    string `json:"date" validate:"required"`
	Time    string `json:"time" validate:"required"`
	Service string `json:"service,omitempty"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// Query narrows slot listings. Both fields are optional.
type Query struct {
	Date    string `form:"date"`
	Service string `form:"service"`
}
