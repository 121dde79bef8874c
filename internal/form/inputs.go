package form

// VenueInput creates or updates a venue.
type VenueInput struct {
	Name    string `json:"name" mod:"trim" validate:"required,max=64"`
	City    string `json:"city" mod:"trim" validate:"required,max=32"`
	Address string `json:"address,omitempty" mod:"trim" validate:"max=128"`
	Contact string `json:"contact,omitempty" mod:"trim" validate:"max=32"`
}

// DeviceGroupInput creates a device group under a venue.
type DeviceGroupInput struct {
	Name        string `json:"name" mod:"trim" validate:"required,max=32"`
	VenueID     int64  `json:"venue_id" validate:"required,gt=0"`
	Description string `json:"description,omitempty" mod:"trim" validate:"max=128"`
}

// ReassignInput moves devices into another group.
type ReassignInput struct {
	DeviceIDs []int64 `json:"device_ids" validate:"required,min=1,max=200,dive,gt=0"`
	GroupID   int64   `json:"group_id" validate:"required,gt=0"`
}
