package transformers

import "fmt"

// ValidateCreate checks a manual creation request.
func ValidateCreate(req *CreateRequest) error {
	if req.ObjectID <= 0 {
		return fmt.Errorf("object_id is required and must be positive")
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be provided together")
	}
	return nil
}
