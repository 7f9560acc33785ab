package dtos

// SubmitDepartureRequest is the registration form body.
type SubmitDepartureRequest struct {
	UnitNumber  string `json:"unitNumber"`
	Destination string `json:"destination"`
	Time        string `json:"time"`
	Gate        string `json:"gate"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Comment     string `json:"comment"`
}
