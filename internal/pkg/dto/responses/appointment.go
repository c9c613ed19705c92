package responses

type Appointment struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Doctor    string `json:"doctor"`
	Status    string `json:"status"`
	Comment   string `json:"comment"`
}
