// Package bill holds the expense-note domain model and its display formatting.
package bill

// Status is the backend state of an expense note.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// statusLabels maps backend statuses to the labels shown in the listing.
var statusLabels = map[Status]string{
	StatusPending:  "En attente",
	StatusAccepted: "Accepté",
	StatusRefused:  "Refusé",
}

// Label returns the localized display label for the status. Unknown values
// pass through unchanged so an unexpected backend state still renders.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Bill is one expense note as exchanged with the store. FileURL and FileName
// are both nil until a receipt upload has succeeded, then both set.
type Bill struct {
	ID         string  `json:"id,omitempty"`
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Amount     int     `json:"amount"`
	VAT        string  `json:"vat"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	Status     Status  `json:"status"`
}
