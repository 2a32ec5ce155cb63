package newbill

// Form adapts literal field values to the form-reading capability, for
// callers that are not backed by a rendered document.
type Form struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	VAT        string
	Pct        string
	Commentary string
}

// Value implements ui.FormReader.
func (f Form) Value(selector string) string {
	switch selector {
	case selectorType:
		return f.Type
	case selectorName:
		return f.Name
	case selectorAmount:
		return f.Amount
	case selectorDate:
		return f.Date
	case selectorVAT:
		return f.VAT
	case selectorPct:
		return f.Pct
	case selectorCommentary:
		return f.Commentary
	default:
		return ""
	}
}
