// Package ui defines the narrow capabilities the controllers need from the
// presentation layer: navigation, the receipt preview modal, and read access
// to form fields. The rendering itself lives outside this module.
package ui

// Route names a view of the application.
type Route string

const (
	RouteBills   Route = "#employee/bills"
	RouteNewBill Route = "#employee/bill/new"
)

// Navigator switches the application to a named route.
type Navigator func(route Route)

// Modal is the receipt preview dialog.
type Modal interface {
	// Show opens the dialog with the given image URL as its body. An empty
	// URL shows an empty preview.
	Show(imageURL string)
}

// Element is a rendered node the controllers only read attributes from.
type Element interface {
	Attr(name string) string
}

// FormReader resolves a field selector to its current value.
type FormReader interface {
	Value(selector string) string
}

// ViewState is the exclusive state of the listing page. Loading, error and
// populated are distinct renderings; exactly one applies at a time.
type ViewState int

const (
	StateLoading ViewState = iota
	StateError
	StatePopulated
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}
