// Package listing implements the bills listing page controller: it fetches
// the employee's expense notes from the store, formats them for display and
// reacts to listing-page actions.
package listing

import (
	"context"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
	"go.uber.org/zap"
)

// Controller owns the listing page behavior. All collaborators are injected;
// a nil store means "not configured" and yields an empty listing.
type Controller struct {
	store      store.Store
	onNavigate ui.Navigator
	modal      ui.Modal
	logger     *zap.Logger
}

// NewController creates a listing controller.
func NewController(s store.Store, onNavigate ui.Navigator, modal ui.Modal, logger *zap.Logger) *Controller {
	return &Controller{
		store:      s,
		onNavigate: onNavigate,
		modal:      modal,
		logger:     logger,
	}
}

// GetBills retrieves the bills and prepares them for display: dates become
// DD/MM/YYYY, statuses become their localized labels, and the result is
// ordered newest first.
//
// A missing store is not a fault, it resolves to an empty listing. A store
// failure is returned as-is so the caller can render the error state instead
// of an empty table. A single record whose date cannot be formatted keeps
// its raw date rather than sinking the whole page.
func (c *Controller) GetBills(ctx context.Context) ([]bill.Bill, error) {
	if c.store == nil {
		return []bill.Bill{}, nil
	}

	raw, err := c.store.Bills().List(ctx)
	if err != nil {
		return nil, err
	}

	formatted := make([]bill.Bill, 0, len(raw))
	for _, b := range raw {
		displayDate, err := bill.FormatDate(b.Date)
		if err != nil {
			c.logger.Warn("Keeping raw date for unformattable bill",
				zap.String("bill_id", b.ID),
				zap.String("date", b.Date),
				zap.Error(err))
		} else {
			b.Date = displayDate
		}
		b.Status = bill.Status(b.Status.Label())
		formatted = append(formatted, b)
	}

	bill.SortNewestFirst(formatted)
	return formatted, nil
}

// HandleClickNewBill navigates to the new-bill form. It needs no other
// state and never fails.
func (c *Controller) HandleClickNewBill() {
	c.onNavigate(ui.RouteNewBill)
}

// HandleClickIconEye opens the receipt preview modal with the URL carried by
// the clicked icon. A missing URL simply shows an empty preview.
func (c *Controller) HandleClickIconEye(icon ui.Element) {
	billURL := icon.Attr("data-bill-url")
	c.modal.Show(billURL)
}
