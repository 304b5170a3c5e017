package bills

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/store"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

// AttrBillURL is the attribute of the preview icon that carries the receipt URL.
const AttrBillURL = "data-bill-url"

type Deps struct {
	Store     store.Store
	Modal     ui.Modal
	Navigator routes.Navigator
	Order     Order
	Logger    *slog.Logger
}

// Service is the bill list workflow.
type Service struct {
	store  store.Store
	order  Order
	logger *slog.Logger
	runner *workflow.Runner
}

func NewService(d Deps) *Service {
	order := d.Order
	if order == "" {
		order = OrderStore
	}
	return &Service{
		store:  d.Store,
		order:  order,
		logger: d.Logger,
		runner: &workflow.Runner{
			Modal:     d.Modal,
			Navigator: d.Navigator,
			Logger:    d.Logger,
		},
	}
}

// FetchAndFormat lists the bills and formats them for display.
// A Store failure is returned to the caller.
func (s *Service) FetchAndFormat(ctx context.Context) ([]DisplayBill, error) {
	if s.store == nil {
		return nil, internal.ErrStoreUnavailable
	}

	records, err := s.store.Bills().List(ctx)
	if err != nil {
		s.logger.Debug("failed to list bills", "error", err)
		if internal.IsRemote(err) {
			return nil, err
		}
		return nil, internal.NewRemoteError("failed to list bills", 0, err)
	}

	list := NormalizeAll(records, s.logger)
	Sort(list, s.order)
	return list, nil
}

// Preview computes the effects of clicking a receipt icon.
func Preview(src string, modalWidth int) []workflow.Effect {
	return []workflow.Effect{workflow.ShowPreview(src, modalWidth/2)}
}

// PreviewReceipt shows the receipt referenced by the trigger in the modal.
// A missing URL simply renders an empty image.
func (s *Service) PreviewReceipt(ctx context.Context, trigger ui.Element) {
	width := 0
	if s.runner.Modal != nil {
		width = s.runner.Modal.Width()
	}
	// only storage writes can fail and a preview has none
	_ = s.runner.Apply(ctx, Preview(trigger.Attribute(AttrBillURL), width))
}

// NewBill opens the new bill page.
func (s *Service) NewBill(ctx context.Context) {
	_ = s.runner.Apply(ctx, []workflow.Effect{workflow.Navigate(routes.NewBill)})
}
