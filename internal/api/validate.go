package api

import (
	"fmt"

	"go.uber.org/multierr"
)

// validateRequest applies every field rule and reports all violations at once.
func (h *Handler) validateRequest(req *bestCombinationRequest) error {
	v := h.validator

	var errs error
	errs = multierr.Append(errs, v.BoxWeight("max_weight", req.MaxWeight))
	errs = multierr.Append(errs, v.ItemsList("items", req.Items != nil, len(req.Items)))

	ids := make([]int, 0, len(req.Items))
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		errs = multierr.Append(errs, v.ItemID(prefix+"Item ID", item.ID))
		errs = multierr.Append(errs, v.ItemWeight(prefix+"Weight", item.Weight))
		errs = multierr.Append(errs, v.ItemPrice(prefix+"Price", item.Price))
		if item.ID != nil {
			ids = append(ids, *item.ID)
		}
	}
	errs = multierr.Append(errs, v.UniqueIDs("items", ids))

	return errs
}
