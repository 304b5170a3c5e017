package bills

import (
	"fmt"
	"sort"
)

// Order is the ordering policy of the bill list.
type Order string

const (
	// OrderStore keeps the order the Store returned.
	OrderStore          Order = "store"
	OrderDateAscending  Order = "asc"
	OrderDateDescending Order = "desc"
)

func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderStore:
		return OrderStore, nil
	case OrderDateAscending, OrderDateDescending:
		return Order(s), nil
	default:
		return "", fmt.Errorf("unknown bill order %q", s)
	}
}

// Sort orders bills in place. Sorting is stable and bills with an unparseable date go last.
func Sort(list []DisplayBill, order Order) {
	if order != OrderDateAscending && order != OrderDateDescending {
		return
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].parsedDate, list[j].parsedDate
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		if order == OrderDateAscending {
			return a.Before(b)
		}
		return a.After(b)
	})
}
