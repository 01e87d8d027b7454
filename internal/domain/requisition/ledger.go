package requisition

import (
	"strconv"
	"strings"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// The ledger functions below are pure: each returns a fresh slice and never
// writes through the caller's. The owning draft commits the result wholesale.

// LineStamp carries the document context copied onto newly added lines
type LineStamp struct {
	ClientID       string
	DocumentID     string
	DocumentNumber string
	CostCenter     string
	UserName       string
	Now            time.Time
}

// NextLineNumber returns max(lineNumber)+1, or 1 for an empty ledger.
// Numbers are never reused, including those of removed lines still present.
func NextLineNumber(items []LineItem) int {
	maxLine := 0
	for _, it := range items {
		if it.LineNumber > maxLine {
			maxLine = it.LineNumber
		}
	}
	return maxLine + 1
}

// AddItems appends one Create-tagged line per candidate, numbered
// consecutively in input order
func AddItems(items []LineItem, candidates []catalog.ResolvedCatalogEntry, stamp LineStamp) []LineItem {
	out := make([]LineItem, len(items), len(items)+len(candidates))
	copy(out, items)

	costCenter := stamp.CostCenter
	if costCenter == "" {
		costCenter = DefaultCostCenter
	}

	next := NextLineNumber(items)
	for i, c := range candidates {
		line := LineItem{
			LineNumber:     next + i,
			DocumentID:     stamp.DocumentID,
			DocumentNumber: stamp.DocumentNumber,
			DocumentType:   MaterialRequestType,
			ItemCode:       c.Code,
			Description:    c.Description,
			ItemType:       DefaultItemType,
			LineType:       DefaultLineType,
			UnitOfMeasure:  c.UnitOfMeasure,
			Quantity:       1,
			UnitPrice:      clampPrice(c.Price),
			TaxAmount:      decimal.Zero,
			ChangeTag:      ChangeTagCreate,
			CostCenter:     costCenter,
			ClientID:       stamp.ClientID,
			Audit: AuditStamp{
				CreatedAt: stamp.Now,
				CreatedBy: stamp.UserName,
				UpdatedAt: stamp.Now,
				UpdatedBy: stamp.UserName,
			},
		}
		line.recalculate()
		out = append(out, line)
	}
	return out
}

// RemoveItem drops a never-persisted Create line outright and soft-deletes
// anything else
func RemoveItem(items []LineItem, index int) ([]LineItem, error) {
	if err := checkIndex(items, index); err != nil {
		return items, err
	}

	target := items[index]
	if target.ChangeTag == ChangeTagCreate && !target.IsPersisted() {
		out := make([]LineItem, 0, len(items)-1)
		out = append(out, items[:index]...)
		return append(out, items[index+1:]...), nil
	}

	return updateAt(items, index, func(l *LineItem) {
		l.ChangeTag = Transition(l.ChangeTag, ActionRemove)
	}), nil
}

// RestoreItem re-activates a soft-deleted line. Lines that are not deleted
// are left as they are.
func RestoreItem(items []LineItem, index int) ([]LineItem, error) {
	if err := checkIndex(items, index); err != nil {
		return items, err
	}
	return updateAt(items, index, func(l *LineItem) {
		l.ChangeTag = Transition(l.ChangeTag, ActionRestore)
	}), nil
}

// SetQuantity sets a line's quantity, clamping anything below 1 to 1
func SetQuantity(items []LineItem, index, quantity int) ([]LineItem, error) {
	if err := checkIndex(items, index); err != nil {
		return items, err
	}
	if quantity < 1 {
		quantity = 1
	}
	return updateAt(items, index, func(l *LineItem) {
		l.Quantity = quantity
		l.recalculate()
		l.ChangeTag = Transition(l.ChangeTag, ActionMutate)
	}), nil
}

// SetUnitPrice sets a line's unit price, clamping negatives to 0
func SetUnitPrice(items []LineItem, index int, price decimal.Decimal) ([]LineItem, error) {
	if err := checkIndex(items, index); err != nil {
		return items, err
	}
	price = clampPrice(price)
	return updateAt(items, index, func(l *LineItem) {
		l.UnitPrice = price
		l.recalculate()
		l.ChangeTag = Transition(l.ChangeTag, ActionMutate)
	}), nil
}

// ActiveItems returns lines that are not soft-deleted
func ActiveItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if !it.IsDeleted() {
			out = append(out, it)
		}
	}
	return out
}

// DeletedItems returns soft-deleted lines, for the restore dialog
func DeletedItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0)
	for _, it := range items {
		if it.IsDeleted() {
			out = append(out, it)
		}
	}
	return out
}

// SumTotals adds up TotalAmount over active lines
func SumTotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range ActiveItems(items) {
		total = total.Add(it.TotalAmount)
	}
	return total
}

// ParseQuantity reads a user-entered quantity. Fractions truncate; anything
// unparsable or below 1 becomes 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	q, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 1
		}
		q = int(f)
	}
	if q < 1 {
		return 1
	}
	return q
}

// ParseUnitPrice reads a user-entered price. Anything unparsable or negative
// becomes 0.
func ParseUnitPrice(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return clampPrice(d)
}

func clampPrice(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

func checkIndex(items []LineItem, index int) error {
	if index < 0 || index >= len(items) {
		return ErrLineIndexOutOfRange
	}
	return nil
}

func updateAt(items []LineItem, index int, fn func(*LineItem)) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	fn(&out[index])
	return out
}
