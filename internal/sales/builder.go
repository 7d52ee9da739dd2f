package sales

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"pos_sales/internal/catalog"
)

var (
	// ErrNoProducts is returned by Calculate when no product quantity is set.
	ErrNoProducts = errors.New("at least one product must be selected")
	// ErrNoCandidate is returned when committing before a successful Calculate.
	ErrNoCandidate = errors.New("sale total has not been calculated")
	// ErrSessionClosed is returned by any operation on a confirmed or abandoned builder.
	ErrSessionClosed = errors.New("sale session is closed")
	// ErrUnknownProduct is returned when a quantity targets a product outside the snapshot.
	ErrUnknownProduct = errors.New("product is not part of this sale")
	// ErrInvalidQuantity is returned for negative quantities.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// State is the lifecycle stage of a Builder.
type State int

const (
	StateInput State = iota
	StatePendingConfirm
	StateConfirmed
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateInput:
		return "input"
	case StatePendingConfirm:
		return "pending_confirm"
	case StateConfirmed:
		return "confirmed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateInput, StatePendingConfirm, StateConfirmed, StateAbandoned} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown sale session state %q", text)
}

// Builder accumulates one in-progress sale over a fixed catalog snapshot.
// It is safe for concurrent use.
type Builder struct {
	mu         sync.Mutex
	snapshot   []catalog.Product
	quantities []int
	drinks     string
	extras     string
	state      State
	candidate  *Candidate
}

// NewBuilder starts a session over products, sorted by ascending price.
// Products with equal prices keep their catalog order.
func NewBuilder(products []catalog.Product) *Builder {
	snapshot := append([]catalog.Product{}, products...)
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Price.LessThan(snapshot[j].Price)
	})

	return &Builder{
		snapshot:   snapshot,
		quantities: make([]int, len(snapshot)),
	}
}

// Line is a snapshot product with the quantity currently entered for it.
type Line struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// View is a point-in-time copy of the builder for display.
type View struct {
	State     State      `json:"state"`
	Lines     []Line     `json:"lines"`
	Drinks    string     `json:"drinks"`
	Extras    string     `json:"extras"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

func (b *Builder) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := make([]Line, len(b.snapshot))
	for i, p := range b.snapshot {
		lines[i] = Line{Name: p.Name, Price: p.Price, Quantity: b.quantities[i]}
	}
	view := View{
		State:  b.state,
		Lines:  lines,
		Drinks: b.drinks,
		Extras: b.extras,
	}
	if b.candidate != nil {
		view.Candidate = b.candidate.clone()
	}
	return view
}

func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetQuantity sets the quantity for the first snapshot product named name.
// Any calculated candidate is discarded.
func (b *Builder) SetQuantity(name string, quantity int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOpen(); err != nil {
		return err
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	for i, p := range b.snapshot {
		if p.Name == name {
			b.quantities[i] = quantity
			b.invalidate()
			return nil
		}
	}
	return ErrUnknownProduct
}

// SetAmounts stores the raw drinks and extras text. Any calculated candidate is discarded.
func (b *Builder) SetAmounts(drinks, extras string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOpen(); err != nil {
		return err
	}
	b.drinks = drinks
	b.extras = extras
	b.invalidate()
	return nil
}

// Calculate computes the candidate from the current input. It replaces any
// previous candidate. With no product quantity set it fails with
// ErrNoProducts and the builder stays in StateInput.
func (b *Builder) Calculate() (*Candidate, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	b.invalidate()

	lines := make([]LineItem, 0, len(b.snapshot)+1)
	subtotal := decimal.Zero
	for i, p := range b.snapshot {
		if b.quantities[i] <= 0 {
			continue
		}
		line := LineItem{Name: p.Name, UnitPrice: p.Price, Quantity: b.quantities[i]}
		subtotal = subtotal.Add(line.Subtotal())
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, ErrNoProducts
	}

	drinks := ParseAmountOrZero(b.drinks)
	extras := ParseAmountOrZero(b.extras)
	if extras.IsPositive() {
		lines = append(lines, LineItem{Name: ExtrasLineName, UnitPrice: extras, Quantity: 1, Synthetic: true})
	}

	b.candidate = &Candidate{
		LineItems:        lines,
		ProductsSubtotal: subtotal,
		DrinksAmount:     drinks,
		ExtrasAmount:     extras,
		Total:            subtotal.Add(drinks).Add(extras),
	}
	b.state = StatePendingConfirm

	return b.candidate.clone(), nil
}

// Abandon discards the session without side effects.
func (b *Builder) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateConfirmed {
		return
	}
	b.clear()
	b.state = StateAbandoned
}

// confirm hands the pending candidate to persist and closes the session when
// persist succeeds. On failure the candidate stays pending.
func (b *Builder) confirm(persist func(Candidate) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOpen(); err != nil {
		return err
	}
	if b.state != StatePendingConfirm || b.candidate == nil {
		return ErrNoCandidate
	}

	if err := persist(*b.candidate.clone()); err != nil {
		return err
	}
	b.clear()
	b.state = StateConfirmed
	return nil
}

func (b *Builder) checkOpen() error {
	if b.state == StateConfirmed || b.state == StateAbandoned {
		return ErrSessionClosed
	}
	return nil
}

func (b *Builder) invalidate() {
	b.candidate = nil
	b.state = StateInput
}

func (b *Builder) clear() {
	b.candidate = nil
	b.quantities = make([]int, len(b.snapshot))
	b.drinks = ""
	b.extras = ""
}
