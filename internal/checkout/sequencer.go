package checkout

import "errors"

// State is a checkout screen.
type State string

const (
	StateCart                   State = "cart"
	StatePaymentMethodSelection State = "payment-method-selection"
	StateSecurityInfo           State = "security-info"
	StatePaymentConfirmation    State = "payment-confirmation"
	StateHome                   State = "home"
)

// Event names, used for metrics and logs.
const (
	EventProceed      = "proceed"
	EventBack         = "back"
	EventViewSecurity = "view-security"
	EventSelectMethod = "select-method"
	EventConfirm      = "confirm"
	EventGoHome       = "go-home"
)

var (
	ErrInvalidTransition = errors.New("transition not allowed from current state")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoPaymentMethod   = errors.New("payment method not selected")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// Sequencer is the checkout state machine:
//
//	cart -> payment-method-selection -> (security-info) -> payment-confirmation -> home
//
// While a confirmation is processing every other event is refused.
type Sequencer struct {
	state      State
	selection  *PaymentSelection
	processing bool
}

func NewSequencer() *Sequencer {
	return &Sequencer{state: StateCart}
}

func (s *Sequencer) State() State {
	return s.state
}

func (s *Sequencer) Processing() bool {
	return s.processing
}

// Selection returns the chosen payment method, if any.
func (s *Sequencer) Selection() (PaymentSelection, bool) {
	if s.selection == nil {
		return PaymentSelection{}, false
	}
	return *s.selection, true
}

// Proceed moves from the cart to payment method selection. An empty cart is
// a dead end.
func (s *Sequencer) Proceed(cartEmpty bool) error {
	if err := s.expect(StateCart); err != nil {
		return err
	}
	if cartEmpty {
		return ErrEmptyCart
	}
	s.state = StatePaymentMethodSelection
	return nil
}

// Back leaves payment selection for the cart, or the security detour for
// payment selection. Neither mutates anything else.
func (s *Sequencer) Back() error {
	if s.processing {
		return ErrPaymentInProgress
	}
	switch s.state {
	case StatePaymentMethodSelection:
		s.state = StateCart
	case StateSecurityInfo:
		s.state = StatePaymentMethodSelection
	default:
		return ErrInvalidTransition
	}
	return nil
}

func (s *Sequencer) ViewSecurity() error {
	if err := s.expect(StatePaymentMethodSelection); err != nil {
		return err
	}
	s.state = StateSecurityInfo
	return nil
}

// SelectMethod records the payment selection without changing state.
func (s *Sequencer) SelectMethod(sel PaymentSelection) error {
	if err := s.expect(StatePaymentMethodSelection); err != nil {
		return err
	}
	if !sel.Method.Valid() {
		return ErrInvalidMethod
	}
	s.selection = &sel
	return nil
}

// BeginConfirm marks the confirmation as in flight and returns the selection
// to charge. Exactly one of AbortConfirm or CompleteConfirm must follow.
func (s *Sequencer) BeginConfirm() (PaymentSelection, error) {
	if err := s.expect(StatePaymentMethodSelection); err != nil {
		return PaymentSelection{}, err
	}
	if s.selection == nil {
		return PaymentSelection{}, ErrNoPaymentMethod
	}
	s.processing = true
	return *s.selection, nil
}

// AbortConfirm returns to payment selection after a failed charge.
func (s *Sequencer) AbortConfirm() {
	s.processing = false
}

func (s *Sequencer) CompleteConfirm() error {
	if !s.processing {
		return ErrInvalidTransition
	}
	s.processing = false
	s.state = StatePaymentConfirmation
	return nil
}

// GoHome leaves the confirmation screen. The caller clears the cart.
func (s *Sequencer) GoHome() error {
	if err := s.expect(StatePaymentConfirmation); err != nil {
		return err
	}
	s.state = StateHome
	s.selection = nil
	return nil
}

func (s *Sequencer) expect(state State) error {
	if s.processing {
		return ErrPaymentInProgress
	}
	if s.state != state {
		return ErrInvalidTransition
	}
	return nil
}
