package model

// StaffRole is the job role carried in a staff record and in session
// tokens.  Roles gate which terminal surfaces an operator may use.
type StaffRole string

const (
	RoleWaiter  StaffRole = "WAITER"
	RoleManager StaffRole = "MANAGER"
	RoleAdmin   StaffRole = "ADMIN"
	RoleCleaner StaffRole = "CLEANER"
)

// OperatorMode selects which flow a terminal session runs in.  The mode,
// together with how the guest was resolved, determines the authorization
// tier required for an order (see the intake package).
type OperatorMode string

const (
	ModeRecepcao OperatorMode = "RECEPCAO"
	ModeGarcom   OperatorMode = "GARCOM"
	ModeKiosk    OperatorMode = "KIOSK"
)

// Valid reports whether the mode is one of the known operator modes.
func (m OperatorMode) Valid() bool {
	switch m {
	case ModeRecepcao, ModeGarcom, ModeKiosk:
		return true
	}
	return false
}

// SettlementMethod is how a bill is paid at check-in or checkout.
type SettlementMethod string

const (
	PayCash   SettlementMethod = "DINHEIRO"
	PayPix    SettlementMethod = "PIX"
	PayCredit SettlementMethod = "CREDITO"
	PayDebit  SettlementMethod = "DEBITO"
)

// Valid reports whether the settlement method is one of the accepted forms.
func (m SettlementMethod) Valid() bool {
	switch m {
	case PayCash, PayPix, PayCredit, PayDebit:
		return true
	}
	return false
}

// Staff is an operator record as returned by the billing service after PIN
// authentication.  The PIN itself is never echoed back by the server.
type Staff struct {
	ID     uint64    `json:"id"`
	Name   string    `json:"name"`
	Role   StaffRole `json:"role"`
	Active bool      `json:"active"`
}
