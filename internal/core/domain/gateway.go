package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovedResponseCode is the gateway response code of a settled card
// transaction; anything else is declined or pending.
const ApprovedResponseCode = "0"

// SettledServiceCode is the bpay service code of a cleared bank payment.
const SettledServiceCode = "0"

// Bpay instruction/type code pairs classifying a transaction.
const (
	BpayPaymentInstruction = "05"
	BpayPaymentType        = "399"
	BpayRefundInstruction  = "25"
	BpayRefundType         = "699"
)

// CardAction classifies a card transaction.
type CardAction string

const (
	CardActionPayment CardAction = "payment"
	CardActionRefund  CardAction = "refund"
)

// CardTransaction is a settled card record from the payment gateway. The two
// allocated counters report how much of the amount has already been assigned
// to any line, system wide.
type CardTransaction struct {
	TxnID            string
	CRN              string // invoice reference
	Amount           decimal.Decimal
	Action           CardAction
	ResponseCode     string
	SettlementDate   time.Time
	PaymentAllocated decimal.Decimal
	RefundAllocated  decimal.Decimal
}

// Approved reports whether the gateway settled the transaction.
func (t CardTransaction) Approved() bool {
	return t.ResponseCode == ApprovedResponseCode
}

// BpayTransaction is a bank bill payment record, classified into payment or
// refund by its instruction and type codes.
type BpayTransaction struct {
	TxnID            string
	CRN              string // invoice reference
	Amount           decimal.Decimal
	InstructionCode  string
	TypeCode         string
	ServiceCode      string
	ProcessedDate    time.Time
	PaymentAllocated decimal.Decimal
	RefundAllocated  decimal.Decimal
}

// Approved reports whether the bank cleared the transaction.
func (t BpayTransaction) Approved() bool {
	return t.ServiceCode == SettledServiceCode
}

// IsPayment reports whether the instruction/type pair marks a payment.
func (t BpayTransaction) IsPayment() bool {
	return t.InstructionCode == BpayPaymentInstruction && t.TypeCode == BpayPaymentType
}

// IsRefund reports whether the instruction/type pair marks a refund.
func (t BpayTransaction) IsRefund() bool {
	return t.InstructionCode == BpayRefundInstruction && t.TypeCode == BpayRefundType
}

// CashType classifies a cash movement.
type CashType string

const (
	CashPayment CashType = "payment"
	CashRefund  CashType = "refund"
	CashMoveIn  CashType = "move_in"
	CashMoveOut CashType = "move_out"
)

// CashTransaction is a recorded cash movement against an invoice. Cash has no
// gateway approval step; every record is eligible for allocation.
type CashTransaction struct {
	TxnID              string
	InvoiceReference   string
	Amount             decimal.Decimal
	Type               CashType
	Created            time.Time
	PaymentAllocated   decimal.Decimal
	RefundAllocated    decimal.Decimal
	DeductionAllocated decimal.Decimal
}

// CountsAsPayment reports whether the movement allocates as a payment.
func (t CashTransaction) CountsAsPayment() bool {
	return t.Type == CashPayment || t.Type == CashMoveIn
}
