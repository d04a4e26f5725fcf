package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransactionType dirección del movimiento de caja.
type CashTransactionType string

const (
	CashCredit CashTransactionType = "credit"
	CashDebit  CashTransactionType = "debit"
)

// CashSource origen del movimiento de caja.
type CashSource string

const (
	SourceSale            CashSource = "sale"
	SourceExpense         CashSource = "expense"
	SourcePurchase        CashSource = "purchase"
	SourceSupplierPayment CashSource = "supplier_payment"
	SourceCustomerPayment CashSource = "customer_payment"
	SourceInvestment      CashSource = "investment"
	SourceBankDeposit     CashSource = "bank_deposit"
	SourceBankWithdrawal  CashSource = "bank_withdrawal"
	SourceOpeningBalance  CashSource = "opening_balance"
	SourceAdjustment      CashSource = "adjustment"
	SourceManual          CashSource = "manual"
)

// CashTransaction fila del libro de caja. RunningBalance se calcula al insertar y nunca se edita.
// Las filas sincronizadas llevan ReferenceType/ReferenceID del documento de origen.
type CashTransaction struct {
	ID             string
	ShopID         string
	Seq            int64 // orden de inserción dentro de la tienda
	Date           time.Time
	Type           CashTransactionType
	Source         CashSource
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	PaymentMethod  PaymentMethod
	Description    string
	ReferenceNo    string
	BankName       string
	ReferenceType  CashSource
	ReferenceID    string
	IsManual       bool
	CreatedBy      string
	CreatedAt      time.Time
}
