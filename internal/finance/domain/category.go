package domain

const (
	IncomeCategory       = "Income"
	InitialBalanceNote   = "Initial balance"
	InitialBalanceMethod = "Bank"
)

// PredefinedCategories are offered to every user next to the categories they
// already used.
var PredefinedCategories = []string{
	IncomeCategory,
	"Food",
	"Groceries",
	"Transport",
	"Housing",
	"Utilities",
	"Entertainment",
	"Shopping",
	"Health",
	"Education",
	"Travel",
	"Other",
}

var PaymentMethods = []string{
	"Cash",
	"Credit Card",
	"Debit Card",
	"UPI",
	"Bank Transfer",
	InitialBalanceMethod,
}
