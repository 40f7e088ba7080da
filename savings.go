package finance

import "github.com/shopspring/decimal"

// Categories offered when recording a transaction of each kind.
var Categories = map[Kind][]string{
	Income:  {"salary", "bonus", "freelance", "refund", "other"},
	Expense: {"food", "transport", "rent", "utilities", "shopping", "health", "fun", "kids", "other"},
	Saving:  {"emergency", "investments", "pension", "other"},
	Asset:   {"crypto", "stocks", "property", "cash", "other"},
}

// SavingsTotal is the all-time sum of saving transactions, withdrawals included.
func SavingsTotal(txs []Transaction) decimal.Decimal { return SumByKind(txs, Saving) }

// Withdraw moves amount from savings back to cash.
//
// It returns a negative saving adjustment and the matching income transaction,
// identified by savingID and incomeID. The amount must be positive and not
// exceed the savings total of txs.
func Withdraw(txs []Transaction, amount decimal.Decimal, currency, savingID, incomeID string, now Timestamp) ([2]Transaction, error) {
	if !amount.IsPositive() {
		return [2]Transaction{}, precondition("withdraw", "amount must be positive, got %s", amount)
	}
	if total := SavingsTotal(txs); amount.GreaterThan(total) {
		return [2]Transaction{}, precondition("withdraw", "only %s in savings", FormatMoney(total, currency))
	}
	saving := NewAdjustment(savingID, amount.Neg(), currency, WithdrawalCategory, "Withdraw from savings", now)
	income := Transaction{
		ID:       incomeID,
		Kind:     Income,
		Amount:   amount,
		Currency: currency,
		Category: "savings-withdrawal",
		Note:     "Transferred from savings",
		Date:     now,
	}.normalized()
	return [2]Transaction{saving, income}, nil
}
