// Package finance provides the computational core of a local-first personal
// finance tracker: a ledger of income, expense, saving and asset transactions
// and a register of asset holdings.
//
// The core functionalities include:
//   - Record Schemas: validating and normalizing Transaction and Holding
//     records, whatever their origin (user entry, JSON, CSV).
//   - Aggregation: reducing transactions of a period into income, expense,
//     saving and asset totals, the cash balance and the net worth delta.
//   - Portfolio Valuation: valuing holdings at their manual mark, or at cost
//     when no mark has been set, and computing the records produced by a sale.
//   - Import/Export: moving whole transaction collections in and out as JSON or CSV.
//
// All functions are pure reductions over a snapshot of records. Persistence is
// handled by the store package and orchestration by the book package.
package finance
