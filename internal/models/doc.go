// Package models defines the core domain records for the debt ledger.
//
// # Records
//
//   - Order: an immutable shared-expense event (who paid, who shared the cost)
//   - Debt: a directed, mutable balance between two users within one chat
//   - Payment: an append-only record of a debt repayment
//   - User: a lazily registered principal handle
//
// All monetary values are decimal.Decimal; binary floating point is never
// used for money. Per-person shares round half-up to two decimal places.
//
// # Chat scope
//
// Every record carries a ChatID. Chats are hard partitions: records from one
// chat are invisible to every other chat, and a debt's identity is the triple
// (debtor, creditor, chat).
//
// # Ownership
//
// Records are owned by the storage layer. Services re-read current state
// before mutating and never hold records as instance state across calls.
package models
