// Package models defines the persisted domain models for $ave+.
//
// # Models
//
//   - User: a registered account, authenticated with email and password
//   - Debt: a liability owned by one user, fed to the payoff simulator
//
// # Design Principles
//
// 1. **Storage agnostic**: models carry no SQL tags; each store maps columns itself
// 2. **IDs, not pointers**: relationships use ID strings (Debt.UserID)
// 3. **Engine separation**: simulator types live in package payoff; Debt.Account converts
//
// Amounts are float64 rounded to cents before they are written. Interest
// rates are fractions, never percentages.
package models
