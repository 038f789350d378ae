// Package finance derives the financial figures printed on wrap documents.
//
// [Compute] turns a job record into [Financials]: subtotal, sales tax (with
// the B2B resale exemption), cost of goods, gross profit, margin tier and
// the agent's commission. All arithmetic is decimal, so the identity
//
//	GrossProfit == Revenue - COGS.Total
//
// holds exactly. Commission is always computed on gross profit, never on
// revenue.
//
// # Margin tiers
//
// A job is AboveTarget at or above the target margin (75% by default),
// BonusEligible at or above the bonus threshold (73%), and BelowThreshold
// otherwise. Both bounds are inclusive.
//
// # Revenue source
//
// Estimates and invoices measure margin against the subtotal. Sales orders
// use the negotiated sale price; pass [WithRevenue]([RevenueSalePrice]).
package finance
