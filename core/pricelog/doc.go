// Package pricelog keeps the history of daily price decisions.
//
// Every decision, whether the recommendation was applied or the previous
// price was held, is appended as a LogRecord. The history feeds the
// /api/recommendations endpoint, the history command and the lookup of
// yesterday's applied price. Stores exist for memory, plain JSONL, rotating
// JSONL and SQLite.
package pricelog
