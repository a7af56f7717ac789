// Package models defines the shared data types for the business-sale ETL:
// raw table cells, canonical sales records, business rules, and the coverage
// report consumed by the due-diligence artifacts.
package models

import (
	"fmt"
	"time"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	KindMissing CellKind = iota
	KindString
	KindNumber
	KindDate
)

// Cell is a tagged union for one raw table value: string, number, date or
// missing. Raw exports are loosely typed; carrying an explicit kind lets the
// coercion and classification layers switch exhaustively instead of sniffing
// interface values.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Date time.Time
}

// Missing returns the missing-value cell.
func Missing() Cell { return Cell{Kind: KindMissing} }

// Str returns a string cell.
func Str(s string) Cell { return Cell{Kind: KindString, Str: s} }

// Num returns a numeric cell.
func Num(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// String renders the cell for diagnostics and stringify fallbacks.
func (c Cell) String() string {
	switch c.Kind {
	case KindMissing:
		return ""
	case KindString:
		return c.Str
	case KindNumber:
		return fmt.Sprintf("%g", c.Num)
	case KindDate:
		return c.Date.Format("2006-01-02")
	}
	return ""
}
