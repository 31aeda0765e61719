package rule

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind enum
type ValueKind string

const (
	ValueKindNumber ValueKind = "number"
	ValueKindString ValueKind = "string"
	ValueKindBool   ValueKind = "bool"
	ValueKindDate   ValueKind = "date"
)

// Value is one resolved variable in an evaluation context.
type Value struct {
	Kind ValueKind
	Num  decimal.Decimal
	Str  string
	Bool bool
	Date time.Time
}

func NumberValue(d decimal.Decimal) Value { return Value{Kind: ValueKindNumber, Num: d} }
func StringValue(s string) Value          { return Value{Kind: ValueKindString, Str: s} }
func BoolValue(b bool) Value              { return Value{Kind: ValueKindBool, Bool: b} }
func DateValue(t time.Time) Value         { return Value{Kind: ValueKindDate, Date: t} }

// Context is the read-only variable namespace one employee/period evaluation
// runs against. It is built per employee and never shared across goroutines;
// the rule snapshot it is evaluated with may be.
type Context struct {
	vars map[string]Value
}

func NewContext() *Context {
	return &Context{vars: make(map[string]Value)}
}

func (c *Context) Set(name string, v Value) *Context {
	c.vars[name] = v
	return c
}

func (c *Context) SetNumber(name string, d decimal.Decimal) *Context {
	return c.Set(name, NumberValue(d))
}

func (c *Context) Lookup(name string) (Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Clone copies the context so a per-rule evaluation can layer constants on
// top without leaking them to later rules.
func (c *Context) Clone() *Context {
	clone := NewContext()
	for k, v := range c.vars {
		clone.vars[k] = v
	}
	return clone
}
