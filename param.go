// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlrun

import (
	"database/sql"
	"fmt"
	"reflect"
)

// Param is a single command parameter. Parameters bind positionally in the
// order they were added to the command; the name is metadata used for
// output parameter handles and error messages.
//
// An output parameter doubles as a handle: after the command has executed,
// [Param.Value] returns whatever the database assigned during execution.
type Param struct {
	name string
	// value holds the input value, already normalized so that a Go nil of
	// any shape binds a database NULL.
	value any
	out   bool
	// dest is the scratch destination for an output parameter. Its pointee
	// type tells the driver what to assign.
	dest reflect.Value
	size int
}

// In returns an input parameter. A nil value, including a typed nil
// pointer, is normalized to bind a database NULL rather than being handed
// to the driver as a language-level nil it might reject.
func In(name string, value any) *Param {
	return &Param{name: name, value: normalize(value)}
}

// Name returns the parameter name.
func (p *Param) Name() string {
	return p.name
}

// Value returns the parameter value. For an output parameter it is only
// meaningful once the command has executed.
func (p *Param) Value() any {
	if p.out {
		if !p.dest.IsValid() {
			return nil
		}
		return p.dest.Elem().Interface()
	}
	return p.value
}

// bindArg returns the value handed to the driver for this parameter.
func (p *Param) bindArg() any {
	if p.out {
		return sql.Named(p.name, sql.Out{Dest: p.dest.Interface()})
	}
	return p.value
}

// outParam builds an output parameter whose scratch destination takes the
// dynamic type of sample. A nil sample scans into an untyped any.
func outParam(name string, sample any, size int) (*Param, error) {
	if name == "" {
		return nil, fmt.Errorf("cannot add output parameter: empty name")
	}
	p := &Param{name: name, out: true, size: size}
	if sample == nil {
		p.dest = reflect.ValueOf(new(any))
	} else {
		p.dest = reflect.New(reflect.TypeOf(sample))
	}
	return p, nil
}

// normalize maps every shape of Go nil to the single nil the driver treats
// as NULL. Typed nil pointers inside an interface are not nil to the eye of
// the default value converter until unwrapped here.
func normalize(value any) any {
	if value == nil {
		return nil
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}
	return value
}
