// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tpusim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var signalType = reflect.TypeOf((*Signal)(nil))

// Bind creates one signal for each tagged *Signal field of the struct pointed
// to by v and stores it in the field.
//
// The field tag must be `hw:"width"` or `hw:"width,signal_name"`. By default,
// the signal name is the field name in lowercase, prefixed by prefix and an
// underscore if prefix is not empty. The width is either a literal bit count or
// a key in the widths map:
//
//	type pins struct {
//		Addr *tpusim.Signal `hw:"addr"`
//		Data *tpusim.Signal `hw:"data,bus"`
//		WE   *tpusim.Signal `hw:"1"`
//	}
//
//	var p pins
//	err := s.Bind("ram", &p, map[string]uint{"addr": 4, "data": 8})
//
// creates the signals ram_addr[4], ram_bus[8] and ram_we[1].
//
func (s *Scheduler) Bind(prefix string, v any, widths map[string]uint) error {
	s.building("Bind")
	pv := reflect.ValueOf(v)
	if pv.Kind() != reflect.Ptr || pv.IsNil() || pv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Bind: unsupported type %T, want a struct pointer", v)
	}
	e := pv.Elem()
	typ := e.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		if f.Type != signalType {
			return errors.Errorf("Bind: unsupported type %s for field %q in %q", f.Type, f.Name, typ.Name())
		}
		if !f.IsExported() {
			return errors.Errorf("Bind: unexported field %q in %q", f.Name, typ.Name())
		}
		tv := strings.Split(tag, ",")
		name := strings.ToLower(f.Name)
		if len(tv) > 2 {
			return errors.Errorf("Bind: unsupported tag %q for field %q in %q", tag, f.Name, typ.Name())
		}
		if len(tv) == 2 && tv[1] != "" {
			name = tv[1]
		}
		if prefix != "" {
			name = prefix + "_" + name
		}
		w, ok := widths[tv[0]]
		if !ok {
			n, err := strconv.ParseUint(tv[0], 10, 8)
			if err != nil {
				return errors.Errorf("Bind: unknown width %q for field %q in %q", tv[0], f.Name, typ.Name())
			}
			w = uint(n)
		}
		e.Field(i).Set(reflect.ValueOf(s.NewSignal(name, w)))
	}
	return nil
}
