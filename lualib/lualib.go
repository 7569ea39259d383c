// Package lualib exposes upattern to gopher-lua scripts.
//
// Two modules are provided. uutf8 works on ordinary Lua strings, which it
// treats as UTF-8:
//
//	local uutf8 = require("uutf8")
//	print(uutf8.find("añb", "ñ"))  --> 2 2
//
// ustring works on UTF-16 userdata values created with ustring.decode:
//
//	local ustring = require("ustring")
//	local u = ustring.decode("añb")
//	print(u:find("ñ"))  --> 2 2
//
// find, match, gsub and gmatch follow the calling conventions of Lua's
// string library, with every index counted in code points.
package lualib

import (
	"fmt"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/auvred/upattern"
)

// Preload adds uutf8 and ustring to the given Lua state's package.preload
// table, so that scripts can load them with require.
func Preload(L *lua.LState) {
	L.PreloadModule("uutf8", Loader)
	L.PreloadModule("ustring", UstringLoader)
}

// Loader is the module loader of uutf8.
func Loader(L *lua.LState) int {
	t := L.NewTable()
	L.SetFuncs(t, utf8Funcs)
	L.Push(t)
	return 1
}

var utf8Funcs = map[string]lua.LGFunction{
	"find":   utf8Binding.find,
	"match":  utf8Binding.match,
	"gsub":   utf8Binding.gsub,
	"gmatch": utf8Binding.gmatch,
	"len":    utf8Len,
}

var utf8Binding = binding[string]{
	check: func(L *lua.LState, n int) string { return L.CheckString(n) },
	value: func(L *lua.LState, s string) lua.LValue { return lua.LString(s) },
	key:   func(s string) lua.LValue { return lua.LString(s) },
	template: func(L *lua.LState, n int) (string, bool) {
		switch v := L.Get(n); v.Type() {
		case lua.LTString, lua.LTNumber:
			return lua.LVAsString(v), true
		}
		return "", false
	},
	result: func(v lua.LValue) any {
		if v.Type() == lua.LTString {
			return string(v.(lua.LString))
		}
		return nil
	},
}

func utf8Len(L *lua.LState) int {
	L.Push(lua.LNumber(utf8.RuneCountInString(L.CheckString(1))))
	return 1
}

// binding implements the Lua functions once for every encoding.
type binding[S upattern.Text] struct {
	// check returns argument n or raises an argument error.
	check func(L *lua.LState, n int) S
	// value converts text to a Lua value.
	value func(L *lua.LState, s S) lua.LValue
	// key converts a match to the key looked up in a replacement table.
	key func(s S) lua.LValue
	// template reports whether argument n is a replacement template.
	template func(L *lua.LState, n int) (S, bool)
	// result converts a text value returned by a replacement table or
	// function. It returns nil for values that are not text.
	result func(v lua.LValue) any
}

func raise(L *lua.LState, err error) {
	L.RaiseError("%s", err.Error())
}

func (b binding[S]) pushCaptures(L *lua.LState, captures []upattern.Capture[S]) int {
	for _, c := range captures {
		L.Push(b.capture(L, c))
	}
	return len(captures)
}

func (b binding[S]) capture(L *lua.LState, c upattern.Capture[S]) lua.LValue {
	if c.IsPosition() {
		return lua.LNumber(c.Position)
	}
	return b.value(L, c.Value)
}

// find(s, pattern [, init [, plain]]) returns the bounds of the first match
// followed by its captures, or nil.
func (b binding[S]) find(L *lua.LState) int {
	s, p := b.check(L, 1), b.check(L, 2)
	init := L.OptInt(3, 1)
	var flags upattern.Flag
	if L.ToBool(4) {
		flags |= upattern.FlagPlain
	}
	res, err := upattern.New(p, flags).Find(s, init)
	if err != nil {
		raise(L, err)
		return 0
	}
	if res == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(res.Start))
	L.Push(lua.LNumber(res.End))
	return 2 + b.pushCaptures(L, res.Captures)
}

// match(s, pattern [, init]) returns the captures of the first match, or nil.
func (b binding[S]) match(L *lua.LState) int {
	s, p := b.check(L, 1), b.check(L, 2)
	captures, err := upattern.Match(s, p, L.OptInt(3, 1))
	if err != nil {
		raise(L, err)
		return 0
	}
	if captures == nil {
		L.Push(lua.LNil)
		return 1
	}
	return b.pushCaptures(L, captures)
}

// gsub(s, pattern, repl [, n]) returns the substituted text and the number
// of replacements.
func (b binding[S]) gsub(L *lua.LState) int {
	s, p := b.check(L, 1), b.check(L, 2)
	repl := b.replacement(L, 3)
	res, n, err := upattern.Gsub(s, p, repl, L.OptInt(4, -1))
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(b.value(L, res))
	L.Push(lua.LNumber(n))
	return 2
}

// gmatch(s, pattern) returns an iterator function for a generic for.
func (b binding[S]) gmatch(L *lua.LState) int {
	it := upattern.Gmatch(b.check(L, 1), b.check(L, 2))
	L.Push(L.NewFunction(func(L *lua.LState) int {
		captures, err := it.Next()
		if err != nil {
			raise(L, err)
			return 0
		}
		return b.pushCaptures(L, captures)
	}))
	return 1
}

// replacement turns argument n of gsub into an upattern.Replacement.
func (b binding[S]) replacement(L *lua.LState, n int) upattern.Replacement[S] {
	if t, ok := b.template(L, n); ok {
		return upattern.Template(t)
	}
	switch v := L.Get(n).(type) {
	case *lua.LTable:
		return upattern.Lookup(func(match S) (any, error) {
			return b.replacementValue(L.GetTable(v, b.key(match)))
		})
	case *lua.LFunction:
		return upattern.Callback(func(captures []upattern.Capture[S]) (any, error) {
			args := make([]lua.LValue, len(captures))
			for i, c := range captures {
				args[i] = b.capture(L, c)
			}
			if err := L.CallByParam(lua.P{Fn: v, NRet: 1, Protect: true}, args...); err != nil {
				return nil, err
			}
			ret := L.Get(-1)
			L.Pop(1)
			return b.replacementValue(ret)
		})
	}
	L.ArgError(n, "string/function/table expected")
	return upattern.Replacement[S]{}
}

// replacementValue maps a value returned by a replacement table or function
// to what upattern.Replacement expects.
func (b binding[S]) replacementValue(v lua.LValue) (any, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		if !v {
			return false, nil
		}
	case lua.LNumber:
		return float64(v), nil
	}
	if r := b.result(v); r != nil {
		return r, nil
	}
	return nil, fmt.Errorf("%w (a %s value)", upattern.ErrInvalidReplacement, v.Type())
}
