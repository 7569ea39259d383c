package lualib

import (
	"slices"
	"unicode/utf16"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/auvred/upattern"
)

const ustringMeta = "ustring"

// UstringLoader is the module loader of ustring.
func UstringLoader(L *lua.LState) int {
	mt := L.NewTypeMetatable(ustringMeta)
	L.SetFuncs(mt, map[string]lua.LGFunction{
		"__tostring": ustringToString,
		"__len":      ustringLen,
		"__eq":       ustringEq,
		"__concat":   ustringConcat,
	})
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), ustringMethods))

	t := L.NewTable()
	L.SetFuncs(t, ustringMethods)
	L.SetFuncs(t, map[string]lua.LGFunction{
		"decode":    ustringDecode,
		"isustring": ustringIs,
	})
	L.Push(t)
	return 1
}

var ustringMethods = map[string]lua.LGFunction{
	"find":   ustringBinding.find,
	"match":  ustringBinding.match,
	"gsub":   ustringBinding.gsub,
	"gmatch": ustringBinding.gmatch,
	"len":    ustringLen,
	"encode": ustringEncode,
}

var ustringBinding = binding[[]uint16]{
	check: checkUnits,
	value: func(L *lua.LState, s []uint16) lua.LValue { return newUstring(L, s) },
	key:   ustringKey,
	template: func(L *lua.LState, n int) ([]uint16, bool) {
		return toUnits(L.Get(n))
	},
	result: func(v lua.LValue) any {
		if u, ok := toUnits(v); ok {
			return u
		}
		return nil
	},
}

// ustringKey indexes replacement tables by the UTF-8 form of a match, since
// userdata keys compare by identity.
func ustringKey(s []uint16) lua.LValue {
	return lua.LString(unitsString(s))
}

func newUstring(L *lua.LState, units []uint16) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = units
	L.SetMetatable(ud, L.GetTypeMetatable(ustringMeta))
	return ud
}

// toUnits converts a ustring, or a string or number read as UTF-8, to
// UTF-16 code units.
func toUnits(v lua.LValue) ([]uint16, bool) {
	switch v.Type() {
	case lua.LTUserData:
		if u, ok := v.(*lua.LUserData).Value.([]uint16); ok {
			return u, true
		}
	case lua.LTString, lua.LTNumber:
		return utf16.Encode([]rune(lua.LVAsString(v))), true
	}
	return nil, false
}

func checkUnits(L *lua.LState, n int) []uint16 {
	u, ok := toUnits(L.Get(n))
	if !ok {
		L.ArgError(n, "ustring expected, got "+L.Get(n).Type().String())
	}
	return u
}

func unitsString(u []uint16) string {
	return string(utf16.Decode(u))
}

// codepage returns the encoding named by the optional argument n, UTF-8 by
// default. Names are WHATWG encoding labels.
func codepage(L *lua.LState, n int) (encoding.Encoding, error) {
	return htmlindex.Get(L.OptString(n, "utf-8"))
}

// decode(bytes [, codepage]) converts bytes in the named encoding to a
// ustring. On failure it returns nil and a message.
func ustringDecode(L *lua.LState) int {
	s := L.CheckString(1)
	enc, err := codepage(L, 2)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	b, err := enc.NewDecoder().String(s)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(newUstring(L, utf16.Encode([]rune(b))))
	return 1
}

// encode(u [, codepage]) converts a ustring to bytes in the named encoding.
func ustringEncode(L *lua.LState) int {
	u := checkUnits(L, 1)
	enc, err := codepage(L, 2)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	s, err := enc.NewEncoder().String(unitsString(u))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

func ustringIs(L *lua.LState) int {
	ud, ok := L.Get(1).(*lua.LUserData)
	if ok {
		_, ok = ud.Value.([]uint16)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// ustringLen counts code points, not code units.
func ustringLen(L *lua.LState) int {
	L.Push(lua.LNumber(upattern.NewUTF16Cursor(checkUnits(L, 1)).Index(upattern.End)))
	return 1
}

func ustringToString(L *lua.LState) int {
	L.Push(lua.LString(unitsString(checkUnits(L, 1))))
	return 1
}

func ustringEq(L *lua.LState) int {
	a, aok := toUnits(L.Get(1))
	b, bok := toUnits(L.Get(2))
	L.Push(lua.LBool(aok && bok && slices.Equal(a, b)))
	return 1
}

func ustringConcat(L *lua.LState) int {
	a, b := checkUnits(L, 1), checkUnits(L, 2)
	L.Push(newUstring(L, slices.Concat(a, b)))
	return 1
}
