package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/script-array/array"
	"github.com/wippyai/script-array/typeinfo"
)

const helpText = `commands:
  push <v>...          append values
  pop                  remove the last value
  insert <i> <v>       insert v before index i
  erase <i> [n]        erase n values (default 1) starting at i
  remove <v>           erase every value equal to v
  set <i> <v>          overwrite index i
  get <i>              print index i
  find <v> [from]      index of the first v at or after from
  count <v>            number of values equal to v
  sort [desc]          sort the whole array
  reverse              reverse the whole array
  resize <n>           grow with zero values or truncate
  reserve <n>          make room for n values
  shrink               release unused capacity
  clear                remove every value
  show                 print the array
  help                 print this text`

// session holds the array edited by the commands.
type session struct {
	arr  *array.Array
	kind typeinfo.Kind
}

func newSession(reg *typeinfo.Registry, typeName string, opts array.Options) (*session, error) {
	t, ok := reg.Lookup(typeName)
	if !ok || !t.IsPrimitive() {
		return nil, fmt.Errorf("unknown primitive type %q", typeName)
	}
	arr, err := opts.New(typeinfo.Of(t))
	if err != nil {
		return nil, err
	}
	return &session{arr: arr, kind: t.Kind()}, nil
}

func (s *session) close() {
	if s.arr != nil {
		s.arr.Release()
		s.arr = nil
	}
}

// exec runs one command line and returns its output.
func (s *session) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		return helpText, nil

	case "show", "print", "ls":
		return s.show(), nil

	case "push":
		if len(args) == 0 {
			return "", usage("push <v>...")
		}
		for _, a := range args {
			v, err := s.parseValue(a)
			if err != nil {
				return "", err
			}
			if err := s.arr.PushBack(v); err != nil {
				return "", err
			}
		}
		return s.show(), nil

	case "pop":
		if err := s.arr.PopBack(); err != nil {
			return "", err
		}
		return s.show(), nil

	case "insert":
		if len(args) != 2 {
			return "", usage("insert <i> <v>")
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		v, err := s.parseValue(args[1])
		if err != nil {
			return "", err
		}
		if err := s.arr.Insert(idx, v); err != nil {
			return "", err
		}
		return s.show(), nil

	case "erase":
		if len(args) < 1 || len(args) > 2 {
			return "", usage("erase <i> [n]")
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		n := 1
		if len(args) == 2 {
			if n, err = parseIndex(args[1]); err != nil {
				return "", err
			}
		}
		if err := s.arr.Erase(idx, n); err != nil {
			return "", err
		}
		return s.show(), nil

	case "remove":
		if len(args) != 1 {
			return "", usage("remove <v>")
		}
		v, err := s.parseValue(args[0])
		if err != nil {
			return "", err
		}
		n, err := s.arr.EraseValue(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed %d\n%s", n, s.show()), nil

	case "set":
		if len(args) != 2 {
			return "", usage("set <i> <v>")
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		v, err := s.parseValue(args[1])
		if err != nil {
			return "", err
		}
		if err := s.arr.Set(idx, v); err != nil {
			return "", err
		}
		return s.show(), nil

	case "get":
		if len(args) != 1 {
			return "", usage("get <i>")
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		v, err := s.arr.At(idx)
		if err != nil {
			return "", err
		}
		return s.format(v), nil

	case "find":
		if len(args) < 1 || len(args) > 2 {
			return "", usage("find <v> [from]")
		}
		v, err := s.parseValue(args[0])
		if err != nil {
			return "", err
		}
		from := 0
		if len(args) == 2 {
			if from, err = parseIndex(args[1]); err != nil {
				return "", err
			}
		}
		idx, err := s.arr.Find(from, -1, v)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(idx), nil

	case "count":
		if len(args) != 1 {
			return "", usage("count <v>")
		}
		v, err := s.parseValue(args[0])
		if err != nil {
			return "", err
		}
		n, err := s.arr.Count(0, -1, v)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil

	case "sort":
		ascending := true
		if len(args) == 1 && strings.HasPrefix(strings.ToLower(args[0]), "desc") {
			ascending = false
		} else if len(args) > 0 {
			return "", usage("sort [desc]")
		}
		if err := s.arr.Sort(0, s.arr.Size(), ascending); err != nil {
			return "", err
		}
		return s.show(), nil

	case "reverse":
		if err := s.arr.Reverse(0, -1); err != nil {
			return "", err
		}
		return s.show(), nil

	case "resize", "reserve":
		if len(args) != 1 {
			return "", usage(cmd + " <n>")
		}
		n, err := parseIndex(args[0])
		if err != nil {
			return "", err
		}
		if cmd == "resize" {
			err = s.arr.Resize(n)
		} else {
			err = s.arr.Reserve(n)
		}
		if err != nil {
			return "", err
		}
		return s.show(), nil

	case "shrink":
		if err := s.arr.ShrinkToFit(); err != nil {
			return "", err
		}
		return s.show(), nil

	case "clear":
		if err := s.arr.Clear(); err != nil {
			return "", err
		}
		return s.show(), nil
	}
	return "", fmt.Errorf("unknown command %q (try help)", cmd)
}

func usage(form string) error {
	return fmt.Errorf("usage: %s", form)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

// parseValue converts a command argument to the Go value the array's
// element kind accepts.
func (s *session) parseValue(text string) (any, error) {
	switch k := s.kind; {
	case k == typeinfo.KindBool:
		return strconv.ParseBool(text)
	case k == typeinfo.KindChar:
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError || size != len(text) {
			return nil, fmt.Errorf("invalid char %q", text)
		}
		return r, nil
	case k.IsFloat():
		return strconv.ParseFloat(text, 64)
	case k.IsSigned():
		return strconv.ParseInt(text, 0, 64)
	default:
		return strconv.ParseUint(text, 0, 64)
	}
}

func (s *session) format(v any) string {
	if r, ok := v.(rune); ok && s.kind == typeinfo.KindChar {
		return strconv.QuoteRune(r)
	}
	return fmt.Sprint(v)
}

func (s *session) show() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range s.arr.Values() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.format(v))
	}
	fmt.Fprintf(&b, "] size=%d cap=%d", s.arr.Size(), s.arr.Capacity())
	return b.String()
}
