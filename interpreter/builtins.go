package interpreter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/morph-lang/morph/value"
)

// output writes its arguments separated by spaces. log ends the line, print
// does not.
type output struct {
	name    string
	w       io.Writer
	newline bool
}

func (b *output) Name() string {
	return b.name
}

func (b *output) Call(args []value.Value) (value.Value, error) {
	var parts []string
	for _, arg := range args {
		parts = append(parts, value.Format(arg))
	}
	line := strings.Join(parts, " ")
	if b.newline {
		line += "\n"
	}
	if _, err := io.WriteString(b.w, line); err != nil {
		return nil, customf("%s: %s", b.name, err)
	}
	return value.Unit{}, nil
}

type length struct{}

func (length) Name() string {
	return "len"
}

func (length) Call(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, arity(1, len(args))
	}

	switch v := args[0].(type) {
	case value.List:
		return value.Integer(len(v)), nil
	case value.String:
		return value.Integer(utf8.RuneCountInString(string(v))), nil
	}
	return nil, typeErrorf("len() requires a list or string, got %s", value.TypeName(args[0]))
}

// push cannot reach the caller's binding, so it only validates its
// arguments.
type push struct{}

func (push) Name() string {
	return "push"
}

func (push) Call(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, arity(2, len(args))
	}
	return value.Unit{}, nil
}

// span is range(end), range(start, end) or range(start, end, step), end
// exclusive.
type span struct{}

func (span) Name() string {
	return "range"
}

func (span) Call(args []value.Value) (value.Value, error) {
	var nums []int64
	for _, arg := range args {
		n, ok := arg.(value.Integer)
		if !ok {
			return nil, typeErrorf("expected Int, got %s", value.TypeName(arg))
		}
		nums = append(nums, int64(n))
	}

	var start, end, step int64 = 0, 0, 1
	switch len(nums) {
	case 1:
		end = nums[0]
	case 2:
		start, end = nums[0], nums[1]
	case 3:
		start, end, step = nums[0], nums[1], nums[2]
		if step <= 0 {
			return nil, &RuntimeError{Kind: InvalidOperation, Message: fmt.Sprintf("range step must be positive, got %d", step)}
		}
	default:
		return nil, arity(3, len(args))
	}

	list := value.List{}
	for i := start; i < end; i += step {
		list = append(list, value.Integer(i))
	}
	return list, nil
}

func builtins(w io.Writer) []value.Builtin {
	return []value.Builtin{
		&output{name: "log", w: w, newline: true},
		&output{name: "print", w: w},
		length{},
		push{},
		span{},
	}
}
