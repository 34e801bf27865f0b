package preview

import (
	"fmt"
	"strconv"
	"strings"
)

// Method names a recorded transformation.
type Method string

const (
	MethodResize Method = "resize"
	MethodCrop   Method = "crop"
)

// Operation is one recorded transformation call with its normalized
// arguments. Boolean flags are stored as 0 or 1.
type Operation struct {
	Method Method `json:"method"`
	Args   []int  `json:"args"`
}

// Normalize returns op with its omitted trailing arguments filled in, so
// that it renders exactly as the matching Resize or Crop call would record
// it. Resize defaults to keeping the aspect ratio without upscaling; crop
// defaults to the origin.
func (op Operation) Normalize() (Operation, error) {
	args := make([]int, 4)
	switch op.Method {
	case MethodResize:
		args[2] = 1
	case MethodCrop:
	default:
		return Operation{}, fmt.Errorf("unknown method %q", op.Method)
	}
	if len(op.Args) < 2 || len(op.Args) > len(args) {
		return Operation{}, fmt.Errorf("%s takes 2 to 4 arguments, got %d", op.Method, len(op.Args))
	}
	copy(args, op.Args)
	if op.Method == MethodResize {
		args[2], args[3] = boolArg(args[2] != 0), boolArg(args[3] != 0)
	}
	return Operation{Method: op.Method, Args: args}, nil
}

// String renders the operation the way it enters the cache key:
// method(arg,arg,...);
func (op Operation) String() string {
	var b strings.Builder
	op.writeTo(&b)
	return b.String()
}

func (op Operation) writeTo(b *strings.Builder) {
	b.WriteString(string(op.Method))
	b.WriteByte('(')
	for i, arg := range op.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(arg))
	}
	b.WriteString(");")
}

// TransformLog is the ordered, append-only list of operations requested on
// one Image. Entries are never reordered or merged, and no-op requests are
// kept, since the log is part of the cache key.
//
// A TransformLog is owned by a single Image and is not safe for concurrent
// mutation.
type TransformLog struct {
	ops []Operation
}

// Append records op. The argument slice is copied.
func (l *TransformLog) Append(op Operation) {
	args := make([]int, len(op.Args))
	copy(args, op.Args)
	l.ops = append(l.ops, Operation{Method: op.Method, Args: args})
}

// Len returns the number of recorded operations.
func (l *TransformLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ops)
}

// Operations returns a copy of the recorded operations.
func (l *TransformLog) Operations() []Operation {
	if l == nil {
		return nil
	}
	out := make([]Operation, len(l.ops))
	for i, op := range l.ops {
		args := make([]int, len(op.Args))
		copy(args, op.Args)
		out[i] = Operation{Method: op.Method, Args: args}
	}
	return out
}

// String concatenates the serialized operations in order.
func (l *TransformLog) String() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	for _, op := range l.ops {
		op.writeTo(&b)
	}
	return b.String()
}

func boolArg(v bool) int {
	if v {
		return 1
	}
	return 0
}
