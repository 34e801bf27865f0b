package commands

import (
	"fmt"
	"strconv"
	"strings"

	preview "github.com/ironsheep/image-preview"
)

// parseOperation reads an operation flag of the form method:arg,arg,...
// such as "resize:100,80" or "crop:50,50,10,0". The result is normalized.
func parseOperation(s string) (preview.Operation, error) {
	method, rawArgs, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return preview.Operation{}, fmt.Errorf("operation %q: expected method:args", s)
	}

	var args []int
	for _, part := range strings.Split(rawArgs, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return preview.Operation{}, fmt.Errorf("operation %q: %w", s, err)
		}
		args = append(args, v)
	}

	op, err := preview.Operation{Method: preview.Method(strings.ToLower(method)), Args: args}.Normalize()
	if err != nil {
		return preview.Operation{}, fmt.Errorf("operation %q: %w", s, err)
	}
	return op, nil
}

func parseOperations(specs []string) ([]preview.Operation, error) {
	ops := make([]preview.Operation, 0, len(specs))
	for _, s := range specs {
		op, err := parseOperation(s)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
