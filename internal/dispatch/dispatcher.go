package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"goldenapi/internal/api"
	"goldenapi/pkg/logging"
)

// DeclinedError reports that the executor declined a request.
type DeclinedError struct {
	Method string
	Cause  error
}

func (e *DeclinedError) Error() string {
	if e.Cause != nil && e.Cause != api.ErrDeclined {
		return fmt.Sprintf("request %s declined: %v", e.Method, e.Cause)
	}
	return fmt.Sprintf("request %s declined by executor", e.Method)
}

func (e *DeclinedError) Unwrap() error {
	if e.Cause == nil {
		return api.ErrDeclined
	}
	return e.Cause
}

// Dispatcher sends requests to an executor.
type Dispatcher struct {
	executor api.Executor
}

// New creates a Dispatcher around executor.
func New(executor api.Executor) *Dispatcher {
	return &Dispatcher{executor: executor}
}

// Dispatch executes params and returns the response as text.
func (d *Dispatcher) Dispatch(ctx context.Context, params api.Params) (string, error) {
	result, err := d.execute(ctx, params)
	if err != nil {
		return "", err
	}
	return ToText(result)
}

// Rows executes a structured request and returns its rows together with the
// raw response text. Text responses are decoded as JSON.
func (d *Dispatcher) Rows(ctx context.Context, params api.Params) ([]map[string]interface{}, string, error) {
	result, err := d.execute(ctx, params)
	if err != nil {
		return nil, "", err
	}
	raw, err := ToText(result)
	if err != nil {
		return nil, "", err
	}

	switch v := result.(type) {
	case []map[string]interface{}:
		return v, raw, nil
	case string, []byte:
		rows, err := decodeRows(raw)
		if err != nil {
			return nil, raw, fmt.Errorf("failed to decode rows of %s: %w", params.Method(), err)
		}
		return rows, raw, nil
	default:
		return toRows(v), raw, nil
	}
}

func (d *Dispatcher) execute(ctx context.Context, params api.Params) (interface{}, error) {
	method := params.Method()
	logging.Debug("Dispatcher", "Executing %s", method)

	result, err := d.executor.Execute(ctx, params)
	if err != nil {
		if errors.Is(err, api.ErrDeclined) {
			return nil, &DeclinedError{Method: method, Cause: err}
		}
		return nil, fmt.Errorf("failed to execute %s: %w", method, err)
	}
	return result, nil
}

// ToText coerces an executor result to text. Strings and byte slices pass
// through, Stringers use String, nil is empty and anything else is encoded
// as JSON with sorted object keys.
func ToText(result interface{}) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode response: %w", err)
		}
		return string(data), nil
	}
}

// decodeRows reads the rows of a JSON list, or of an object keyed by row
// label, in document order.
func decodeRows(text string) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, nil
	}

	var rows []map[string]interface{}
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if row, ok := v.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// toRows flattens a structured response into rows: a list of objects, or a
// map keyed by row label. Map keys carry no order, so numeric labels sort
// numerically and the rest lexically.
func toRows(v interface{}) []map[string]interface{} {
	switch t := v.(type) {
	case []map[string]interface{}:
		return t
	case []interface{}:
		rows := make([]map[string]interface{}, 0, len(t))
		for _, item := range t {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
		return rows
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			switch {
			case errA == nil && errB == nil:
				return a < b
			case errA == nil:
				return true
			case errB == nil:
				return false
			}
			return keys[i] < keys[j]
		})
		var rows []map[string]interface{}
		for _, k := range keys {
			if row, ok := t[k].(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
		return rows
	default:
		return nil
	}
}
