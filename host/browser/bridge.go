package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-rod/rod"
)

//go:embed bridge.js
var bridgeJS []byte

// callJS dispatches one bridge call and always resolves to a JSON string,
// so page exceptions come back as values rather than CDP errors.
const callJS = `(method, args) => {
	try {
		const v = window.__glprint[method](...args);
		return JSON.stringify({ v: v === undefined ? null : v });
	} catch (e) {
		return JSON.stringify({ e: String((e && e.message) || e) });
	}
}`

// ErrScript is returned when a bridge call throws in the page.
var ErrScript = errors.New("browser: script error")

// evaluator runs bridge calls. The page implementation talks to Chrome;
// tests substitute a scripted one.
type evaluator interface {
	call(ctx context.Context, method string, args []any) (json.RawMessage, error)
}

type pageEvaluator struct {
	page *rod.Page
}

func (p pageEvaluator) call(ctx context.Context, method string, args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	res, err := p.page.Context(ctx).Eval(callJS, method, args)
	if err != nil {
		return nil, fmt.Errorf("browser: eval %s: %w", method, err)
	}
	return decodeReply(method, res.Value.Str())
}

type reply struct {
	V json.RawMessage `json:"v"`
	E *string         `json:"e"`
}

func decodeReply(method, s string) (json.RawMessage, error) {
	var r reply
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, fmt.Errorf("browser: decode %s reply: %w", method, err)
	}
	if r.E != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrScript, method, *r.E)
	}
	return r.V, nil
}

// jsValue is a tagged getParameter result.
type jsValue struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

// decodeValue converts a tagged value into the Go kinds glprint.Querier
// documents: nil, bool, string, int or float64, []float32 or []int32.
func decodeValue(raw json.RawMessage) (any, error) {
	var jv jsValue
	if err := json.Unmarshal(raw, &jv); err != nil {
		return nil, err
	}
	switch jv.T {
	case "null":
		return nil, nil
	case "boolean":
		var b bool
		err := json.Unmarshal(jv.V, &b)
		return b, err
	case "string", "other":
		var s string
		err := json.Unmarshal(jv.V, &s)
		return s, err
	case "number":
		var f float64
		if err := json.Unmarshal(jv.V, &f); err != nil {
			return nil, err
		}
		if f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
			return int(f), nil
		}
		return f, nil
	case "f32":
		var fs []float32
		err := json.Unmarshal(jv.V, &fs)
		return fs, err
	case "i32":
		var is []int32
		err := json.Unmarshal(jv.V, &is)
		return is, err
	}
	return nil, fmt.Errorf("browser: unknown value tag %q", jv.T)
}
