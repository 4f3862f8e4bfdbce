//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"syscall/js"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/host/jsgl"
	"github.com/gogpu/glprint/report"
)

func main() {
	glprint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	host, err := jsgl.New()
	if err != nil {
		slog.Error("glprint: no page", "err", err)
		return
	}

	probe := js.FuncOf(func(_ js.Value, args []js.Value) any {
		format := report.FormatJSON
		if len(args) > 0 && args[0].Type() == js.TypeString {
			f, err := report.ParseFormat(args[0].String())
			if err != nil {
				return jsError(err)
			}
			format = f
		}
		out, err := render(host, format)
		if err != nil {
			return jsError(err)
		}
		return out
	})
	js.Global().Set("glprintProbe", probe)

	if el := js.Global().Get("document").Call("getElementById", "glprint"); el.Truthy() {
		out, err := render(host, report.FormatHTML)
		if err != nil {
			el.Set("textContent", err.Error())
		} else {
			el.Set("innerHTML", out)
		}
	}

	select {}
}

func render(host *jsgl.Host, format report.Format) (string, error) {
	res, err := glprint.Probe(context.Background(), host)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := report.New(res).Write(&b, format); err != nil {
		return "", err
	}
	return b.String(), nil
}

func jsError(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}
