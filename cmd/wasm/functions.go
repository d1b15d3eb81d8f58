//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/speakeasy-api/jsonschema-tools/pkg/playground"
)

// promisify wraps a Go function to return a JavaScript Promise
func promisify(fn func(args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				result, err := fn(args)
				if err != nil {
					errorConstructor := js.Global().Get("Error")
					reject.Invoke(errorConstructor.New(err.Error()))
					return
				}
				resolve.Invoke(result)
			}()

			// The handler of a Promise doesn't return any value
			return nil
		})

		promiseConstructor := js.Global().Get("Promise")
		return promiseConstructor.New(handler)
	})
}

func main() {
	// ComposeSchemas takes a JSON encoded playground.ComposeRequest.
	js.Global().Set("ComposeSchemas", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("ComposeSchemas: expected 1 arg (request), got %v", len(args))
		}
		return playground.ComposeJSON(args[0].String())
	}))

	js.Global().Set("LintSchema", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("LintSchema: expected 1 arg (schema), got %v", len(args))
		}
		return playground.Lint(args[0].String())
	}))

	// Keep the program running
	<-make(chan bool)
}
