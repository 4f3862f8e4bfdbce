//go:build !(js && wasm)

package main

import "log"

func main() {
	log.Fatal("glprint-wasm: build with GOOS=js GOARCH=wasm and load it in a page")
}
