// Package jsgl provides a glprint host for Go compiled to WebAssembly and
// running inside a browser page. It calls the page's WebGL implementation
// directly through syscall/js.
//
// Importing the package registers it as "jsgl":
//
//	import _ "github.com/gogpu/glprint/host/jsgl"
//
// Outside js/wasm builds the package is empty.
package jsgl
