// Command glprint-wasm exposes the probe to the page that loads it.
//
// It installs a global function glprintProbe(format) that probes the
// page's own WebGL implementation and returns the report rendered in
// format ("json" by default). When the page has an element with id
// "glprint", the HTML report is also written into it once at startup.
//
// Build with GOOS=js GOARCH=wasm; on other targets it only reports that.
package main
