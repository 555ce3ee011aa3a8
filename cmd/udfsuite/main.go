// Command udfsuite is the loadable function library. Build it with
//
//	go build -buildmode=c-shared -o libudf_suite.so ./cmd/udfsuite
//
// and install the functions with udfctl. The exported symbols live in
// exports_gen.go, generated from pkg/suite.
package main

//go:generate go run ../udfgen -o exports_gen.go

func main() {}
