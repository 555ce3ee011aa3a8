package main

import (
	"bytes"
	"go/format"
	"text/template"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/udf"
)

// shim is one function's worth of template input.
type shim struct {
	Name      string
	Var       string
	Aggregate bool
	Result    string // String, Int or Real
}

func shimFor(d *udf.Definition) shim {
	s := shim{
		Name:      d.Name,
		Var:       "fn_" + d.Name,
		Aggregate: d.Kind == udf.KindAggregate,
		Result:    "String",
	}
	switch d.Returns {
	case udf.TypeInt:
		s.Result = "Int"
	case udf.TypeReal:
		s.Result = "Real"
	}
	return s
}

var exportsTemplate = template.Must(template.New("exports").Parse(`// Code generated by udfgen from pkg/suite. DO NOT EDIT.

package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../pkg/udf/cabi
#include "udf_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/pluots/udf-suite/pkg/suite"
	"github.com/pluots/udf-suite/pkg/udf/cabi"
)

var (
{{- range .}}
	{{.Var}} = suite.Lookup("{{.Name}}")
{{- end}}
)

func initResult(failed bool) C.char {
	if failed {
		return 1
	}
	return 0
}
{{range .}}
//export {{.Name}}_init
func {{.Name}}_init(initid *C.UDF_INIT, args *C.UDF_ARGS, message *C.char) C.char {
	return initResult(cabi.Init({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(args), unsafe.Pointer(message)))
}

//export {{.Name}}_deinit
func {{.Name}}_deinit(initid *C.UDF_INIT) {
	cabi.Deinit({{.Var}}, unsafe.Pointer(initid))
}
{{if eq .Result "String"}}
//export {{.Name}}
func {{.Name}}(initid *C.UDF_INIT, args *C.UDF_ARGS, result *C.char, length *C.ulong, isNull, errFlag *C.char) *C.char {
	return (*C.char)(cabi.ProcessString({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(args), unsafe.Pointer(result), unsafe.Pointer(length), unsafe.Pointer(isNull), unsafe.Pointer(errFlag)))
}
{{else if eq .Result "Int"}}
//export {{.Name}}
func {{.Name}}(initid *C.UDF_INIT, args *C.UDF_ARGS, isNull, errFlag *C.char) C.longlong {
	return C.longlong(cabi.ProcessInt({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(args), unsafe.Pointer(isNull), unsafe.Pointer(errFlag)))
}
{{else}}
//export {{.Name}}
func {{.Name}}(initid *C.UDF_INIT, args *C.UDF_ARGS, isNull, errFlag *C.char) C.double {
	return C.double(cabi.ProcessReal({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(args), unsafe.Pointer(isNull), unsafe.Pointer(errFlag)))
}
{{end}}
{{- if .Aggregate}}
//export {{.Name}}_clear
func {{.Name}}_clear(initid *C.UDF_INIT, isNull, errFlag *C.char) {
	cabi.Clear({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(isNull), unsafe.Pointer(errFlag))
}

//export {{.Name}}_add
func {{.Name}}_add(initid *C.UDF_INIT, args *C.UDF_ARGS, isNull, errFlag *C.char) {
	cabi.Add({{.Var}}, unsafe.Pointer(initid), unsafe.Pointer(args), unsafe.Pointer(isNull), unsafe.Pointer(errFlag))
}
{{end}}
{{- end}}`))

// generate renders the export shims for defs as gofmt'd Go source.
func generate(defs []*udf.Definition) ([]byte, error) {
	shims := make([]shim, len(defs))
	for i, d := range defs {
		shims[i] = shimFor(d)
	}

	var buf bytes.Buffer
	if err := exportsTemplate.Execute(&buf, shims); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "render export shims").
			WithOp("udfgen.generate").
			Err()
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "format export shims").
			WithOp("udfgen.generate").
			Err()
	}
	return src, nil
}
