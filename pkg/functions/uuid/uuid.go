// Package uuid implements the UUID function family: generators for versions
// 1, 4, 6 and 7, the well-known namespace constants, validation, and
// conversion between text and the 16-byte binary form.
//
// UUID handling is github.com/google/uuid; this package only adapts it to
// the udf calling convention and formats into instance-owned buffers so a
// row costs no allocation.
package uuid

import (
	"encoding/hex"
	"sync"

	"github.com/google/uuid"

	"github.com/pluots/udf-suite/pkg/udf"
)

const (
	// HyphenatedLen is the length of the canonical 8-4-4-4-12 text form.
	HyphenatedLen = 36

	// BinaryLen is the length of a UUID's binary form.
	BinaryLen = 16
)

// Definitions returns the family in registration order.
func Definitions() []udf.Definition {
	return []udf.Definition{
		{Name: "uuid_generate_v1", Returns: udf.TypeString, New: newGenerateV1, Usage: "uuid_generate_v1()"},
		{Name: "uuid_generate_v1mc", Returns: udf.TypeString, New: newGenerateV1mc, Usage: "uuid_generate_v1mc()"},
		{Name: "uuid_generate_v4", Returns: udf.TypeString, New: newGenerateV4, Usage: "uuid_generate_v4()"},
		{Name: "uuid_generate_v6", Returns: udf.TypeString, New: newGenerateV6, Usage: "uuid_generate_v6([node_id])"},
		{Name: "uuid_generate_v7", Returns: udf.TypeString, New: newGenerateV7, Usage: "uuid_generate_v7()"},
		{Name: "uuid_nil", Returns: udf.TypeString, New: constant("uuid_nil", uuid.Nil), Usage: "uuid_nil()"},
		{Name: "uuid_max", Returns: udf.TypeString, New: constant("uuid_max", uuid.Max), Usage: "uuid_max()"},
		{Name: "uuid_ns_dns", Returns: udf.TypeString, New: constant("uuid_ns_dns", uuid.NameSpaceDNS), Usage: "uuid_ns_dns()"},
		{Name: "uuid_ns_url", Returns: udf.TypeString, New: constant("uuid_ns_url", uuid.NameSpaceURL), Usage: "uuid_ns_url()"},
		{Name: "uuid_ns_oid", Returns: udf.TypeString, New: constant("uuid_ns_oid", uuid.NameSpaceOID), Usage: "uuid_ns_oid()"},
		{Name: "uuid_ns_x500", Returns: udf.TypeString, New: constant("uuid_ns_x500", uuid.NameSpaceX500), Usage: "uuid_ns_x500()"},
		{Name: "uuid_is_valid", Returns: udf.TypeInt, New: newIsValid, Usage: "uuid_is_valid(str)"},
		{Name: "uuid_to_bin", Returns: udf.TypeString, New: newToBin, Usage: toBinUsage},
		{Name: "uuid_from_bin", Returns: udf.TypeString, New: newFromBin, Usage: fromBinUsage},
	}
}

// encode writes u in lower-case hyphenated form.
func encode(dst *[HyphenatedLen]byte, u uuid.UUID) []byte {
	hex.Encode(dst[0:8], u[0:4])
	dst[8] = '-'
	hex.Encode(dst[9:13], u[4:6])
	dst[13] = '-'
	hex.Encode(dst[14:18], u[6:8])
	dst[18] = '-'
	hex.Encode(dst[19:23], u[8:10])
	dst[23] = '-'
	hex.Encode(dst[24:], u[10:])
	return dst[:]
}

// hardwareNode is the node id for version 1 UUIDs: the address of the
// interface google/uuid selected, or zeros when the host has none.
var hardwareNode = sync.OnceValue(func() [6]byte {
	var node [6]byte
	if uuid.NodeInterface() == "random" {
		return node
	}
	copy(node[:], uuid.NodeID())
	return node
})

// randomNode returns six random bytes taken from a version 4 UUID, whose
// last six bytes carry no version or variant bits.
func randomNode() [6]byte {
	var node [6]byte
	r := uuid.New()
	copy(node[:], r[10:])
	return node
}

func setNode(u *uuid.UUID, node [6]byte) {
	copy(u[10:], node[:])
}
