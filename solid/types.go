package solid

import "github.com/llir/llvm/ir/types"

var (
	Int    = types.I64
	Float  = types.Double
	Bool   = types.I1
	Unit   = types.Void
	Opaque = types.NewPointer(types.I8)
)

// newString is the layout of a String: byte length followed by the data.
func newString() *types.StructType {
	return types.NewStruct(types.I64, Opaque)
}

// newList is the layout of every List: element count followed by the
// element buffer.
func newList() *types.StructType {
	return types.NewStruct(types.I64, Opaque)
}
