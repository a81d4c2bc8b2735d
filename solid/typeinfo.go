package solid

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"
)

// TypeInfoGlobal names the global holding a module's TypeInfo.
const TypeInfoGlobal = "__morph_types"

// TypeInfo records the Morph signatures behind the lowered declarations so
// other tools can recover them from the IR.
type TypeInfo struct {
	Functions map[string]string `json:"functions"`
	Types     map[string]string `json:"types,omitempty"`
}

func registerTypeInfo(t TypeInfo, m *ir.Module) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	g := m.NewGlobalDef(TypeInfoGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

// ReadTypeInfo extracts the TypeInfo embedded in m by Harden.
func ReadTypeInfo(m *ir.Module) (t TypeInfo, err error) {
	for _, g := range m.Globals {
		if g.Name() != TypeInfoGlobal {
			continue
		}
		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return TypeInfo{}, tracerr.Errorf("%s is not a character array", TypeInfoGlobal)
		}

		data := arr.X
		if len(data) > 0 && data[len(data)-1] == 0 {
			data = data[:len(data)-1]
		}
		err = json.Unmarshal(data, &t)
		return
	}

	return TypeInfo{}, tracerr.Errorf("module has no %s global", TypeInfoGlobal)
}
