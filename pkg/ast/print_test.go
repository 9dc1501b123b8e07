package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
)

func TestDebugPrint(t *testing.T) {
	t.Parallel()

	file := testlang.SampleProgram()

	expected := `MiniCalcFile {
  statements = [
    VarDeclaration {
      name = A
      value = [
        IntLit {
          value = 10
        } // IntLit
      ]
    } // VarDeclaration
    Assignment {
      variable = Ref(A)[Resolved]
      value = [
        IntLit {
          value = 11
        } // IntLit
      ]
    } // Assignment
    Print {
      value = [
        ValueReference {
          variable = Ref(A)[Resolved]
        } // ValueReference
      ]
    } // Print
  ]
} // MiniCalcFile
`

	assert.Equal(t, expected, ast.DebugPrint(file, ast.PrintConfig{}))
}

func TestDebugPrint_Options(t *testing.T) {
	t.Parallel()

	box := testlang.NewBox(&testlang.Leaf{Label: "x"})
	box.SetRange(ast.NewRange(1, 0, 2, 0))

	out := ast.DebugPrint(box, ast.PrintConfig{SkipEmptyCollections: true, ForceShowRange: true, Hide: []string{"label"}})

	assert.Equal(t, `Box {
  fixed = [
    Leaf {
      range = null
    } // Leaf
  ]
  range = L1:0 to L2:0
} // Box
`, out)
}
