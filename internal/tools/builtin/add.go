// internal/tools/builtin/add.go
package builtin

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/mitchellh/mapstructure"
)

// AddToolName is the protocol name of the addition tool.
const AddToolName = "add"

// AddTool adds two numbers.
type AddTool struct{}

var _ tools.Executor = (*AddTool)(nil) // Compile-time check for interface implementation

type addParams struct {
	A float64 `mapstructure:"a"`
	B float64 `mapstructure:"b"`
}

// GetDefinition implements the tools.Executor interface.
func (t *AddTool) GetDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        AddToolName,
		Description: "Add two numbers together",
		Params: []models.ParamSpec{
			{Name: "a", Kind: models.ParamNumber, Description: "The first number.", Required: true},
			{Name: "b", Kind: models.ParamNumber, Description: "The second number.", Required: true},
		},
	}
}

// Execute implements the tools.Executor interface.
func (t *AddTool) Execute(ctx context.Context, params map[string]any) (models.ToolInvocationResult, error) {
	var in addParams
	if err := mapstructure.Decode(params, &in); err != nil {
		return models.ToolInvocationResult{}, fmt.Errorf("decode add parameters: %w", err)
	}
	return models.TextResult("Result is " + FormatNumber(in.A+in.B)), nil
}

// FormatNumber renders a float the way a JSON number reads in JavaScript:
// plain decimals for magnitudes in [1e-6, 1e21), shortest exponent form
// ("1e+21", "1e-7") outside it.
func FormatNumber(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mant, exp := s[:i+2], strings.TrimLeft(s[i+2:], "0")
	return mant + exp
}
