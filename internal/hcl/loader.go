package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/devicefarm/internal/config"
	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var _ config.Loader = (*Loader)(nil)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	// LookupEnv backs the env() function. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a new HCL recipe loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the file at path.
func (l *Loader) Load(ctx context.Context, path string) (any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL recipe %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}
	for name, attr := range body.Attributes {
		return nil, fmt.Errorf("%s: unexpected top-level attribute %q", attr.SrcRange, name)
	}

	evalCtx := l.evalContext()
	out := make([]any, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		item, err := decodeBlock(block, evalCtx)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	logger.Debug("HCL recipe parsed.", "file", filename, "blocks", len(out))
	return out, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: functions(lookup),
	}
}

// decodeBlock turns one top-level block into the same mapping a YAML recipe
// element would produce.
func decodeBlock(block *hclsyntax.Block, evalCtx *hcl.EvalContext) (map[string]any, error) {
	var key string
	switch block.Type {
	case "project":
		key = "project"
	case "action":
		key = "action"
	default:
		return nil, fmt.Errorf("%s: unsupported block type %q (want project or action)", block.TypeRange, block.Type)
	}
	if len(block.Labels) != 1 {
		return nil, fmt.Errorf("%s: %s block needs exactly one label", block.TypeRange, block.Type)
	}

	item := map[string]any{key: block.Labels[0]}
	args, present, err := decodeArguments(block.Body, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", block.Type, block.Labels[0], err)
	}
	if present {
		item["arguments"] = args
	}
	return item, nil
}

// decodeArguments reads either an `arguments = {...}` attribute or an
// `arguments {...}` block. present is false when neither is given.
func decodeArguments(body *hclsyntax.Body, evalCtx *hcl.EvalContext) (any, bool, error) {
	for name, attr := range body.Attributes {
		if name != "arguments" {
			return nil, false, fmt.Errorf("%s: unexpected attribute %q", attr.SrcRange, name)
		}
	}

	if attr, ok := body.Attributes["arguments"]; ok {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, false, diags
		}
		native, err := ctyToNative(val)
		return native, true, err
	}

	for _, b := range body.Blocks {
		if b.Type != "arguments" {
			return nil, false, fmt.Errorf("%s: unexpected block %q", b.TypeRange, b.Type)
		}
	}
	if len(body.Blocks) == 0 {
		return nil, false, nil
	}
	if len(body.Blocks) > 1 {
		return nil, false, fmt.Errorf("%s: duplicate arguments block", body.Blocks[1].TypeRange)
	}

	inner := body.Blocks[0].Body
	if len(inner.Blocks) > 0 {
		return nil, false, fmt.Errorf("%s: nested blocks are not supported in arguments; use an object value", inner.Blocks[0].TypeRange)
	}
	args := make(map[string]any, len(inner.Attributes))
	for name, attr := range inner.Attributes {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, false, diags
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, false, fmt.Errorf("argument %q: %w", name, err)
		}
		args[name] = native
	}
	return args, true, nil
}
